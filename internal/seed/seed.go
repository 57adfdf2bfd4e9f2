// Package seed fills an empty database with a starter school.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/schoolmanager/internal/app/models"
	appRepos "github.com/yigit/schoolmanager/internal/app/repositories"
)

// Default data names
const (
	DefaultSchoolName   = "Lincoln High"
	DefaultDivisionName = "9A"
)

// CreateDefaultData creates "Lincoln High" with division "9A" when there are
// no schools yet. It reports whether anything was created.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) (bool, error) {
	schools, err := repos.SchoolRepository.FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check existing schools: %w", err)
	}
	if len(schools) > 0 {
		lgr.Debug().Int("schools", len(schools)).Msg("Schools present, skipping default data")
		return false, nil
	}

	school := &appModels.School{Name: DefaultSchoolName}
	if err := repos.SchoolRepository.Save(ctx, school); err != nil {
		return false, fmt.Errorf("failed to create default school: %w", err)
	}

	division := &appModels.Division{Name: DefaultDivisionName, SchoolID: appModels.Ref(school.ID)}
	if err := repos.DivisionRepository.Save(ctx, division); err != nil {
		return false, fmt.Errorf("failed to create default division: %w", err)
	}

	lgr.Info().
		Int64("schoolId", school.ID).
		Int64("divisionId", division.ID).
		Msg("Default school created")
	return true, nil
}
