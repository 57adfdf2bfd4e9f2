package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
	"github.com/yigit/schoolmanager/internal/pkg/logger"
	"github.com/yigit/schoolmanager/internal/pkg/roster"
	"github.com/yigit/schoolmanager/internal/pkg/validation"
)

// RosterService imports students from spreadsheet rosters
type RosterService interface {
	ImportStudents(ctx context.Context, schoolID, divisionID int64, workbook io.Reader) (*dto.RosterImportResponse, error)
}

type rosterServiceImpl struct {
	schoolRepo   repositories.SchoolRepository
	divisionRepo repositories.DivisionRepository
	studentRepo  repositories.StudentRepository
}

// NewRosterService creates a new roster service instance
func NewRosterService(repos *repositories.Repositories) RosterService {
	return &rosterServiceImpl{
		schoolRepo:   repos.SchoolRepository,
		divisionRepo: repos.DivisionRepository,
		studentRepo:  repos.StudentRepository,
	}
}

// ImportStudents creates one student per roster row, placed in the school
// and division. Rows with a missing or invalid name are reported back
// instead of failing the import.
func (s *rosterServiceImpl) ImportStudents(ctx context.Context, schoolID, divisionID int64, workbook io.Reader) (*dto.RosterImportResponse, error) {
	if workbook == nil {
		return nil, apperrors.NewValidationError("file", "file is required")
	}
	if _, err := s.schoolRepo.FindOne(ctx, schoolID); err != nil {
		return nil, err
	}
	division, err := s.divisionRepo.FindOne(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	if division.SchoolID != nil && *division.SchoolID != schoolID {
		return nil, apperrors.NewConflictError(fmt.Sprintf("division %d belongs to school %d, not %d", divisionID, *division.SchoolID, schoolID))
	}

	parsed, err := roster.Parse(workbook)
	if err != nil {
		if errors.Is(err, roster.ErrEmptyWorkbook) {
			return nil, apperrors.NewValidationError("file", err.Error())
		}
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	resp := &dto.RosterImportResponse{
		Created:  []*models.Student{},
		Rejected: append([]int{}, parsed.Rejected...),
	}
	for _, entry := range parsed.Entries {
		form := &dto.StudentRequest{FirstName: entry.FirstName, LastName: entry.LastName}
		if err := validation.Struct(form); err != nil {
			resp.Rejected = append(resp.Rejected, entry.Row)
			continue
		}

		student := &models.Student{
			FirstName:  form.FirstName,
			LastName:   form.LastName,
			SchoolID:   models.Ref(schoolID),
			DivisionID: models.Ref(divisionID),
		}
		if err := s.studentRepo.Save(ctx, student); err != nil {
			return nil, fmt.Errorf("error saving roster row %d: %w", entry.Row, err)
		}
		resp.Created = append(resp.Created, student)
	}

	sort.Ints(resp.Rejected)

	logger.Info().
		Int64("schoolId", schoolID).
		Int64("divisionId", divisionID).
		Int("created", len(resp.Created)).
		Int("rejected", len(resp.Rejected)).
		Msg("Roster imported")
	return resp, nil
}
