package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// DivisionService lists and creates divisions
type DivisionService interface {
	GetAllDivisions(ctx context.Context) ([]*models.Division, error)
	CreateDivision(ctx context.Context, req *dto.DivisionRequest) (*models.Division, error)
}

type divisionServiceImpl struct {
	divisionRepo repositories.DivisionRepository
	schoolRepo   repositories.SchoolRepository
}

// NewDivisionService creates a new division service instance
func NewDivisionService(divisionRepo repositories.DivisionRepository, schoolRepo repositories.SchoolRepository) DivisionService {
	return &divisionServiceImpl{
		divisionRepo: divisionRepo,
		schoolRepo:   schoolRepo,
	}
}

func (s *divisionServiceImpl) GetAllDivisions(ctx context.Context) ([]*models.Division, error) {
	divisions, err := s.divisionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving divisions: %w", err)
	}
	return divisions, nil
}

func (s *divisionServiceImpl) CreateDivision(ctx context.Context, req *dto.DivisionRequest) (*models.Division, error) {
	if req == nil {
		return nil, apperrors.NewBadRequestError("division form is missing")
	}
	if err := requireSchool(ctx, s.schoolRepo, req.SchoolID); err != nil {
		return nil, err
	}

	division := &models.Division{
		Name:     strings.TrimSpace(req.Name),
		SchoolID: req.SchoolID,
	}
	if err := s.divisionRepo.Save(ctx, division); err != nil {
		return nil, err
	}
	return division, nil
}

// requireSchool turns a dangling school reference into a field error
func requireSchool(ctx context.Context, schoolRepo repositories.SchoolRepository, schoolID *int64) error {
	if schoolID == nil {
		return nil
	}
	if _, err := schoolRepo.FindOne(ctx, *schoolID); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewValidationError("school_id", fmt.Sprintf("school %d does not exist", *schoolID))
		}
		return err
	}
	return nil
}
