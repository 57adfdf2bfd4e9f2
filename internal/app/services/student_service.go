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

// StudentService lists and creates students
type StudentService interface {
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.Student, error)
}

type studentServiceImpl struct {
	studentRepo  repositories.StudentRepository
	schoolRepo   repositories.SchoolRepository
	divisionRepo repositories.DivisionRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(repos *repositories.Repositories) StudentService {
	return &studentServiceImpl{
		studentRepo:  repos.StudentRepository,
		schoolRepo:   repos.SchoolRepository,
		divisionRepo: repos.DivisionRepository,
	}
}

func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	if req == nil {
		return nil, apperrors.NewBadRequestError("student form is missing")
	}
	if err := requireSchool(ctx, s.schoolRepo, req.SchoolID); err != nil {
		return nil, err
	}
	if req.DivisionID != nil {
		if _, err := s.divisionRepo.FindOne(ctx, *req.DivisionID); err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewValidationError("division_id", fmt.Sprintf("division %d does not exist", *req.DivisionID))
			}
			return nil, err
		}
	}

	student := &models.Student{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		SchoolID:   req.SchoolID,
		DivisionID: req.DivisionID,
	}
	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}
