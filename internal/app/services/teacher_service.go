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

// TeacherService lists and creates teachers
type TeacherService interface {
	GetAllTeachers(ctx context.Context) ([]*models.Teacher, error)
	CreateTeacher(ctx context.Context, req *dto.TeacherRequest) (*models.Teacher, error)
}

type teacherServiceImpl struct {
	teacherRepo repositories.TeacherRepository
	schoolRepo  repositories.SchoolRepository
}

// NewTeacherService creates a new teacher service instance
func NewTeacherService(teacherRepo repositories.TeacherRepository, schoolRepo repositories.SchoolRepository) TeacherService {
	return &teacherServiceImpl{
		teacherRepo: teacherRepo,
		schoolRepo:  schoolRepo,
	}
}

func (s *teacherServiceImpl) GetAllTeachers(ctx context.Context) ([]*models.Teacher, error) {
	teachers, err := s.teacherRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teachers: %w", err)
	}
	return teachers, nil
}

func (s *teacherServiceImpl) CreateTeacher(ctx context.Context, req *dto.TeacherRequest) (*models.Teacher, error) {
	if req == nil {
		return nil, apperrors.NewBadRequestError("teacher form is missing")
	}
	if err := requireSchool(ctx, s.schoolRepo, req.SchoolID); err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		SchoolID:  req.SchoolID,
	}
	if err := s.teacherRepo.Save(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}
