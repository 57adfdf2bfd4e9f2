package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/models/dto"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
	"github.com/yigit/schoolmanager/internal/pkg/cache"
	"github.com/yigit/schoolmanager/internal/pkg/logger"
)

const allSchoolsKey = "schools:all"

func schoolKey(id int64) string {
	return fmt.Sprintf("school:%d", id)
}

// SchoolService defines the school CRUD operations
type SchoolService interface {
	GetAllSchools(ctx context.Context) ([]*models.School, error)
	GetSchoolByID(ctx context.Context, id int64) (*models.School, error)
	GetSchoolDetails(ctx context.Context, id int64) (*dto.SchoolDetails, error)
	CreateSchool(ctx context.Context, req *dto.SchoolRequest) (*models.School, error)
	UpdateSchool(ctx context.Context, id int64, req *dto.SchoolRequest) (*models.School, error)
	DeleteSchool(ctx context.Context, id int64) error
}

// schoolServiceImpl implements SchoolService with cache-aside reads
type schoolServiceImpl struct {
	schoolRepo repositories.SchoolRepository
	repos      *repositories.Repositories
	cache      cache.Cache
}

// NewSchoolService creates a new school service instance. A nil cache disables caching.
func NewSchoolService(repos *repositories.Repositories, c cache.Cache) SchoolService {
	if c == nil {
		c = cache.Noop{}
	}
	return &schoolServiceImpl{
		schoolRepo: repos.SchoolRepository,
		repos:      repos,
		cache:      c,
	}
}

// GetAllSchools lists every school
func (s *schoolServiceImpl) GetAllSchools(ctx context.Context) ([]*models.School, error) {
	var schools []*models.School
	if s.cached(ctx, allSchoolsKey, &schools) {
		return schools, nil
	}

	schools, err := s.schoolRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving schools: %w", err)
	}
	s.store(ctx, allSchoolsKey, schools)
	return schools, nil
}

// GetSchoolByID retrieves a school or fails with ErrResourceNotFound
func (s *schoolServiceImpl) GetSchoolByID(ctx context.Context, id int64) (*models.School, error) {
	var school models.School
	if s.cached(ctx, schoolKey(id), &school) {
		return &school, nil
	}

	found, err := s.schoolRepo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, schoolKey(id), found)
	return found, nil
}

// GetSchoolDetails loads a school with everything assigned to it
func (s *schoolServiceImpl) GetSchoolDetails(ctx context.Context, id int64) (*dto.SchoolDetails, error) {
	school, err := s.GetSchoolByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &dto.SchoolDetails{School: school}
	if details.Divisions, err = s.repos.DivisionRepository.FindAllBySchoolID(ctx, id); err != nil {
		return nil, fmt.Errorf("error retrieving divisions: %w", err)
	}
	if details.Subjects, err = s.repos.SubjectRepository.FindAllBySchoolID(ctx, id); err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	if details.Students, err = s.repos.StudentRepository.FindAllBySchoolID(ctx, id); err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	if details.Teachers, err = s.repos.TeacherRepository.FindAllBySchoolID(ctx, id); err != nil {
		return nil, fmt.Errorf("error retrieving teachers: %w", err)
	}
	return details, nil
}

// CreateSchool saves a new school
func (s *schoolServiceImpl) CreateSchool(ctx context.Context, req *dto.SchoolRequest) (*models.School, error) {
	if req == nil {
		return nil, apperrors.NewBadRequestError("school form is missing")
	}

	school := &models.School{Name: strings.TrimSpace(req.Name)}
	if err := s.schoolRepo.Save(ctx, school); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return school, nil
}

// UpdateSchool loads the school, applies the form and saves it under the same id
func (s *schoolServiceImpl) UpdateSchool(ctx context.Context, id int64, req *dto.SchoolRequest) (*models.School, error) {
	if req == nil {
		return nil, apperrors.NewBadRequestError("school form is missing")
	}

	school, err := s.schoolRepo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	school.Name = strings.TrimSpace(req.Name)
	school.ID = id

	if err := s.schoolRepo.Save(ctx, school); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return school, nil
}

// DeleteSchool removes a school that nothing references any more
func (s *schoolServiceImpl) DeleteSchool(ctx context.Context, id int64) error {
	if err := s.schoolRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// cached reads key into dest. Cache failures count as a miss.
func (s *schoolServiceImpl) cached(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("School cache read failed")
		return false
	}
	return hit
}

func (s *schoolServiceImpl) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("School cache write failed")
	}
}

func (s *schoolServiceImpl) invalidate(ctx context.Context, ids ...int64) {
	keys := []string{allSchoolsKey}
	for _, id := range ids {
		keys = append(keys, schoolKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("School cache invalidation failed")
	}
}
