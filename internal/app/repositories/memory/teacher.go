package memory

import (
	"context"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
)

// TeacherRepository is the in-memory teacher repository
type TeacherRepository struct {
	s *Store
}

func (r *TeacherRepository) FindAll(ctx context.Context) ([]*models.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.teachers, (*models.Teacher).Clone, nil), nil
}

func (r *TeacherRepository) FindOne(ctx context.Context, id int64) (*models.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	teacher, ok := r.s.teachers[id]
	if !ok {
		return nil, repositories.NotFound("teacher", id)
	}
	return teacher.Clone(), nil
}

func (r *TeacherRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.teachers, (*models.Teacher).Clone, func(t *models.Teacher) bool {
		return models.RefEquals(t.SchoolID, schoolID)
	}), nil
}

func (r *TeacherRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.teachers, (*models.Teacher).Clone, func(t *models.Teacher) bool {
		return t.SchoolID == nil
	}), nil
}

func (r *TeacherRepository) FindAllNotInSchool(ctx context.Context, schoolID int64) ([]*models.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.teachers, (*models.Teacher).Clone, func(t *models.Teacher) bool {
		return !models.RefEquals(t.SchoolID, schoolID)
	}), nil
}

func (r *TeacherRepository) Save(ctx context.Context, teacher *models.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := checkRef(r.s.schools, teacher.SchoolID, "teacher", "school_id"); err != nil {
		return err
	}
	if teacher.ID == 0 {
		teacher.ID = r.s.nextID("teachers")
	} else if _, ok := r.s.teachers[teacher.ID]; !ok {
		return repositories.NotFound("teacher", teacher.ID)
	}
	r.s.teachers[teacher.ID] = teacher.Clone()
	return nil
}

func (r *TeacherRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	teacher, ok := r.s.teachers[id]
	if !ok {
		return repositories.NotFound("teacher", id)
	}
	if err := checkRef(r.s.schools, schoolID, "teacher", "school_id"); err != nil {
		return err
	}
	teacher.SchoolID = models.CloneRef(schoolID)
	return nil
}

func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teachers[id]; !ok {
		return repositories.NotFound("teacher", id)
	}
	if err := referenced(r.s.subjects, func(s *models.Subject) bool {
		return models.RefEquals(s.TeacherID, id)
	}, "teacher", "subjects"); err != nil {
		return err
	}
	delete(r.s.teachers, id)
	return nil
}
