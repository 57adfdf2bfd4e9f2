package memory

import (
	"context"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
)

// SchoolRepository is the in-memory school repository
type SchoolRepository struct {
	s *Store
}

func (r *SchoolRepository) FindAll(ctx context.Context) ([]*models.School, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.schools, cloneSchool, nil), nil
}

func (r *SchoolRepository) FindOne(ctx context.Context, id int64) (*models.School, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	school, ok := r.s.schools[id]
	if !ok {
		return nil, repositories.NotFound("school", id)
	}
	return cloneSchool(school), nil
}

func (r *SchoolRepository) Save(ctx context.Context, school *models.School) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if school.ID == 0 {
		school.ID = r.s.nextID("schools")
	} else if _, ok := r.s.schools[school.ID]; !ok {
		return repositories.NotFound("school", school.ID)
	}
	r.s.schools[school.ID] = cloneSchool(school)
	return nil
}

func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schools[id]; !ok {
		return repositories.NotFound("school", id)
	}

	in := inSchool(id)
	if err := referenced(r.s.divisions, func(d *models.Division) bool { return in(d.SchoolID) }, "school", "divisions"); err != nil {
		return err
	}
	if err := referenced(r.s.subjects, func(s *models.Subject) bool { return in(s.SchoolID) }, "school", "subjects"); err != nil {
		return err
	}
	if err := referenced(r.s.students, func(s *models.Student) bool { return in(s.SchoolID) }, "school", "students"); err != nil {
		return err
	}
	if err := referenced(r.s.teachers, func(t *models.Teacher) bool { return in(t.SchoolID) }, "school", "teachers"); err != nil {
		return err
	}

	delete(r.s.schools, id)
	return nil
}
