package memory

import (
	"context"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
)

// DivisionRepository is the in-memory division repository
type DivisionRepository struct {
	s *Store
}

func (r *DivisionRepository) FindAll(ctx context.Context) ([]*models.Division, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.divisions, (*models.Division).Clone, nil), nil
}

func (r *DivisionRepository) FindOne(ctx context.Context, id int64) (*models.Division, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	division, ok := r.s.divisions[id]
	if !ok {
		return nil, repositories.NotFound("division", id)
	}
	return division.Clone(), nil
}

func (r *DivisionRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Division, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.divisions, (*models.Division).Clone, func(d *models.Division) bool {
		return models.RefEquals(d.SchoolID, schoolID)
	}), nil
}

func (r *DivisionRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Division, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.divisions, (*models.Division).Clone, func(d *models.Division) bool {
		return d.SchoolID == nil
	}), nil
}

func (r *DivisionRepository) Save(ctx context.Context, division *models.Division) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := checkRef(r.s.schools, division.SchoolID, "division", "school_id"); err != nil {
		return err
	}
	if division.ID == 0 {
		division.ID = r.s.nextID("divisions")
	} else if _, ok := r.s.divisions[division.ID]; !ok {
		return repositories.NotFound("division", division.ID)
	}
	r.s.divisions[division.ID] = division.Clone()
	return nil
}

func (r *DivisionRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	division, ok := r.s.divisions[id]
	if !ok {
		return repositories.NotFound("division", id)
	}
	if err := checkRef(r.s.schools, schoolID, "division", "school_id"); err != nil {
		return err
	}
	division.SchoolID = models.CloneRef(schoolID)
	return nil
}

func (r *DivisionRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.divisions[id]; !ok {
		return repositories.NotFound("division", id)
	}
	if err := referenced(r.s.students, func(s *models.Student) bool {
		return models.RefEquals(s.DivisionID, id)
	}, "division", "students"); err != nil {
		return err
	}
	delete(r.s.divisions, id)
	return nil
}
