package memory

import (
	"context"
	"sort"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
)

// StudentRepository is the in-memory student repository
type StudentRepository struct {
	s *Store
}

func (r *StudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.students, (*models.Student).Clone, nil), nil
}

func (r *StudentRepository) FindOne(ctx context.Context, id int64) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	student, ok := r.s.students[id]
	if !ok {
		return nil, repositories.NotFound("student", id)
	}
	return student.Clone(), nil
}

func (r *StudentRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.students, (*models.Student).Clone, func(s *models.Student) bool {
		return models.RefEquals(s.SchoolID, schoolID)
	}), nil
}

func (r *StudentRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.students, (*models.Student).Clone, func(s *models.Student) bool {
		return s.SchoolID == nil
	}), nil
}

func (r *StudentRepository) FindAllNotInSchool(ctx context.Context, schoolID int64) ([]*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.students, (*models.Student).Clone, func(s *models.Student) bool {
		return !models.RefEquals(s.SchoolID, schoolID)
	}), nil
}

// FindAllByDivisionID orders the roster by last name, first name, then id
func (r *StudentRepository) FindAllByDivisionID(ctx context.Context, divisionID int64) ([]*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	students := selectRows(r.s.students, (*models.Student).Clone, func(s *models.Student) bool {
		return models.RefEquals(s.DivisionID, divisionID)
	})
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students, nil
}

func (r *StudentRepository) Save(ctx context.Context, student *models.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := checkRef(r.s.schools, student.SchoolID, "student", "school_id"); err != nil {
		return err
	}
	if err := checkRef(r.s.divisions, student.DivisionID, "student", "division_id"); err != nil {
		return err
	}
	if student.ID == 0 {
		student.ID = r.s.nextID("students")
	} else if _, ok := r.s.students[student.ID]; !ok {
		return repositories.NotFound("student", student.ID)
	}
	r.s.students[student.ID] = student.Clone()
	return nil
}

func (r *StudentRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	student, ok := r.s.students[id]
	if !ok {
		return repositories.NotFound("student", id)
	}
	if err := checkRef(r.s.schools, schoolID, "student", "school_id"); err != nil {
		return err
	}
	student.SchoolID = models.CloneRef(schoolID)
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.students[id]; !ok {
		return repositories.NotFound("student", id)
	}
	if err := referenced(r.s.marks, func(m *models.Mark) bool { return m.StudentID == id }, "student", "marks"); err != nil {
		return err
	}
	delete(r.s.students, id)
	return nil
}
