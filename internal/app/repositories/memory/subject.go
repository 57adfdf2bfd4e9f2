package memory

import (
	"context"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
)

// SubjectRepository is the in-memory subject repository
type SubjectRepository struct {
	s *Store
}

func (r *SubjectRepository) FindAll(ctx context.Context) ([]*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.subjects, (*models.Subject).Clone, nil), nil
}

func (r *SubjectRepository) FindOne(ctx context.Context, id int64) (*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	subject, ok := r.s.subjects[id]
	if !ok {
		return nil, repositories.NotFound("subject", id)
	}
	return subject.Clone(), nil
}

func (r *SubjectRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.subjects, (*models.Subject).Clone, func(s *models.Subject) bool {
		return models.RefEquals(s.SchoolID, schoolID)
	}), nil
}

func (r *SubjectRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.subjects, (*models.Subject).Clone, func(s *models.Subject) bool {
		return s.SchoolID == nil
	}), nil
}

func (r *SubjectRepository) FindAllByTeacherID(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.subjects, (*models.Subject).Clone, func(s *models.Subject) bool {
		return models.RefEquals(s.TeacherID, teacherID)
	}), nil
}

func (r *SubjectRepository) Save(ctx context.Context, subject *models.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := checkRef(r.s.schools, subject.SchoolID, "subject", "school_id"); err != nil {
		return err
	}
	if err := checkRef(r.s.teachers, subject.TeacherID, "subject", "teacher_id"); err != nil {
		return err
	}
	if subject.ID == 0 {
		subject.ID = r.s.nextID("subjects")
	} else if _, ok := r.s.subjects[subject.ID]; !ok {
		return repositories.NotFound("subject", subject.ID)
	}
	r.s.subjects[subject.ID] = subject.Clone()
	return nil
}

func (r *SubjectRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	subject, ok := r.s.subjects[id]
	if !ok {
		return repositories.NotFound("subject", id)
	}
	if err := checkRef(r.s.schools, schoolID, "subject", "school_id"); err != nil {
		return err
	}
	subject.SchoolID = models.CloneRef(schoolID)
	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subjects[id]; !ok {
		return repositories.NotFound("subject", id)
	}
	if err := referenced(r.s.marks, func(m *models.Mark) bool { return m.SubjectID == id }, "subject", "marks"); err != nil {
		return err
	}
	delete(r.s.subjects, id)
	return nil
}
