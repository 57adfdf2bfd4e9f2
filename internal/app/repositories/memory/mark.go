package memory

import (
	"context"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
)

// MarkRepository is the in-memory mark repository
type MarkRepository struct {
	s *Store
}

func (r *MarkRepository) FindAll(ctx context.Context) ([]*models.Mark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.marks, cloneMark, nil), nil
}

func (r *MarkRepository) FindOne(ctx context.Context, id int64) (*models.Mark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	mark, ok := r.s.marks[id]
	if !ok {
		return nil, repositories.NotFound("mark", id)
	}
	return cloneMark(mark), nil
}

func (r *MarkRepository) FindAllByStudentID(ctx context.Context, studentID int64) ([]*models.Mark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.marks, cloneMark, func(m *models.Mark) bool { return m.StudentID == studentID }), nil
}

func (r *MarkRepository) FindAllBySubjectID(ctx context.Context, subjectID int64) ([]*models.Mark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return selectRows(r.s.marks, cloneMark, func(m *models.Mark) bool { return m.SubjectID == subjectID }), nil
}

func (r *MarkRepository) Save(ctx context.Context, mark *models.Mark) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	studentID, subjectID := mark.StudentID, mark.SubjectID
	if err := checkRef(r.s.students, &studentID, "mark", "student_id"); err != nil {
		return err
	}
	if err := checkRef(r.s.subjects, &subjectID, "mark", "subject_id"); err != nil {
		return err
	}
	if mark.ID == 0 {
		mark.ID = r.s.nextID("marks")
	} else if _, ok := r.s.marks[mark.ID]; !ok {
		return repositories.NotFound("mark", mark.ID)
	}
	r.s.marks[mark.ID] = cloneMark(mark)
	return nil
}

func (r *MarkRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.marks[id]; !ok {
		return repositories.NotFound("mark", id)
	}
	delete(r.s.marks, id)
	return nil
}
