// Package memory provides in-memory repositories with the same semantics as
// the Postgres ones: upsert saves, explicit not-found errors, foreign keys
// checked on save and restricted on delete.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/app/repositories"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// Store holds every table behind one lock so cross-table checks are atomic
type Store struct {
	mu sync.RWMutex

	schools   map[int64]*models.School
	divisions map[int64]*models.Division
	subjects  map[int64]*models.Subject
	students  map[int64]*models.Student
	teachers  map[int64]*models.Teacher
	marks     map[int64]*models.Mark

	seq map[string]int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		schools:   make(map[int64]*models.School),
		divisions: make(map[int64]*models.Division),
		subjects:  make(map[int64]*models.Subject),
		students:  make(map[int64]*models.Student),
		teachers:  make(map[int64]*models.Teacher),
		marks:     make(map[int64]*models.Mark),
		seq:       make(map[string]int64),
	}
}

// Repositories returns the repository set backed by this store
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		SchoolRepository:   &SchoolRepository{s: s},
		DivisionRepository: &DivisionRepository{s: s},
		SubjectRepository:  &SubjectRepository{s: s},
		StudentRepository:  &StudentRepository{s: s},
		TeacherRepository:  &TeacherRepository{s: s},
		MarkRepository:     &MarkRepository{s: s},
	}
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// checkRef fails when a non-nil reference points at a missing row
func checkRef[T any](rows map[int64]*T, ref *int64, entity, column string) error {
	if ref == nil {
		return nil
	}
	if _, ok := rows[*ref]; !ok {
		return apperrors.NewConstraintError(fmt.Sprintf("%s.%s references missing row %d", entity, column, *ref))
	}
	return nil
}

// referenced fails when any row of rows satisfies uses
func referenced[T any](rows map[int64]*T, uses func(*T) bool, entity, by string) error {
	for _, row := range rows {
		if uses(row) {
			return apperrors.NewConstraintError(fmt.Sprintf("%s is still referenced by %s", entity, by))
		}
	}
	return nil
}

// selectRows copies the rows accepted by keep, ordered by id
func selectRows[T any](rows map[int64]*T, clone func(*T) *T, keep func(*T) bool) []*T {
	ids := make([]int64, 0, len(rows))
	for id, row := range rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(rows[id]))
	}
	return out
}

func inSchool(schoolID int64) func(ref *int64) bool {
	return func(ref *int64) bool { return models.RefEquals(ref, schoolID) }
}

func cloneSchool(s *models.School) *models.School {
	c := *s
	return &c
}

func cloneMark(m *models.Mark) *models.Mark {
	c := *m
	return &c
}
