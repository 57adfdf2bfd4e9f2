package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

// SchoolRepository is the data access contract for schools
type SchoolRepository interface {
	FindAll(ctx context.Context) ([]*models.School, error)
	FindOne(ctx context.Context, id int64) (*models.School, error)
	Save(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, id int64) error
}

// DivisionRepository is the data access contract for divisions
type DivisionRepository interface {
	FindAll(ctx context.Context) ([]*models.Division, error)
	FindOne(ctx context.Context, id int64) (*models.Division, error)
	FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Division, error)
	FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Division, error)
	Save(ctx context.Context, division *models.Division) error
	SetSchool(ctx context.Context, id int64, schoolID *int64) error
	Delete(ctx context.Context, id int64) error
}

// SubjectRepository is the data access contract for subjects
type SubjectRepository interface {
	FindAll(ctx context.Context) ([]*models.Subject, error)
	FindOne(ctx context.Context, id int64) (*models.Subject, error)
	FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Subject, error)
	FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Subject, error)
	FindAllByTeacherID(ctx context.Context, teacherID int64) ([]*models.Subject, error)
	Save(ctx context.Context, subject *models.Subject) error
	SetSchool(ctx context.Context, id int64, schoolID *int64) error
	Delete(ctx context.Context, id int64) error
}

// StudentRepository is the data access contract for students
type StudentRepository interface {
	FindAll(ctx context.Context) ([]*models.Student, error)
	FindOne(ctx context.Context, id int64) (*models.Student, error)
	FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Student, error)
	FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Student, error)
	// FindAllNotInSchool returns students with no school or another school
	FindAllNotInSchool(ctx context.Context, schoolID int64) ([]*models.Student, error)
	FindAllByDivisionID(ctx context.Context, divisionID int64) ([]*models.Student, error)
	Save(ctx context.Context, student *models.Student) error
	SetSchool(ctx context.Context, id int64, schoolID *int64) error
	Delete(ctx context.Context, id int64) error
}

// TeacherRepository is the data access contract for teachers
type TeacherRepository interface {
	FindAll(ctx context.Context) ([]*models.Teacher, error)
	FindOne(ctx context.Context, id int64) (*models.Teacher, error)
	FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Teacher, error)
	FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Teacher, error)
	// FindAllNotInSchool returns teachers with no school or another school
	FindAllNotInSchool(ctx context.Context, schoolID int64) ([]*models.Teacher, error)
	Save(ctx context.Context, teacher *models.Teacher) error
	SetSchool(ctx context.Context, id int64, schoolID *int64) error
	Delete(ctx context.Context, id int64) error
}

// MarkRepository is the data access contract for marks
type MarkRepository interface {
	FindAll(ctx context.Context) ([]*models.Mark, error)
	FindOne(ctx context.Context, id int64) (*models.Mark, error)
	FindAllByStudentID(ctx context.Context, studentID int64) ([]*models.Mark, error)
	FindAllBySubjectID(ctx context.Context, subjectID int64) ([]*models.Mark, error)
	Save(ctx context.Context, mark *models.Mark) error
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	SchoolRepository   SchoolRepository
	DivisionRepository DivisionRepository
	SubjectRepository  SubjectRepository
	StudentRepository  StudentRepository
	TeacherRepository  TeacherRepository
	MarkRepository     MarkRepository
}

// NewRepositories initializes all Postgres-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		SchoolRepository:   NewSchoolRepository(db),
		DivisionRepository: NewDivisionRepository(db),
		SubjectRepository:  NewSubjectRepository(db),
		StudentRepository:  NewStudentRepository(db),
		TeacherRepository:  NewTeacherRepository(db),
		MarkRepository:     NewMarkRepository(db),
	}
}

// NotFound wraps ErrResourceNotFound with the entity and id that were missing
func NotFound(entity string, id int64) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s %d not found", entity, id))
}
