package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/dberrors"
)

const subjectColumns = `id, name, school_id, teacher_id`

// PgSubjectRepository handles database operations for subjects
type PgSubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *PgSubjectRepository {
	return &PgSubjectRepository{
		db: db,
	}
}

// FindAll retrieves all subjects
func (r *PgSubjectRepository) FindAll(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := collect[models.Subject](ctx, r.db,
		`SELECT `+subjectColumns+` FROM subjects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	return subjects, nil
}

// FindOne retrieves a subject by ID
func (r *PgSubjectRepository) FindOne(ctx context.Context, id int64) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.QueryRow(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.SchoolID,
		&subject.TeacherID,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, NotFound("subject", id)
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	return &subject, nil
}

// FindAllBySchoolID retrieves the subjects of a school
func (r *PgSubjectRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Subject, error) {
	subjects, err := collect[models.Subject](ctx, r.db,
		`SELECT `+subjectColumns+` FROM subjects WHERE school_id = $1 ORDER BY id`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects by school: %w", err)
	}
	return subjects, nil
}

// FindAllBySchoolIDIsNull retrieves the subjects not assigned to any school
func (r *PgSubjectRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := collect[models.Subject](ctx, r.db,
		`SELECT `+subjectColumns+` FROM subjects WHERE school_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving unassigned subjects: %w", err)
	}
	return subjects, nil
}

// FindAllByTeacherID retrieves the subjects taught by a teacher
func (r *PgSubjectRepository) FindAllByTeacherID(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	subjects, err := collect[models.Subject](ctx, r.db,
		`SELECT `+subjectColumns+` FROM subjects WHERE teacher_id = $1 ORDER BY id`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects by teacher: %w", err)
	}
	return subjects, nil
}

// Save inserts or updates a subject, both foreign keys included
func (r *PgSubjectRepository) Save(ctx context.Context, subject *models.Subject) error {
	if subject.ID == 0 {
		err := r.db.QueryRow(ctx,
			`INSERT INTO subjects (name, school_id, teacher_id) VALUES ($1, $2, $3) RETURNING id`,
			subject.Name, subject.SchoolID, subject.TeacherID).Scan(&subject.ID)
		if err != nil {
			return classifyWriteError(err, "subject")
		}
		return nil
	}

	return execByID(ctx, r.db, "subject", subject.ID,
		`UPDATE subjects SET name = $1, school_id = $2, teacher_id = $3 WHERE id = $4`,
		subject.Name, subject.SchoolID, subject.TeacherID, subject.ID)
}

// SetSchool points the subject at schoolID, or detaches it when schoolID is nil
func (r *PgSubjectRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	return execByID(ctx, r.db, "subject", id,
		`UPDATE subjects SET school_id = $1 WHERE id = $2`, schoolID, id)
}

// Delete deletes a subject by ID
func (r *PgSubjectRepository) Delete(ctx context.Context, id int64) error {
	return execByID(ctx, r.db, "subject", id, `DELETE FROM subjects WHERE id = $1`, id)
}
