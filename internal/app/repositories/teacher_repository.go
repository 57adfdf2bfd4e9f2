package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/dberrors"
)

const teacherColumns = `id, first_name, last_name, school_id`

// PgTeacherRepository handles database operations for teachers
type PgTeacherRepository struct {
	db *pgxpool.Pool
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *pgxpool.Pool) *PgTeacherRepository {
	return &PgTeacherRepository{
		db: db,
	}
}

// FindAll retrieves all teachers
func (r *PgTeacherRepository) FindAll(ctx context.Context) ([]*models.Teacher, error) {
	teachers, err := collect[models.Teacher](ctx, r.db,
		`SELECT `+teacherColumns+` FROM teachers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teachers: %w", err)
	}
	return teachers, nil
}

// FindOne retrieves a teacher by ID
func (r *PgTeacherRepository) FindOne(ctx context.Context, id int64) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id).Scan(
		&teacher.ID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.SchoolID,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, NotFound("teacher", id)
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	return &teacher, nil
}

// FindAllBySchoolID retrieves the teachers of a school
func (r *PgTeacherRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Teacher, error) {
	teachers, err := collect[models.Teacher](ctx, r.db,
		`SELECT `+teacherColumns+` FROM teachers WHERE school_id = $1 ORDER BY id`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teachers by school: %w", err)
	}
	return teachers, nil
}

// FindAllBySchoolIDIsNull retrieves the teachers not assigned to any school
func (r *PgTeacherRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Teacher, error) {
	teachers, err := collect[models.Teacher](ctx, r.db,
		`SELECT `+teacherColumns+` FROM teachers WHERE school_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving unassigned teachers: %w", err)
	}
	return teachers, nil
}

// FindAllNotInSchool retrieves teachers without a school or employed by another one
func (r *PgTeacherRepository) FindAllNotInSchool(ctx context.Context, schoolID int64) ([]*models.Teacher, error) {
	teachers, err := collect[models.Teacher](ctx, r.db,
		`SELECT `+teacherColumns+` FROM teachers WHERE school_id IS NULL OR school_id <> $1 ORDER BY id`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teachers outside school: %w", err)
	}
	return teachers, nil
}

// Save inserts or updates a teacher
func (r *PgTeacherRepository) Save(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == 0 {
		err := r.db.QueryRow(ctx,
			`INSERT INTO teachers (first_name, last_name, school_id) VALUES ($1, $2, $3) RETURNING id`,
			teacher.FirstName, teacher.LastName, teacher.SchoolID).Scan(&teacher.ID)
		if err != nil {
			return classifyWriteError(err, "teacher")
		}
		return nil
	}

	return execByID(ctx, r.db, "teacher", teacher.ID,
		`UPDATE teachers SET first_name = $1, last_name = $2, school_id = $3 WHERE id = $4`,
		teacher.FirstName, teacher.LastName, teacher.SchoolID, teacher.ID)
}

// SetSchool points the teacher at schoolID, or detaches it when schoolID is nil
func (r *PgTeacherRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	return execByID(ctx, r.db, "teacher", id,
		`UPDATE teachers SET school_id = $1 WHERE id = $2`, schoolID, id)
}

// Delete deletes a teacher by ID
func (r *PgTeacherRepository) Delete(ctx context.Context, id int64) error {
	return execByID(ctx, r.db, "teacher", id, `DELETE FROM teachers WHERE id = $1`, id)
}
