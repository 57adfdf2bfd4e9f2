package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/dberrors"
)

const studentColumns = `id, first_name, last_name, school_id, division_id`

// PgStudentRepository handles database operations for students
type PgStudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *PgStudentRepository {
	return &PgStudentRepository{
		db: db,
	}
}

// FindAll retrieves all students
func (r *PgStudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	students, err := collect[models.Student](ctx, r.db,
		`SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// FindOne retrieves a student by ID
func (r *PgStudentRepository) FindOne(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	err := r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id).Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.SchoolID,
		&student.DivisionID,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, NotFound("student", id)
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &student, nil
}

// FindAllBySchoolID retrieves the students of a school
func (r *PgStudentRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Student, error) {
	students, err := collect[models.Student](ctx, r.db,
		`SELECT `+studentColumns+` FROM students WHERE school_id = $1 ORDER BY id`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students by school: %w", err)
	}
	return students, nil
}

// FindAllBySchoolIDIsNull retrieves the students not assigned to any school
func (r *PgStudentRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Student, error) {
	students, err := collect[models.Student](ctx, r.db,
		`SELECT `+studentColumns+` FROM students WHERE school_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving unassigned students: %w", err)
	}
	return students, nil
}

// FindAllNotInSchool retrieves students without a school or attending another one
func (r *PgStudentRepository) FindAllNotInSchool(ctx context.Context, schoolID int64) ([]*models.Student, error) {
	students, err := collect[models.Student](ctx, r.db,
		`SELECT `+studentColumns+` FROM students WHERE school_id IS NULL OR school_id <> $1 ORDER BY id`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students outside school: %w", err)
	}
	return students, nil
}

// FindAllByDivisionID retrieves the roster of a division
func (r *PgStudentRepository) FindAllByDivisionID(ctx context.Context, divisionID int64) ([]*models.Student, error) {
	students, err := collect[models.Student](ctx, r.db,
		`SELECT `+studentColumns+` FROM students WHERE division_id = $1 ORDER BY last_name, first_name, id`, divisionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students by division: %w", err)
	}
	return students, nil
}

// Save inserts or updates a student
func (r *PgStudentRepository) Save(ctx context.Context, student *models.Student) error {
	if student.ID == 0 {
		err := r.db.QueryRow(ctx,
			`INSERT INTO students (first_name, last_name, school_id, division_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			student.FirstName, student.LastName, student.SchoolID, student.DivisionID).Scan(&student.ID)
		if err != nil {
			return classifyWriteError(err, "student")
		}
		return nil
	}

	return execByID(ctx, r.db, "student", student.ID,
		`UPDATE students SET first_name = $1, last_name = $2, school_id = $3, division_id = $4 WHERE id = $5`,
		student.FirstName, student.LastName, student.SchoolID, student.DivisionID, student.ID)
}

// SetSchool points the student at schoolID, or detaches it when schoolID is nil
func (r *PgStudentRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	return execByID(ctx, r.db, "student", id,
		`UPDATE students SET school_id = $1 WHERE id = $2`, schoolID, id)
}

// Delete deletes a student by ID
func (r *PgStudentRepository) Delete(ctx context.Context, id int64) error {
	return execByID(ctx, r.db, "student", id, `DELETE FROM students WHERE id = $1`, id)
}
