package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/dberrors"
)

const markColumns = `id, value, description, student_id, subject_id`

// PgMarkRepository handles database operations for marks
type PgMarkRepository struct {
	db *pgxpool.Pool
}

// NewMarkRepository creates a new mark repository
func NewMarkRepository(db *pgxpool.Pool) *PgMarkRepository {
	return &PgMarkRepository{
		db: db,
	}
}

// FindAll retrieves all marks
func (r *PgMarkRepository) FindAll(ctx context.Context) ([]*models.Mark, error) {
	marks, err := collect[models.Mark](ctx, r.db, `SELECT `+markColumns+` FROM marks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving marks: %w", err)
	}
	return marks, nil
}

// FindOne retrieves a mark by ID
func (r *PgMarkRepository) FindOne(ctx context.Context, id int64) (*models.Mark, error) {
	var mark models.Mark
	err := r.db.QueryRow(ctx, `SELECT `+markColumns+` FROM marks WHERE id = $1`, id).Scan(
		&mark.ID,
		&mark.Value,
		&mark.Description,
		&mark.StudentID,
		&mark.SubjectID,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, NotFound("mark", id)
		}
		return nil, fmt.Errorf("error retrieving mark: %w", err)
	}
	return &mark, nil
}

// FindAllByStudentID retrieves the marks of a student
func (r *PgMarkRepository) FindAllByStudentID(ctx context.Context, studentID int64) ([]*models.Mark, error) {
	marks, err := collect[models.Mark](ctx, r.db,
		`SELECT `+markColumns+` FROM marks WHERE student_id = $1 ORDER BY id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving marks by student: %w", err)
	}
	return marks, nil
}

// FindAllBySubjectID retrieves the marks given in a subject
func (r *PgMarkRepository) FindAllBySubjectID(ctx context.Context, subjectID int64) ([]*models.Mark, error) {
	marks, err := collect[models.Mark](ctx, r.db,
		`SELECT `+markColumns+` FROM marks WHERE subject_id = $1 ORDER BY id`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving marks by subject: %w", err)
	}
	return marks, nil
}

// Save inserts or updates a mark
func (r *PgMarkRepository) Save(ctx context.Context, mark *models.Mark) error {
	if mark.ID == 0 {
		err := r.db.QueryRow(ctx,
			`INSERT INTO marks (value, description, student_id, subject_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			mark.Value, mark.Description, mark.StudentID, mark.SubjectID).Scan(&mark.ID)
		if err != nil {
			return classifyWriteError(err, "mark")
		}
		return nil
	}

	return execByID(ctx, r.db, "mark", mark.ID,
		`UPDATE marks SET value = $1, description = $2, student_id = $3, subject_id = $4 WHERE id = $5`,
		mark.Value, mark.Description, mark.StudentID, mark.SubjectID, mark.ID)
}

// Delete deletes a mark by ID
func (r *PgMarkRepository) Delete(ctx context.Context, id int64) error {
	return execByID(ctx, r.db, "mark", id, `DELETE FROM marks WHERE id = $1`, id)
}
