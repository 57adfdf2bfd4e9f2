package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/dberrors"
)

// PgSchoolRepository handles database operations for schools
type PgSchoolRepository struct {
	db *pgxpool.Pool
}

// NewSchoolRepository creates a new school repository
func NewSchoolRepository(db *pgxpool.Pool) *PgSchoolRepository {
	return &PgSchoolRepository{
		db: db,
	}
}

// FindAll retrieves all schools ordered by id
func (r *PgSchoolRepository) FindAll(ctx context.Context) ([]*models.School, error) {
	schools, err := collect[models.School](ctx, r.db, `SELECT id, name FROM schools ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving schools: %w", err)
	}
	return schools, nil
}

// FindOne retrieves a school by ID
func (r *PgSchoolRepository) FindOne(ctx context.Context, id int64) (*models.School, error) {
	var school models.School
	err := r.db.QueryRow(ctx, `SELECT id, name FROM schools WHERE id = $1`, id).Scan(&school.ID, &school.Name)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, NotFound("school", id)
		}
		return nil, fmt.Errorf("error retrieving school: %w", err)
	}
	return &school, nil
}

// Save inserts a school without an id and updates one that has an id
func (r *PgSchoolRepository) Save(ctx context.Context, school *models.School) error {
	if school.ID == 0 {
		err := r.db.QueryRow(ctx, `INSERT INTO schools (name) VALUES ($1) RETURNING id`, school.Name).Scan(&school.ID)
		if err != nil {
			return classifyWriteError(err, "school")
		}
		return nil
	}

	return execByID(ctx, r.db, "school", school.ID,
		`UPDATE schools SET name = $1 WHERE id = $2`, school.Name, school.ID)
}

// Delete deletes a school by ID. Referenced schools fail with a constraint error.
func (r *PgSchoolRepository) Delete(ctx context.Context, id int64) error {
	return execByID(ctx, r.db, "school", id, `DELETE FROM schools WHERE id = $1`, id)
}
