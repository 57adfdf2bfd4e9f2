package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/app/models"
	"github.com/yigit/schoolmanager/internal/pkg/dberrors"
)

const divisionColumns = `id, name, school_id`

// PgDivisionRepository handles database operations for divisions
type PgDivisionRepository struct {
	db *pgxpool.Pool
}

// NewDivisionRepository creates a new division repository
func NewDivisionRepository(db *pgxpool.Pool) *PgDivisionRepository {
	return &PgDivisionRepository{
		db: db,
	}
}

// FindAll retrieves all divisions
func (r *PgDivisionRepository) FindAll(ctx context.Context) ([]*models.Division, error) {
	divisions, err := collect[models.Division](ctx, r.db,
		`SELECT `+divisionColumns+` FROM divisions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving divisions: %w", err)
	}
	return divisions, nil
}

// FindOne retrieves a division by ID
func (r *PgDivisionRepository) FindOne(ctx context.Context, id int64) (*models.Division, error) {
	var division models.Division
	err := r.db.QueryRow(ctx, `SELECT `+divisionColumns+` FROM divisions WHERE id = $1`, id).Scan(
		&division.ID,
		&division.Name,
		&division.SchoolID,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, NotFound("division", id)
		}
		return nil, fmt.Errorf("error retrieving division: %w", err)
	}
	return &division, nil
}

// FindAllBySchoolID retrieves the divisions of a school
func (r *PgDivisionRepository) FindAllBySchoolID(ctx context.Context, schoolID int64) ([]*models.Division, error) {
	divisions, err := collect[models.Division](ctx, r.db,
		`SELECT `+divisionColumns+` FROM divisions WHERE school_id = $1 ORDER BY id`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving divisions by school: %w", err)
	}
	return divisions, nil
}

// FindAllBySchoolIDIsNull retrieves the divisions not assigned to any school
func (r *PgDivisionRepository) FindAllBySchoolIDIsNull(ctx context.Context) ([]*models.Division, error) {
	divisions, err := collect[models.Division](ctx, r.db,
		`SELECT `+divisionColumns+` FROM divisions WHERE school_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving unassigned divisions: %w", err)
	}
	return divisions, nil
}

// Save inserts or updates a division
func (r *PgDivisionRepository) Save(ctx context.Context, division *models.Division) error {
	if division.ID == 0 {
		err := r.db.QueryRow(ctx,
			`INSERT INTO divisions (name, school_id) VALUES ($1, $2) RETURNING id`,
			division.Name, division.SchoolID).Scan(&division.ID)
		if err != nil {
			return classifyWriteError(err, "division")
		}
		return nil
	}

	return execByID(ctx, r.db, "division", division.ID,
		`UPDATE divisions SET name = $1, school_id = $2 WHERE id = $3`,
		division.Name, division.SchoolID, division.ID)
}

// SetSchool points the division at schoolID, or detaches it when schoolID is nil
func (r *PgDivisionRepository) SetSchool(ctx context.Context, id int64, schoolID *int64) error {
	return execByID(ctx, r.db, "division", id,
		`UPDATE divisions SET school_id = $1 WHERE id = $2`, schoolID, id)
}

// Delete deletes a division by ID
func (r *PgDivisionRepository) Delete(ctx context.Context, id int64) error {
	return execByID(ctx, r.db, "division", id, `DELETE FROM divisions WHERE id = $1`, id)
}
