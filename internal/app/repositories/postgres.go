package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
	"github.com/yigit/schoolmanager/internal/pkg/dberrors"
)

// collect runs a list query and maps every row onto T by db tag
func collect[T any](ctx context.Context, db *pgxpool.Pool, query string, args ...any) ([]*T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, err
	}
	return items, nil
}

// classifyWriteError maps Postgres constraint failures onto application errors
func classifyWriteError(err error, entity string) error {
	switch {
	case dberrors.IsForeignKeyViolation(err):
		return apperrors.NewConstraintError(fmt.Sprintf("%s: %s violates constraint %s", apperrors.ErrConstraintViolation.Error(), entity, dberrors.ConstraintName(err)))
	case dberrors.IsDuplicateConstraintError(err, ""):
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, fmt.Sprintf("%s already exists", entity)).
			WithDetails(map[string]interface{}{"constraint": dberrors.ConstraintName(err)})
	default:
		return err
	}
}

// execByID runs an UPDATE or DELETE keyed by id and reports a missing row as not found
func execByID(ctx context.Context, db *pgxpool.Pool, entity string, id int64, query string, args ...any) error {
	cmdTag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return classifyWriteError(err, entity)
	}
	if cmdTag.RowsAffected() == 0 {
		return NotFound(entity, id)
	}
	return nil
}
