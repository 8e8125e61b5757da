package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// MapError translates database errors into domain sentinel errors.
// sql.ErrNoRows maps to notFound and unique constraint violations map
// to duplicate; all other errors pass through unchanged.
func MapError(err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return duplicate
	}

	return err
}
