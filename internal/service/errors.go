package service

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrVenueNotFound    = errors.New("venue not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrRatingValidation = errors.New("rating validation failed")
	ErrUserNotFound     = errors.New("user not found")
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
