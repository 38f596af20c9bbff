package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no live record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateClient is returned when a client id is already registered.
	ErrDuplicateClient = errors.New("client already registered")
	// ErrDuplicateToken is returned when a token value collides with a stored one.
	ErrDuplicateToken = errors.New("token already exists")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
