package repo

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrClientNotFound        = errors.New("client not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidQuantityChange = errors.New("quantity cannot be negative")
	ErrDuplicatedValueUnique = errors.New("duplicated value violates unique constraint")
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognises unique constraint failures from pgx and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
