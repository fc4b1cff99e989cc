package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes the repositories react to.
const (
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeInvalidTextRep      = "22P02"
)

// ErrorCode returns the SQLSTATE carried by err, from either the pgx or the
// lib/pq driver, or "" when err is not a server error.
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsForeignKeyViolation reports whether err is a referential integrity failure.
func IsForeignKeyViolation(err error) bool {
	return ErrorCode(err) == CodeForeignKeyViolation
}

// IsInvalidInput reports whether the server rejected a parameter's text form,
// e.g. a malformed uuid.
func IsInvalidInput(err error) bool {
	return ErrorCode(err) == CodeInvalidTextRep
}
