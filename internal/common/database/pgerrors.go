package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// IsExclusionViolation reports whether err is an exclusion-constraint violation,
// optionally restricted to the named constraint.
func IsExclusionViolation(err error, constraint string) bool {
	return matchPgError(err, codeExclusionViolation, constraint)
}

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	return matchPgError(err, codeUniqueViolation, constraint)
}

func matchPgError(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
