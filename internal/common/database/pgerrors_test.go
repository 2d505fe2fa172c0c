package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsExclusionViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}
	wrapped := fmt.Errorf("insert booking: %w", pgErr)

	assert.True(t, IsExclusionViolation(wrapped, "bookings_no_overlap"))
	assert.True(t, IsExclusionViolation(wrapped, ""))
	assert.False(t, IsExclusionViolation(wrapped, "other_constraint"))
	assert.False(t, IsUniqueViolation(wrapped, ""))
	assert.False(t, IsExclusionViolation(errors.New("plain"), ""))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_rooms_name"}
	assert.True(t, IsUniqueViolation(pgErr, "idx_rooms_name"))
}
