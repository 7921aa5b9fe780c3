package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bookstore-api/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", pgErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestUserConflictError(t *testing.T) {
	assert.ErrorIs(t, userConflictError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}),
		domain.ErrUsernameAlreadyExists)
	assert.ErrorIs(t, userConflictError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}),
		domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, userConflictError(&pgconn.PgError{Code: "23505", ConstraintName: "otro"}),
		domain.ErrConflict)
}
