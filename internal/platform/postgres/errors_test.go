package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "card_states_pkey"}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", unique)),
		"wrapped driver errors are still recognized")

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	fk := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "card_states_word_id_fkey"}
	assert.True(t, isForeignKeyViolation(fk))
	assert.True(t, isForeignKeyViolation(fmt.Errorf("insert: %w", fk)))

	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, isForeignKeyViolation(nil))
}
