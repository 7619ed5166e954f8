package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{
			name:   "no rows",
			err:    sql.ErrNoRows,
			target: store.ErrNotFound,
		},
		{
			name:   "unique violation",
			err:    &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "settings_pkey"},
			target: store.ErrDuplicate,
		},
		{
			name:   "foreign key violation",
			err:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "study_srs_card_id_fkey"},
			target: store.ErrReferenceViolation,
		},
		{
			name:   "check violation",
			err:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "study_srs_box_check"},
			target: store.ErrInvalidEntity,
		},
		{
			name:   "not null violation",
			err:    &pgconn.PgError{Code: notNullViolationCode, ColumnName: "question"},
			target: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.target)
			assert.ErrorIs(t, mapped, tt.err, "original error must stay wrapped")
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped error is returned unchanged", func(t *testing.T) {
		original := errors.New("connection reset")
		assert.Same(t, original, MapError(original))
	})

	t.Run("foreign key also counts as invalid entity", func(t *testing.T) {
		err := MapError(&pgconn.PgError{Code: foreignKeyViolationCode})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}
