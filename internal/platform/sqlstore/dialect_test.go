package sqlstore

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebindDollar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "sequential placeholders",
			query: "SELECT * FROM t WHERE a = ? AND b IN (?, ?)",
			want:  "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)",
		},
		{
			name:  "quoted question mark is kept",
			query: "SELECT '?' FROM t WHERE a = ?",
			want:  "SELECT '?' FROM t WHERE a = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RebindDollar(tt.query))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestToTime(t *testing.T) {
	t.Parallel()
	want := time.Date(2024, 5, 20, 14, 15, 16, 0, time.UTC)

	for _, v := range []any{
		want,
		"2024-05-20 14:15:16+00:00",
		"2024-05-20T14:15:16Z",
		"2024-05-20 14:15:16",
		[]byte("2024-05-20 14:15:16 +0000 UTC"),
	} {
		got, err := toTime(v)
		require.NoError(t, err, "value %v", v)
		assert.True(t, want.Equal(got), "value %v gave %v", v, got)
	}

	zero, err := toTime(nil)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = toTime("yesterday")
	assert.Error(t, err)
	_, err = toTime(42)
	assert.Error(t, err)
}

func TestToDate(t *testing.T) {
	t.Parallel()

	got, err := toDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	local := time.Date(2024, 2, 29, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	got, err = toDate(local)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got, "calendar day must survive")
}

func TestNullHelpers(t *testing.T) {
	t.Parallel()
	assert.Nil(t, int64Ptr(sql.NullInt64{}))
	assert.Equal(t, int64(3), *int64Ptr(sql.NullInt64{Int64: 3, Valid: true}))
	assert.Nil(t, stringPtr(sql.NullString{}))
	assert.Equal(t, "x", *stringPtr(sql.NullString{String: "x", Valid: true}))
}
