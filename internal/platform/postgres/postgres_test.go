package postgres_test

import (
	"io/fs"
	"testing"
	"time"

	"github.com/phrazzld/tatame-api/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query string
		want  string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM goals WHERE id = ?", "SELECT * FROM goals WHERE id = $1"},
		{
			"UPDATE goals SET status = ? WHERE id = ? AND owner_id = ?",
			"UPDATE goals SET status = $1 WHERE id = $2 AND owner_id = $3",
		},
		{"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"},
	}

	d := postgres.Dialect{}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Rebind(tt.query))
	}
}

func TestDialectValues(t *testing.T) {
	t.Parallel()

	d := postgres.Dialect{}
	assert.Equal(t, "postgres", d.Name())

	local := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, local.UTC(), d.Timestamp(local))

	list, err := d.List(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, list)

	var techniques []string
	require.NoError(t, d.ListScanner(&techniques).Scan("{armlock,\"x guard\"}"))
	assert.Equal(t, []string{"armlock", "x guard"}, techniques)
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(postgres.Migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, files, 3)
}
