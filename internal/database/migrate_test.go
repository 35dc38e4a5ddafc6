package database

import (
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_FirstVersion(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestMigrations_EveryUpHasDown(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for name := range names {
		if strings.HasSuffix(name, ".up.sql") {
			down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
			assert.True(t, names[down], "missing %s", down)
		}
	}
}

func TestMigrations_CascadeChildren(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)

	sql := string(up)
	for _, ref := range []string{
		"REFERENCES users(id) ON DELETE CASCADE",
		"REFERENCES boards(id) ON DELETE CASCADE",
		"REFERENCES columns(id) ON DELETE CASCADE",
	} {
		assert.Contains(t, sql, ref)
	}
	assert.Contains(t, sql, "idx_board_access_board_user ON board_access(board_id, user_id)")
}

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Error(t, MigrateDown("pgx5://localhost/unused", 0, log))
}
