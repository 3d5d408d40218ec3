package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(Migrations, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		raw, err := fs.ReadFile(Migrations, name)
		require.NoError(t, err)
		body := string(raw)
		assert.Contains(t, body, "-- +goose Up", name)
		assert.Contains(t, body, "-- +goose Down", name)
	}
}

func TestInitCreatesAllTables(t *testing.T) {
	raw, err := fs.ReadFile(Migrations, migrationsDir+"/00001_init.sql")
	require.NoError(t, err)

	up := strings.SplitN(string(raw), "-- +goose Down", 2)[0]
	for _, table := range []string{"accounts", "sessions", "password_reset_tokens"} {
		assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
