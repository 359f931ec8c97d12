package db

import (
	"foodievent/src/config"
	"foodievent/src/models"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSqliteAndMigrate(t *testing.T) {
	cfg := config.Config{
		DatabaseDriver: "sqlite",
		SqlitePath:     filepath.Join(t.TempDir(), "test.db"),
	}
	d, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(d))

	for _, m := range []any{&models.User{}, &models.Event{}, &models.Order{}, &models.Comment{}} {
		assert.True(t, d.Migrator().HasTable(m))
	}
	assert.Equal(t, "sqlite", d.Name())
}
