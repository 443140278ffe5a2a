package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/database"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	db, err := database.NewLocalDatabase(&config.LocalConfig{SQLitePath: path})
	require.NoError(t, err)

	require.NoError(t, database.HealthCheck(context.Background(), db))

	stats, err := database.Stats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestAutoMigrate(t *testing.T) {
	db, err := database.NewLocalDatabase(&config.LocalConfig{SQLitePath: filepath.Join(t.TempDir(), "mirror.db")})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))

	for _, table := range []string{remote.TableEmployees, remote.TableProjects, remote.TableEvaluations, remote.TableProjectData} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
