package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	if v, ok := f[secretName]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

// chdirTemp runs the test from an empty directory so no config.json is picked up
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.Remote.Enabled)
	assert.Equal(t, "sqlite", cfg.Local.Backend)
	assert.Equal(t, 5*1024*1024, cfg.Local.MaxDocumentBytes)
	assert.Equal(t, 30*time.Second, cfg.Jobs.NotificationPollInterval())
	assert.Contains(t, cfg.CORS.AllowedHeaders, "X-User-Role")
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LOCAL_BACKEND", "redis")
	t.Setenv("REMOTE_PORT", "6543")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Local.Backend)
	assert.Equal(t, 6543, cfg.Remote.Port)
}

func TestApplySecrets(t *testing.T) {
	t.Run("overrides credentials", func(t *testing.T) {
		cfg := &config.Config{Remote: config.RemoteConfig{Enabled: true, Host: "localhost"}}
		err := config.ApplySecrets(context.Background(), cfg, fakeSecrets{
			"REMOTE-DB-HOST":     "db.internal",
			"REMOTE-DB-PASSWORD": "pw",
		})
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Remote.Host)
		assert.Equal(t, "pw", cfg.Remote.Password)
	})

	t.Run("enabled remote without password fails", func(t *testing.T) {
		cfg := &config.Config{Remote: config.RemoteConfig{Enabled: true}}
		err := config.ApplySecrets(context.Background(), cfg, fakeSecrets{})
		assert.Error(t, err)
	})

	t.Run("disabled remote tolerates missing password", func(t *testing.T) {
		cfg := &config.Config{}
		assert.NoError(t, config.ApplySecrets(context.Background(), cfg, fakeSecrets{}))
	})
}

func TestRemoteConfig_URL(t *testing.T) {
	r := config.RemoteConfig{Host: "h", Port: 5432, Name: "db", User: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", r.URL())
	assert.Contains(t, r.ConnectionString(), "dbname=db")
}
