package secrets_test

import (
	"context"
	"testing"

	"github.com/krasavchik01/rbbb-sub002/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveSource(t *testing.T) {
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, "development"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, ""))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceAuto, "production"))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceAuto, "staging"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceEnvironment, "production"))
}

func TestNewProvider_VaultRequiresName(t *testing.T) {
	_, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceVault,
		Environment: "production",
	}, zap.NewNop())
	require.Error(t, err)
}

func TestProvider_EnvironmentSource(t *testing.T) {
	p, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceAuto,
		Environment: "development",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	t.Run("reads set variable", func(t *testing.T) {
		t.Setenv("RBBB_TEST_SECRET", "s3cret")
		v, err := p.GetSecret(context.Background(), "RBBB_TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", v)
	})

	t.Run("missing variable is an error", func(t *testing.T) {
		_, err := p.GetSecret(context.Background(), "RBBB_TEST_SECRET_MISSING")
		assert.Error(t, err)
	})

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("RBBB_REMOTE_PASSWORD", "from-env")
		v, err := p.GetSecretOrEnv(context.Background(), "REMOTE-DB-PASSWORD", "RBBB_REMOTE_PASSWORD")
		require.NoError(t, err)
		assert.Equal(t, "from-env", v)
	})
}
