package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useTempCache(t *testing.T) {
	t.Helper()
	t.Setenv("LOCAL_BACKEND", "sqlite")
	t.Setenv("LOCAL_SQLITEPATH", filepath.Join(t.TempDir(), "cache.db"))
	t.Setenv("REMOTE_ENABLED", "false")
}

func TestTemplatesImportAndList(t *testing.T) {
	useTempCache(t)

	out, err := execute(t, "templates", "import", "../../internal/methodology/testdata/templates.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "imported audit-ifrs")

	out, err = execute(t, "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "audit-ifrs")
	assert.Contains(t, out, "Statutory audit (IFRS)")
}

func TestTemplatesImport_MissingFile(t *testing.T) {
	useTempCache(t)

	_, err := execute(t, "templates", "import", "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestSync_RemoteDisabled(t *testing.T) {
	useTempCache(t)

	out, err := execute(t, "sync")
	assert.ErrorIs(t, err, errSyncIncomplete)
	assert.Contains(t, out, `"reachable": false`)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rbbbctl version "+version+"\n", out)
}
