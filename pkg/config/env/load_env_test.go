package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, "local", Environment())

	t.Setenv("ENV", "production")
	assert.Equal(t, "production", Environment())
	assert.False(t, IsLocal(Environment()))
}

func TestLoadDotEnv(t *testing.T) {
	path := writeEnvFile(t, "WANDA_TEST_PORT=9999\nWANDA_TEST_KEPT=from-file\n")
	t.Setenv("ENV_PATH", path)
	t.Setenv("WANDA_TEST_KEPT", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("WANDA_TEST_PORT") })

	require.NoError(t, LoadDotEnv("local", "ignored/.env"))
	assert.Equal(t, "9999", os.Getenv("WANDA_TEST_PORT"))
	assert.Equal(t, "from-process", os.Getenv("WANDA_TEST_KEPT"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "nope.env")

	assert.Error(t, LoadDotEnv("local", missing))
	assert.Error(t, LoadDotEnv("", missing))
	assert.NoError(t, LoadDotEnv("production", missing))
}
