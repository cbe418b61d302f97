package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PLM_TEST_FROM_FILE=file\nPLM_TEST_PRESET=file\n"), 0644))

	t.Setenv("PLM_ENV_PATH", "")
	t.Setenv("PLM_TEST_FROM_FILE", "")
	os.Unsetenv("PLM_TEST_FROM_FILE")
	t.Setenv("PLM_TEST_PRESET", "shell")

	require.NoError(t, LoadDotEnv(path, true))
	assert.Equal(t, "file", os.Getenv("PLM_TEST_FROM_FILE"))
	assert.Equal(t, "shell", os.Getenv("PLM_TEST_PRESET"))
}

func TestLoadDotEnv_PathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("PLM_TEST_OVERRIDE=yes\n"), 0644))

	t.Setenv("PLM_ENV_PATH", path)
	t.Setenv("PLM_TEST_OVERRIDE", "")
	os.Unsetenv("PLM_TEST_OVERRIDE")

	require.NoError(t, LoadDotEnv("does-not-exist.env", true))
	assert.Equal(t, "yes", os.Getenv("PLM_TEST_OVERRIDE"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Setenv("PLM_ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.NoError(t, LoadDotEnv(missing, false))
	assert.Error(t, LoadDotEnv(missing, true))
}
