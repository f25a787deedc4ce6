package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Endpoint)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, 300000*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, `
endpoint: http://writer.local:9000
timeout: 30s
log:
  level: debug
  format: json
`)
	t.Setenv("FOLIO_ENDPOINT", "http://env.local:7000")
	t.Setenv("FOLIO_LOG_FORMAT", "text")

	cfg, err := Load(path)
	require.NoError(t, err)

	// env beats file
	assert.Equal(t, "http://env.local:7000", cfg.Endpoint)
	assert.Equal(t, "text", cfg.Log.Format)
	// file beats defaults
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	// defaults survive
	assert.Equal(t, "/api", cfg.BasePath)
}

func TestLoad_EnvDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOLIO_TIMEOUT", "2m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := Load(writeFile(t, "endpoint: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("BadEndpoint", func(t *testing.T) {
		_, err := Load(writeFile(t, "endpoint: not-a-url"))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("BadBasePath", func(t *testing.T) {
		_, err := Load(writeFile(t, "base_path: api"))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("BadEnvDuration", func(t *testing.T) {
		t.Setenv("FOLIO_TIMEOUT", "soon")
		_, err := Load(writeFile(t, "endpoint: http://localhost:1"))
		assert.Error(t, err)
	})
}
