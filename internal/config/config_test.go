package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  requests_per_second: 5
  max_body_bytes: 1024
gemini:
  text_model: gemini-2.0-flash
  api_keys: [k1, k2]
storage:
  path: /tmp/chat.db
log:
  level: debug
  format: text
  file: /tmp/chat.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5.0, cfg.Server.RequestsPerSecond)
	assert.Equal(t, 1, cfg.Server.Burst)
	assert.Equal(t, int64(1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.TextModel)
	assert.Equal(t, DefaultModel, cfg.Gemini.VisionModel)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Gemini.APIKeys)
	assert.Equal(t, "/tmp/chat.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "/tmp/chat.log", cfg.Log.File)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Zero(t, cfg.Server.RequestsPerSecond)
	assert.Zero(t, cfg.Server.Burst)
	assert.Equal(t, DefaultMaxBodyBytes, cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Storage.Path)

	assert.Equal(t, cfg, Default())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map"))
	assert.Error(t, err)
}
