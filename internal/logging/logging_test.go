package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diogo/llmchat/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(config.LogConfig{Level: "debug", Encoding: "json"}, path)
	require.NoError(t, err)

	logger.Debug("exchange finished", zap.Int("chunks", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"exchange finished"`)
	assert.Contains(t, string(data), `"chunks":3`)
	assert.Contains(t, string(data), `"service":"llmchat"`)
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(config.LogConfig{Level: "warn"}, path)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(config.LogConfig{Level: "loud"}, path)
	require.NoError(t, err)

	logger.Debug("debug entry")
	logger.Info("info entry")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "debug entry")
	assert.Contains(t, string(data), "info entry")
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)

	logger, err := NewFromConfig(config.DefaultConfig())
	require.NoError(t, err)
	logger.Info("started")
	_ = logger.Sync()

	_, err = os.Stat(filepath.Join(dir, "llmchat.log"))
	assert.NoError(t, err)
}

func TestNewFromConfig_EnvLevel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	t.Setenv(config.EnvLogLevel, "debug")

	logger, err := NewFromConfig(config.DefaultConfig())
	require.NoError(t, err)
	logger.Debug("debug entry")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "llmchat.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug entry")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
