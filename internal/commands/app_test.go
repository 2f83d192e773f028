package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/llmchat/internal/config"
	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/models"
)

func TestResolveModel(t *testing.T) {
	catalog := config.DefaultCatalog()

	tests := []struct {
		name    string
		flag    string
		setting string
		want    models.ModelID
		wantErr bool
	}{
		{"flag wins", "o3-mini", "gpt-4o", models.ModelO3Mini, false},
		{"setting", "", "o3-mini", models.ModelO3Mini, false},
		{"catalog default", "", "", models.ModelGPT4o, false},
		{"unknown flag", "gpt-2", "gpt-4o", "", true},
		{"unknown setting", "", "gpt-2", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.DefaultModel = tt.setting

			got, err := resolveModel(&globalOptions{model: tt.flag}, cfg, catalog)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apierrors.IsUnknownModelError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewApp_WritesLog(t *testing.T) {
	env := newTestEnv(t)

	a, err := newApp(env.deps.withDefaults(), &globalOptions{})
	require.NoError(t, err)
	a.close()

	data, err := os.ReadFile(env.home + "/llmchat.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "session ready")
	assert.Contains(t, string(data), "gpt-4o")
}

func TestDependencies_WithDefaults(t *testing.T) {
	var nilDeps *Dependencies
	d := nilDeps.withDefaults()
	assert.NotNil(t, d.TUI)
	assert.Equal(t, os.Stdout, d.Stdout)
	assert.NotNil(t, d.IsTerminal)
	assert.Nil(t, d.Streamer)

	var out bytes.Buffer
	d = (&Dependencies{Stdout: &out}).withDefaults()
	assert.Same(t, &out, d.Stdout)
	assert.Equal(t, os.Stderr, d.Stderr)
	assert.NotNil(t, d.CopyToClipboard)
}

func TestHasPipedInput(t *testing.T) {
	assert.False(t, hasPipedInput(nil))
	assert.True(t, hasPipedInput(strings.NewReader("x")))

	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer devNull.Close()
	assert.False(t, hasPipedInput(devNull))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.True(t, hasPipedInput(r))
}
