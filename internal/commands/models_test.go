package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/llmchat/internal/config"
)

func TestModelsCmd(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("models"))
	out := env.stdout.String()

	assert.Contains(t, out, "MODEL")
	assert.Contains(t, out, "gpt-4o")
	assert.Contains(t, out, "o3-mini")
	assert.Contains(t, out, "gpt-4o prompts:")
	assert.Contains(t, out, "  3. you are a pirate.")
	assert.Contains(t, out, "  2. you speak in chinese")
	assert.Zero(t, env.streamer.Opened())

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "prompts:") {
			continue
		}
		if strings.HasPrefix(line, "gpt-4o ") {
			assert.Contains(t, line, "✓")
		}
		if strings.HasPrefix(line, "o3-mini ") {
			assert.NotContains(t, line, "✓")
		}
	}
}

func TestModelsCmd_DoesNotNeedAPIKey(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(config.EnvAPIKey, "")

	assert.NoError(t, env.run("models"))
}

func TestModelsCmd_CustomCatalog(t *testing.T) {
	env := newTestEnv(t)
	catalog := `
[[models]]
model = "llama3"
description = "Local model"
prompts = ["Answer briefly."]
`
	require.NoError(t, os.WriteFile(filepath.Join(env.home, "catalog.toml"), []byte(catalog), 0o600))

	require.NoError(t, env.run("models"))
	assert.Contains(t, env.stdout.String(), "llama3")
	assert.Contains(t, env.stdout.String(), "Local model")
	assert.Contains(t, env.stdout.String(), "  1. Answer briefly.")
}

func TestModelsCmd_InvalidCatalog(t *testing.T) {
	env := newTestEnv(t)
	catalog := `
[[models]]
model = "empty"
prompts = []
`
	require.NoError(t, os.WriteFile(filepath.Join(env.home, "catalog.toml"), []byte(catalog), 0o600))

	assert.Error(t, env.run("models"))
}

func TestTruncatePrompt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "short", 10, "short"},
		{"long", "abcdefghij", 5, "abcd…"},
		{"multiline", "first\nsecond", 20, "first…"},
		{"unicode", "日本語のプロンプト", 4, "日本語…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncatePrompt(tt.in, tt.n))
		})
	}
}
