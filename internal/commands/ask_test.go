package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/llmchat/internal/config"
	apierrors "github.com/diogo/llmchat/internal/errors"
)

func TestAsk_StreamsRawText(t *testing.T) {
	env := newTestEnv(t, "The ", "", "answer")

	require.NoError(t, env.run("ask", "what", "is", "it?"))

	assert.Equal(t, "The answer", env.stdout.String())
	assert.Empty(t, env.stderr.String())

	req := env.streamer.LastRequest()
	assert.True(t, req.Stream)
	assert.Equal(t, "gpt-4o", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "You are a helpful assistant.", req.Messages[0].Content)
	assert.Equal(t, "what is it?", req.Messages[1].Content)
	assert.Equal(t, 1, env.streamer.Closed())
}

func TestAsk_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("ask", "   ")
	assert.ErrorIs(t, err, apierrors.ErrEmptyMessage)
	assert.Zero(t, env.streamer.Opened())
}

func TestAsk_PromptFlag(t *testing.T) {
	env := newTestEnv(t, "Arr")

	require.NoError(t, env.run("ask", "-p", "3", "hello"))
	assert.Equal(t, "you are a pirate.", env.streamer.LastRequest().Messages[0].Content)
}

func TestAsk_PromptOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("ask", "-m", "o3-mini", "-p", "3", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 2 prompts")
	assert.Zero(t, env.streamer.Opened())
}

func TestAsk_UnknownModel(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("ask", "-m", "gpt-2", "hello")
	require.Error(t, err)
	assert.True(t, apierrors.IsUnknownModelError(err))
	assert.Zero(t, env.streamer.Opened())
}

func TestAsk_MissingAPIKey(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(config.EnvAPIKey, "")

	err := env.run("ask", "hello")
	require.Error(t, err)
	assert.True(t, apierrors.IsAuthError(err))
}

func TestAsk_EnvFile(t *testing.T) {
	env := newTestEnv(t, "ok")
	t.Setenv(config.EnvAPIKey, "")
	os.Unsetenv(config.EnvAPIKey)

	path := filepath.Join(env.home, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OPENAI_API_KEY=sk-from-file\n"), 0o600))

	require.NoError(t, env.run("ask", "--env-file", path, "hello"))
	assert.Equal(t, "sk-from-file", os.Getenv(config.EnvAPIKey))
}

func TestAsk_AuthFailure(t *testing.T) {
	env := newTestEnv(t)
	env.streamer.OpenErr = &openai.APIError{HTTPStatusCode: 401, Message: "Incorrect API key provided"}

	err := env.run("ask", "hello")
	require.Error(t, err)
	assert.True(t, apierrors.IsAuthError(err))
	assert.Empty(t, env.stdout.String())
}

func TestAsk_MidStreamFailureKeepsPartial(t *testing.T) {
	env := newTestEnv(t, "Hel", "lo")
	env.streamer.Err = errors.New("connection reset")

	err := env.run("ask", "hello")
	require.Error(t, err)
	assert.Equal(t, "Hello", apierrors.GetPartial(err))
	assert.Equal(t, "Hello\n", env.stdout.String())
}

func TestAsk_OutputFile(t *testing.T) {
	env := newTestEnv(t, "# Title", "\nbody")
	out := filepath.Join(env.home, "reply.md")

	require.NoError(t, env.run("ask", "-o", out, "hello"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# Title\nbody", string(data))
	assert.Empty(t, env.stdout.String())
}

func TestAsk_DecoratedRendersBubble(t *testing.T) {
	env := newTestEnv(t, "**bold** reply")
	env.terminal = true

	require.NoError(t, env.run("ask", "hello"))

	assert.Contains(t, env.stdout.String(), "✦ gpt-4o")
	assert.Contains(t, env.stdout.String(), "bold")
	assert.NotContains(t, env.stdout.String(), "**bold**")
	assert.Contains(t, env.stderr.String(), "Done in")
	assert.Empty(t, env.copied)
}

func TestAsk_DecoratedCopiesToClipboard(t *testing.T) {
	env := newTestEnv(t, "copy me")
	env.terminal = true
	cfg := config.DefaultConfig()
	cfg.CopyToClipboard = true
	env.writeSettings(t, cfg)

	require.NoError(t, env.run("ask", "hello"))

	assert.Equal(t, []string{"copy me"}, env.copied)
	assert.Contains(t, env.stderr.String(), "Copied to clipboard")
}

func TestAsk_RawFlagSkipsDecoration(t *testing.T) {
	env := newTestEnv(t, "plain")
	env.terminal = true
	cfg := config.DefaultConfig()
	cfg.CopyToClipboard = true
	env.writeSettings(t, cfg)

	require.NoError(t, env.run("ask", "--raw", "hello"))

	assert.Equal(t, "plain\n", env.stdout.String())
	assert.Empty(t, env.copied)
}
