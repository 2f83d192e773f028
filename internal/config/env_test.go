package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/diogo/llmchat/internal/errors"
)

func TestLoadEnvFile_Explicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LLMCHAT_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LLMCHAT_TEST_VALUE", "")
	if err := os.Unsetenv("LLMCHAT_TEST_VALUE"); err != nil {
		t.Fatal(err)
	}

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() returned error: %v", err)
	}
	if got := os.Getenv("LLMCHAT_TEST_VALUE"); got != "from-file" {
		t.Errorf("LLMCHAT_TEST_VALUE = %q, want from-file", got)
	}
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LLMCHAT_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LLMCHAT_TEST_VALUE", "from-env")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() returned error: %v", err)
	}
	if got := os.Getenv("LLMCHAT_TEST_VALUE"); got != "from-env" {
		t.Errorf("LLMCHAT_TEST_VALUE = %q, want from-env", got)
	}
}

func TestLoadEnvFile_MissingExplicit(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for missing explicit env file")
	}
}

func TestLoadEnvFile_MissingDefault(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	if err := LoadEnvFile(""); err != nil {
		t.Errorf("LoadEnvFile(\"\") returned error: %v", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv(EnvAPIKey, "  sk-test  ")
	t.Setenv(EnvBaseURL, "")

	creds, err := LoadCredentials(DefaultConfig())
	if err != nil {
		t.Fatalf("LoadCredentials() returned error: %v", err)
	}
	if creds.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", creds.APIKey)
	}
	if creds.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q", creds.BaseURL)
	}
}

func TestLoadCredentials_BaseURLPrecedence(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-test")

	cfg := DefaultConfig()
	cfg.BaseURL = "https://config.example/v1/"

	tests := []struct {
		env  string
		want string
	}{
		{"", "https://config.example/v1"},
		{"http://localhost:8080/v1", "http://localhost:8080/v1"},
	}

	for _, tt := range tests {
		t.Setenv(EnvBaseURL, tt.env)
		creds, err := LoadCredentials(cfg)
		if err != nil {
			t.Fatalf("LoadCredentials() returned error: %v", err)
		}
		if creds.BaseURL != tt.want {
			t.Errorf("with %s=%q: BaseURL = %q, want %q", EnvBaseURL, tt.env, creds.BaseURL, tt.want)
		}
	}
}

func TestLoadCredentials_MissingKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := LoadCredentials(DefaultConfig())
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !errors.Is(err, apierrors.ErrNoAPIKey) {
		t.Errorf("error should wrap ErrNoAPIKey: %v", err)
	}
	if !apierrors.IsAuthError(err) {
		t.Error("missing key should count as an auth error")
	}
}

func TestResolveBaseURL_Default(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	if got := ResolveBaseURL(DefaultConfig()); got != "https://api.openai.com/v1" {
		t.Errorf("ResolveBaseURL() = %q", got)
	}
}

func TestResolveLogLevel(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv(EnvLogLevel, "")
	if got := ResolveLogLevel(cfg); got != "info" {
		t.Errorf("ResolveLogLevel() = %q, want info", got)
	}

	t.Setenv(EnvLogLevel, " debug ")
	if got := ResolveLogLevel(cfg); got != "debug" {
		t.Errorf("ResolveLogLevel() = %q, want debug", got)
	}
}

func TestHasAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "  ")
	if HasAPIKey() {
		t.Error("blank key should not count as set")
	}

	t.Setenv(EnvAPIKey, "sk-test")
	if !HasAPIKey() {
		t.Error("expected key to be set")
	}
}
