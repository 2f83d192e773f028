package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/models"
)

// Environment variables read at startup
const (
	EnvAPIKey   = "OPENAI_API_KEY"
	EnvBaseURL  = "OPENAI_BASE_URL"
	EnvLogLevel = "LLMCHAT_LOG_LEVEL"
	EnvHome     = "LLMCHAT_HOME"
)

// DefaultEnvFile is loaded from the working directory when present
const DefaultEnvFile = ".env"

// Credentials is the process-wide provider configuration built once at startup
// and handed to the completion client.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing default file
// is not an error; a missing explicit file is.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadCredentials reads the API key and endpoint
func LoadCredentials(cfg Config) (Credentials, error) {
	key := strings.TrimSpace(os.Getenv(EnvAPIKey))
	if key == "" {
		return Credentials{}, fmt.Errorf("%w: set %s or add it to %s", apierrors.ErrNoAPIKey, EnvAPIKey, DefaultEnvFile)
	}

	return Credentials{
		APIKey:  key,
		BaseURL: ResolveBaseURL(cfg),
	}, nil
}

// ResolveBaseURL returns OPENAI_BASE_URL, cfg.BaseURL or the public API,
// in that order, without a trailing slash.
func ResolveBaseURL(cfg Config) string {
	base := strings.TrimSpace(os.Getenv(EnvBaseURL))
	if base == "" {
		base = strings.TrimSpace(cfg.BaseURL)
	}
	if base == "" {
		base = models.EndpointOpenAI
	}
	return strings.TrimRight(base, "/")
}

// ResolveLogLevel returns LLMCHAT_LOG_LEVEL when set, else cfg.Log.Level
func ResolveLogLevel(cfg Config) string {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		return level
	}
	return cfg.Log.Level
}

// HasAPIKey reports whether OPENAI_API_KEY is set
func HasAPIKey() bool {
	return strings.TrimSpace(os.Getenv(EnvAPIKey)) != ""
}
