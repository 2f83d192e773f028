package render

import (
	"os"

	"github.com/diogo/llmchat/internal/config"
)

// EnvStyle overrides the markdown style from the settings file
const EnvStyle = "GLAMOUR_STYLE"

// LoadOptionsFromConfig builds render options from the loaded settings.
// GLAMOUR_STYLE takes precedence over the settings file.
func LoadOptionsFromConfig(cfg config.Config) Options {
	opts := OptionsFromMarkdown(cfg.Markdown)

	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}

	return opts
}

// LoadOptionsFromConfigWithWidth loads options from config with a specific width.
func LoadOptionsFromConfigWithWidth(cfg config.Config, width int) Options {
	return LoadOptionsFromConfig(cfg).WithWidth(width)
}
