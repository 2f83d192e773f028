package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names accepted in settings
const (
	ThemeDark       = styles.DarkStyle
	ThemeLight      = styles.LightStyle
	ThemeDracula    = styles.DraculaStyle
	ThemeTokyoNight = styles.TokyoNightStyle
	ThemePink       = styles.PinkStyle
	ThemeNoTTY      = styles.NoTTYStyle
	ThemeASCII      = styles.AsciiStyle
	ThemeAuto       = styles.AutoStyle
)

// styleAliases maps the spellings used by the TUI theme names
var styleAliases = map[string]string{
	"tokyonight": ThemeTokyoNight,
	"plain":      ThemeNoTTY,
}

// CanonicalStyle normalizes a style name. Paths are returned unchanged.
func CanonicalStyle(style string) string {
	s := strings.ToLower(strings.TrimSpace(style))
	if alias, ok := styleAliases[s]; ok {
		return alias
	}
	if _, ok := styles.DefaultStyles[s]; ok || s == ThemeAuto {
		return s
	}
	return style
}

// IsBuiltinStyle returns true if style names one of glamour's standard styles.
func IsBuiltinStyle(style string) bool {
	s := CanonicalStyle(style)
	if s == ThemeAuto {
		return true
	}
	_, ok := styles.DefaultStyles[s]
	return ok
}

// styleOption resolves opts.Style into a glamour option
func styleOption(opts Options) (glamour.TermRendererOption, error) {
	name := CanonicalStyle(opts.Style)

	if name == ThemeAuto {
		return glamour.WithAutoStyle(), nil
	}

	if cfg, ok := styles.DefaultStyles[name]; ok {
		if !opts.Compact {
			return glamour.WithStandardStyle(name), nil
		}
		compact := *cfg
		zero := uint(0)
		compact.Document.Margin = &zero
		return glamour.WithStyles(compact), nil
	}

	if _, err := os.Stat(opts.Style); err != nil {
		return nil, fmt.Errorf("unknown markdown style %q", opts.Style)
	}
	return glamour.WithStylePath(opts.Style), nil
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the standard markdown styles
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
		{Name: ThemeAuto, Description: "Pick dark or light from the terminal background"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
