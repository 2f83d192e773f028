// Package render provides markdown rendering utilities for terminal output.
package render

import "github.com/diogo/llmchat/internal/config"

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour standard style name or a path to a JSON style file
	Style string

	// Compact drops the document margin, for text embedded in a viewport
	Compact bool

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return OptionsFromMarkdown(config.DefaultMarkdownConfig())
}

// OptionsFromMarkdown converts the markdown section of the settings file
func OptionsFromMarkdown(md config.MarkdownConfig) Options {
	style := md.Style
	if style == "" {
		style = ThemeDark
	}
	return Options{
		Width:            80,
		Style:            style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width > 0 {
		o.Width = width
	}
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithCompact returns Options with the document margin removed or restored.
func (o Options) WithCompact(compact bool) Options {
	o.Compact = compact
	return o
}
