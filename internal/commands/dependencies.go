package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/llmchat/internal/api"
	"github.com/diogo/llmchat/internal/config"
	"github.com/diogo/llmchat/internal/render"
	"github.com/diogo/llmchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, session tui.ChatSession, renderOpts render.Options) error
	RunConfig(cfg config.Config, catalog *config.Catalog) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// Streamer replaces the go-openai transport when set.
	Streamer api.CompletionStreamer

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether stdout is an interactive terminal.
	IsTerminal func() bool
	// TerminalWidth returns the width of stdout.
	TerminalWidth func() int
	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, session tui.ChatSession, renderOpts render.Options) error {
	return tui.RunChat(ctx, session, renderOpts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, catalog *config.Catalog) error {
	return tui.RunConfig(cfg, catalog)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:             &DefaultTUI{},
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		IsTerminal:      isStdoutTTY,
		TerminalWidth:   getTerminalWidth,
		CopyToClipboard: clipboard.WriteAll,
	}
}

// withDefaults fills the unset fields of d
func (d *Dependencies) withDefaults() *Dependencies {
	out := NewDependencies()
	if d == nil {
		return out
	}
	if d.TUI != nil {
		out.TUI = d.TUI
	}
	out.Streamer = d.Streamer
	if d.Stdin != nil {
		out.Stdin = d.Stdin
	}
	if d.Stdout != nil {
		out.Stdout = d.Stdout
	}
	if d.Stderr != nil {
		out.Stderr = d.Stderr
	}
	if d.IsTerminal != nil {
		out.IsTerminal = d.IsTerminal
	}
	if d.TerminalWidth != nil {
		out.TerminalWidth = d.TerminalWidth
	}
	if d.CopyToClipboard != nil {
		out.CopyToClipboard = d.CopyToClipboard
	}
	return out
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// hasPipedInput reports whether r is fed by a pipe or redirect. Readers
// that are not files always count as piped.
func hasPipedInput(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
