package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/llmchat/internal/config"
	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

// askOptions holds the flags of a one-shot message
type askOptions struct {
	output string
	file   string
	raw    bool
}

func addAskFlags(cmd *cobra.Command, ask *askOptions) {
	cmd.Flags().StringVarP(&ask.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&ask.file, "file", "f", "", "Read message from file")
	cmd.Flags().BoolVar(&ask.raw, "raw", false, "Stream plain text without decoration")
}

// NewAskCmd creates the one-shot message command
func NewAskCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	ask := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [message...]",
		Short: "Send a single message and print the reply",
		Long: `Send a single message and print the streamed reply.

When stdout is a terminal the reply is rendered as markdown once it is
complete. Otherwise, or with --raw, text is written as it arrives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var message string
			switch {
			case ask.file != "":
				data, err := os.ReadFile(ask.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				message = string(data)
			case len(args) > 0:
				message = strings.Join(args, " ")
			case hasPipedInput(deps.Stdin):
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				message = string(data)
			}
			return runAsk(cmd.Context(), deps, opts, ask, message)
		},
	}

	addAskFlags(cmd, ask)
	return cmd
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		_, _ = fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				_, _ = fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	theme := render.GetTUITheme()
	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(theme.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(theme.Text).Render(s.message)

	_, _ = fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	success := render.GetTUITheme().Secondary
	checkmark := lipgloss.NewStyle().Foreground(success).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(success).Render(message)
	_, _ = fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runAsk sends one message and writes the reply.
//
// Decorated mode (stdout is a terminal and --raw is unset) shows a spinner
// and renders the finished reply as markdown. Otherwise deltas go to stdout
// as they arrive, unless --output sends the reply to a file.
func runAsk(ctx context.Context, deps *Dependencies, opts *globalOptions, ask *askOptions, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return apierrors.ErrEmptyMessage
	}

	a, err := newApp(deps, opts)
	if err != nil {
		return err
	}
	defer a.close()

	decorated := !ask.raw && deps.IsTerminal()
	streaming := !decorated && ask.output == ""

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, fmt.Sprintf("Waiting for %s", a.session.Model()))
		spin.start()
	}

	startTime := time.Now()
	var text string
	for reply, err := range a.session.Send(ctx, message) {
		if err != nil {
			if spin != nil {
				spin.stopWithError()
			}
			if streaming && text != "" {
				_, _ = fmt.Fprintln(deps.Stdout)
			}
			if decorated && text != "" {
				printReplyBubble(deps, string(a.session.Model()), text, a.cfg)
			}
			a.logger.Warn("one-shot reply failed", zap.Error(err), zap.Int("partial_chars", len(text)))
			return fmt.Errorf("generation failed: %w", err)
		}

		if streaming {
			_, _ = io.WriteString(deps.Stdout, reply[len(text):])
		}
		text = reply
	}
	took := time.Since(startTime)

	a.logger.Info("one-shot reply",
		zap.Int("chars", len(text)),
		zap.Duration("took", took),
	)

	if spin != nil {
		spin.stopWithSuccess(fmt.Sprintf("Done in %s", took.Round(time.Millisecond)))
	}

	if streaming {
		if deps.IsTerminal() && !strings.HasSuffix(text, "\n") {
			_, _ = fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	if decorated && a.cfg.CopyToClipboard {
		theme := render.GetTUITheme()
		if err := deps.CopyToClipboard(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(theme.Error).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			_, _ = fmt.Fprintln(deps.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(theme.Secondary).Render("✓ Copied to clipboard")
			_, _ = fmt.Fprintln(deps.Stderr, clipMsg)
		}
	}

	if ask.output != "" {
		if err := os.WriteFile(ask.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			successMsg := lipgloss.NewStyle().Foreground(render.GetTUITheme().Secondary).Render(
				fmt.Sprintf("✓ Reply saved to %s", ask.output),
			)
			_, _ = fmt.Fprintln(deps.Stderr, successMsg)
		}
		return nil
	}

	printReplyBubble(deps, string(a.session.Model()), text, a.cfg)
	return nil
}

// printReplyBubble renders text as markdown inside the assistant bubble
func printReplyBubble(deps *Dependencies, model, text string, cfg config.Config) {
	theme := render.GetTUITheme()

	labelStyle := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
	bubbleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)

	bubbleWidth := deps.TerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	_, _ = fmt.Fprintln(deps.Stdout, labelStyle.Render("✦ "+model))

	renderOpts := render.LoadOptionsFromConfigWithWidth(cfg, contentWidth)
	rendered := render.Reply(text, renderOpts)

	_, _ = fmt.Fprintln(deps.Stdout, bubbleStyle.Width(bubbleWidth).Render(rendered))
}
