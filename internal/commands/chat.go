package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diogo/llmchat/internal/render"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

The chat keeps the conversation in memory and sends it with every message.
Switching the model with Ctrl+O clears the conversation; Ctrl+P picks one of
the model's system prompts. Type 'exit', 'quit', or press Ctrl+C to end the
session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), deps, opts)
		},
	}
}

func runChat(ctx context.Context, deps *Dependencies, opts *globalOptions) error {
	a, err := newApp(deps, opts)
	if err != nil {
		return err
	}
	defer a.close()

	renderOpts := render.LoadOptionsFromConfig(a.cfg)
	return deps.TUI.RunChat(ctx, a.session, renderOpts)
}
