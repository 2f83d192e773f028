// Package commands provides CLI commands for llmchat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/diogo/llmchat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd builds the llmchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &globalOptions{}
	ask := &askOptions{}

	cmd := &cobra.Command{
		Use:   "llmchat [message]",
		Short: "Terminal chat for OpenAI compatible models",
		Long: `llmchat is a small terminal chat front-end for the OpenAI Chat
Completions API. Replies are streamed into a scrolling transcript.

The API key is read from OPENAI_API_KEY, or from a .env file in the
current directory.

Examples:
  llmchat                               Start interactive chat
  llmchat -m o3-mini -p 2               Chat with o3-mini using its second prompt
  llmchat "What is Go?"                 Send a single message
  llmchat -f prompt.md                  Read the message from a file
  cat prompt.md | llmchat               Read the message from stdin
  llmchat "Hello" -o reply.md           Save the reply to a file
  llmchat models                        List models and prompts`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				_, _ = fmt.Fprintf(deps.Stdout, "llmchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if ask.file != "" {
				data, err := os.ReadFile(ask.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runAsk(cmd.Context(), deps, opts, ask, string(data))
			}

			if len(args) > 0 {
				return runAsk(cmd.Context(), deps, opts, ask, args[0])
			}

			if hasPipedInput(deps.Stdin) {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runAsk(cmd.Context(), deps, opts, ask, string(data))
			}

			return runChat(cmd.Context(), deps, opts)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Model to use (e.g., gpt-4o)")
	cmd.PersistentFlags().IntVarP(&opts.prompt, "prompt", "p", 0, "System prompt number for the model (see 'llmchat models')")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load environment variables from this file instead of ./.env")
	addAskFlags(cmd, ask)
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewAskCmd(deps, opts))
	cmd.AddCommand(NewModelsCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps, opts))

	return cmd
}

// Execute runs the root command. An interrupt cancels the running request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(NewDependencies()).ExecuteContext(ctx); err != nil {
		stop()
		tui.PrintError(err)
		os.Exit(1)
	}
}
