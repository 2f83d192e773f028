package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/llmchat/internal/models"
)

// NewModelsCmd creates the command listing models and their prompts
func NewModelsCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models and their system prompts",
		Long: `List the models of the prompt catalog with their system prompts.

Prompt numbers are the values accepted by --prompt. The catalog can be
extended in catalog.toml inside the configuration directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(deps, opts)
		},
	}
}

func runModels(deps *Dependencies, opts *globalOptions) error {
	cfg, catalog, err := loadSettings(opts)
	if err != nil {
		return err
	}

	def, err := resolveModel(&globalOptions{}, cfg, catalog)
	if err != nil {
		def = catalog.DefaultModel()
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tDEFAULT\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "-----\t-------\t-----------")

	for _, id := range catalog.Models() {
		isDefault := ""
		if id == def {
			isDefault = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", id, isDefault, catalog.Description(id))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, id := range catalog.Models() {
		if err := printPrompts(deps, catalog.Prompts, id); err != nil {
			return err
		}
	}
	return nil
}

func printPrompts(deps *Dependencies, lookup func(models.ModelID) ([]string, error), id models.ModelID) error {
	prompts, err := lookup(id)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(deps.Stdout, "\n%s prompts:\n", id)
	for i, p := range prompts {
		_, _ = fmt.Fprintf(deps.Stdout, "  %d. %s\n", i+1, truncatePrompt(p, 72))
	}
	return nil
}

// truncatePrompt shortens p to its first line and at most n runes
func truncatePrompt(p string, n int) string {
	for i, r := range p {
		if r == '\n' {
			p = p[:i] + "…"
			break
		}
	}
	runes := []rune(p)
	if len(runes) <= n {
		return p
	}
	return string(runes[:n-1]) + "…"
}
