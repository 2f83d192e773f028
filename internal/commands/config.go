package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/diogo/llmchat/internal/config"
	"github.com/diogo/llmchat/internal/render"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long: `Show the resolved configuration: file locations, credentials status
and the current settings.

Use 'llmchat config edit' to change settings interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, opts)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open configuration menu",
		Long:  `Interactive menu to configure llmchat settings.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, catalog, err := loadSettings(opts)
			if err != nil {
				return err
			}
			return deps.TUI.RunConfig(cfg, catalog)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "Print the prompt catalog as TOML",
		Long: `Print the effective prompt catalog (built-in models merged with
catalog.toml) in the catalog.toml format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, catalog, err := loadSettings(opts)
			if err != nil {
				return err
			}
			return toml.NewEncoder(deps.Stdout).Encode(catalog.File())
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write default settings and catalog files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(deps, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.AddCommand(initCmd)

	return cmd
}

func runConfigShow(deps *Dependencies, opts *globalOptions) error {
	cfg, catalog, err := loadSettings(opts)
	if err != nil {
		return err
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	catalogPath, err := config.GetCatalogPath()
	if err != nil {
		return err
	}
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return err
	}

	envFile := opts.envFile
	if envFile == "" {
		envFile = config.DefaultEnvFile
	}

	apiKey := "missing (set " + config.EnvAPIKey + ")"
	if config.HasAPIKey() {
		apiKey = "set"
	}

	def, err := resolveModel(&globalOptions{}, cfg, catalog)
	defaultModel := string(def)
	if err != nil {
		defaultModel = cfg.DefaultModel + " (not in catalog)"
	}

	theme := cfg.TUITheme
	if theme == "" {
		theme = render.DefaultTUITheme
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Settings file:\t%s\n", describePath(configPath))
	_, _ = fmt.Fprintf(w, "Catalog file:\t%s\n", describePath(catalogPath))
	_, _ = fmt.Fprintf(w, "Log file:\t%s\n", logPath)
	_, _ = fmt.Fprintf(w, "Env file:\t%s\n", describePath(envFile))
	_, _ = fmt.Fprintf(w, "API key:\t%s\n", apiKey)
	_, _ = fmt.Fprintf(w, "Endpoint:\t%s\n", config.ResolveBaseURL(cfg))
	_, _ = fmt.Fprintln(w, "\t")
	_, _ = fmt.Fprintf(w, "Default model:\t%s\n", defaultModel)
	_, _ = fmt.Fprintf(w, "TUI theme:\t%s\n", theme)
	_, _ = fmt.Fprintf(w, "Markdown style:\t%s\n", render.CanonicalStyle(cfg.Markdown.Style))
	_, _ = fmt.Fprintf(w, "Log level:\t%s\n", config.ResolveLogLevel(cfg))
	_, _ = fmt.Fprintf(w, "Copy to clipboard:\t%t\n", cfg.CopyToClipboard)
	return w.Flush()
}

func describePath(path string) string {
	if !exists(path) {
		return path + " (not found)"
	}
	return path
}

func runConfigInit(deps *Dependencies, force bool) error {
	configDir, err := config.EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	if force || !exists(configPath) {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Wrote %s\n", configPath)
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Kept %s\n", configPath)
	}

	catalogPath, err := config.GetCatalogPath()
	if err != nil {
		return err
	}
	if !force && exists(catalogPath) {
		_, _ = fmt.Fprintf(deps.Stdout, "Kept %s\n", catalogPath)
		return nil
	}

	f, err := os.OpenFile(catalogPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create catalog in %s: %w", configDir, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config.DefaultCatalogFile()); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Wrote %s\n", catalogPath)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
