package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/diogo/llmchat/internal/api"
	"github.com/diogo/llmchat/internal/chat"
	"github.com/diogo/llmchat/internal/config"
	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/logging"
	"github.com/diogo/llmchat/internal/models"
	"github.com/diogo/llmchat/internal/render"
	"github.com/diogo/llmchat/internal/tui"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	model   string
	prompt  int // 1-based, 0 keeps the model's first prompt
	envFile string
}

// app is everything a chat needs, built once at startup
type app struct {
	cfg     config.Config
	catalog *config.Catalog
	logger  *zap.Logger
	client  *api.Client
	session *chat.Session
}

// loadSettings reads the env file, the settings and the prompt catalog,
// and activates the configured TUI theme.
func loadSettings(opts *globalOptions) (config.Config, *config.Catalog, error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, nil, err
	}

	if err := render.SetTUITheme(cfg.TUITheme); err != nil {
		path, _ := config.GetConfigPath()
		return cfg, nil, apierrors.NewConfigError(path, "invalid tui_theme", err)
	}
	tui.UpdateTheme()

	catalog, err := config.LoadCatalog()
	if err != nil {
		return cfg, nil, err
	}

	return cfg, catalog, nil
}

// resolveModel picks the --model flag, then the configured default, then
// the catalog default. Names outside the catalog are rejected.
func resolveModel(opts *globalOptions, cfg config.Config, catalog *config.Catalog) (models.ModelID, error) {
	name := opts.model
	if name == "" {
		name = cfg.DefaultModel
	}
	if name == "" {
		return catalog.DefaultModel(), nil
	}
	return catalog.Lookup(name)
}

// newApp wires settings, logger, client and session together
func newApp(deps *Dependencies, opts *globalOptions) (*app, error) {
	cfg, catalog, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("starting", zap.String("version", Version))

	a := &app{cfg: cfg, catalog: catalog, logger: logger}
	if err := a.connect(deps, opts); err != nil {
		logger.Error("startup failed", zap.Error(err))
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) connect(deps *Dependencies, opts *globalOptions) error {
	creds, err := config.LoadCredentials(a.cfg)
	if err != nil {
		return err
	}

	clientOpts := []api.ClientOption{api.WithLogger(a.logger)}
	if deps.Streamer != nil {
		clientOpts = append(clientOpts, api.WithStreamer(deps.Streamer))
	}

	a.client, err = api.NewClient(creds, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	model, err := resolveModel(opts, a.cfg, a.catalog)
	if err != nil {
		return err
	}

	a.session, err = chat.NewSession(a.catalog, a.client, model, chat.WithLogger(a.logger))
	if err != nil {
		return err
	}

	if opts.prompt != 0 {
		if err := a.session.SelectPromptIndex(opts.prompt - 1); err != nil {
			return fmt.Errorf("--prompt %d: model %s has %d prompts: %w",
				opts.prompt, model, len(a.session.Prompts()), err)
		}
	}

	a.logger.Info("session ready",
		zap.String("model", string(model)),
		zap.Int("prompt", a.session.PromptIndex()),
		zap.String("endpoint", a.client.Endpoint()),
	)
	return nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
