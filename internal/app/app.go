// Package app wires configuration, the token store and the API client
// into the object graph the command layer consumes.
package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rxops/pharmacy-cli/internal/config"
	"github.com/rxops/pharmacy-cli/internal/logger"
	"github.com/rxops/pharmacy-cli/internal/tokenstore"
	"github.com/rxops/pharmacy-cli/pkg/pharmapi"
)

// App bundles everything a command needs.
type App struct {
	Config *config.Configuration
	Logger logger.Logger
	Client *pharmapi.Client
	Auth   *pharmapi.AuthService
	SDK    SDK
}

// NewApp builds the application from persisted configuration and the
// command's flags.
func NewApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	log := logger.NewDefaultLogger(cfg.Debug)

	tokenDir, err := config.TokenDir()
	if err != nil {
		return nil, fmt.Errorf("resolving token directory: %w", err)
	}
	store := tokenstore.New(tokenDir, log)

	client := pharmapi.New(cfg.BaseURL, store)
	client.SetLogger(log)

	auth := pharmapi.NewAuthService(client)

	return &App{
		Config: cfg,
		Logger: log,
		Client: client,
		Auth:   auth,
		SDK:    &LiveSDK{Client: client, Auth: auth},
	}, nil
}
