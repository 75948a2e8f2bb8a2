package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"storefront/internal/bootstrap"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/orders"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront-cli",
	Short: "Admin tasks for the storefront content store",
	Long: `storefront-cli works directly on the configured store, without the API.

Commands:
  migrate    - import legacy JSON section documents
  export     - print canonical section views as JSON
  sections   - list sections with card counts
  order get  - print one order from the order log`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/config.yaml", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// app is what every command needs: the loaded profile and services on top
// of the configured storage.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	sections *catalog.Service
	orders   *orders.Service
	storage  *bootstrap.Storage
}

func (a *app) Close() error { return a.storage.Close() }

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{
		Level:  level,
		Format: cfg.Log.Format,
		Env:    cfg.Env,
		Out:    cmd.ErrOrStderr(),
	})

	st, err := bootstrap.BuildStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		log:      log,
		sections: catalog.New(st.Sections, log),
		orders:   orders.New(st.Orders, log),
		storage:  st,
	}, nil
}
