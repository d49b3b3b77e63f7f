//go:build !test

// Code coverage for main is ignored; the wiring it does is covered by package tests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/items/internal/api"
	"github.com/jbweber/homelab/items/internal/config"
	"github.com/jbweber/homelab/items/internal/logging"
	"github.com/jbweber/homelab/items/internal/migrations"
	"github.com/jbweber/homelab/items/internal/postgres"
	"github.com/jbweber/homelab/items/internal/repository"
	"github.com/jbweber/homelab/items/internal/server"
	"github.com/jbweber/homelab/items/internal/service"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type flags struct {
	configPath string
	addr       string
	dbPath     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "items",
		Short:         "CRUD service for items",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&f.addr, "addr", "", "HTTP listen address (overrides config)")
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "SQLite database path (overrides config)")

	root.AddCommand(newServeCmd(f), newMigrateCmd(f), newVersionCmd())
	return root
}

func loadConfig(f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.addr != "" {
		cfg.HTTPAddr = f.addr
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newServeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			logger := logging.Configure(cfg.Log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	var (
		repo   repository.ItemRepository
		health api.Pinger
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Options{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		repo = postgres.NewItemStore(pool)
		health = pool
	default:
		ds, err := cfg.InitializeDatabase(ctx)
		if err != nil {
			return err
		}
		defer ds.Close()

		sqlRepo := repository.NewItemRepository(ds.DB)
		defer sqlRepo.Close()

		repo = sqlRepo
		health = ds
	}

	logger.Info().Str("driver", cfg.Driver).Str("version", version).Msg("starting items service")

	items := service.NewItemService(repo, logger)
	handler := server.NewRouter(api.NewAPI(items, health, logger), cfg.CORSOrigins, logger)

	return server.New(cfg.HTTPAddr, handler, cfg.ShutdownTimeout, logger).Start(ctx)
}

func newMigrateCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQLite schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			// InitializeDatabase applies pending migrations on open.
			ds, err := cfg.InitializeDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer ds.Close()

			v, err := migrations.Default(ds.DB).GetCurrentVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			ds, err := cfg.OpenDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer ds.Close()

			m, err := migrations.Default(ds.DB).Rollback(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d_%s\n", m.Version, m.Name)
			return nil
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
