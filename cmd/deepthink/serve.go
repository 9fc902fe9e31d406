package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/deepthink/internal/config"
	"github.com/steveyegge/deepthink/internal/protocol"
	"github.com/steveyegge/deepthink/internal/server"
	"github.com/steveyegge/deepthink/internal/session"
	"github.com/steveyegge/deepthink/internal/thinking"
)

var (
	serveStore string
	serveDB    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deep_thinking tool over stdio",
	Long: `Serve the deep_thinking tool: newline-delimited JSON-RPC requests on
stdin, one response per line on stdout, logs on stderr.

Sessions live in memory by default and vanish with the process. Use
--store sqlite (or store.backend in the config file) to persist them:

  $ deepthink serve --store sqlite --db .deepthink/sessions.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Server.LogLevel = logLevel
		}
		if serveStore != "" {
			cfg.Store.Backend = serveStore
		}
		if serveDB != "" {
			cfg.Store.Path = serveDB
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := newLogger(cfg.Server.LogLevel)

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		handler := protocol.NewHandler(thinking.NewEngine(), store, logger, "deepthink", version)
		srv := server.New(handler, logger, os.Stdin, os.Stdout, server.Options{
			RateLimit:    cfg.Server.RateLimit,
			RateBurst:    cfg.Server.RateBurst,
			MaxLineBytes: cfg.Server.MaxRequestBytes,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("deepthink serving", "version", version,
			"store", cfg.Store.Backend, "rate_limit", cfg.Server.RateLimit)
		return srv.Run(ctx)
	},
}

// openStore builds the configured session store backend.
func openStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		store, err := session.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		return store, nil
	default:
		return session.NewMemoryStore(), nil
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveStore, "store", "", "Session store backend (memory, sqlite)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path for --store sqlite")
	rootCmd.AddCommand(serveCmd)
}
