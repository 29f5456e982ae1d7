package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fixdesk/fixdesk/internal/config"
	"github.com/fixdesk/fixdesk/internal/handoff"
	"github.com/fixdesk/fixdesk/internal/server"
	"github.com/fixdesk/fixdesk/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and live update server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
			cfg.Server.Address = bind
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("bind", "", "Override [server] address")
}

func runServe(ctx context.Context, cfg *config.ServerConfig) error {
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	manager, err := store.NewManager(cfg.Database.Dir)
	if err != nil {
		return fmt.Errorf("open database directory: %w", err)
	}

	handoffs, err := newHandoffStore(ctx, cfg, logger)
	if err != nil {
		manager.Close()
		return err
	}

	srv := server.New(server.Options{
		Address: cfg.Server.Address,
		Manager: manager,
		Handoff: handoffs,
		Logger:  logger,
	})

	logger.Info("starting fixdesk",
		"addr", cfg.Server.Address,
		"database_dir", cfg.Database.Dir,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandoffStore picks Redis when [redis] addr is set, else the in-process store.
func newHandoffStore(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) (handoff.Store, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("hand-off store: in-process")
		return handoff.NewMemoryStore(handoff.DefaultTTL), nil
	}

	rs, err := handoff.NewRedisStore(ctx, cfg.Redis.Addr, handoff.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("hand-off store: redis", "addr", cfg.Redis.Addr)
	return rs, nil
}
