package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/build"
	"github.com/joestump/bookmarks/internal/db"
	"github.com/joestump/bookmarks/internal/handler"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			bearer, err := auth.New(ctx, cfg)
			if err != nil {
				return err
			}

			router := handler.NewRouter(handler.Deps{
				Bookmarks:      store.NewBookmarkStore(database),
				BearerAuth:     bearer,
				Logger:         log,
				RequestTimeout: cfg.HTTP.RequestTimeout,
				RateLimitRPS:   cfg.RateLimit.RPS,
				RateLimitBurst: cfg.RateLimit.Burst,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening",
					logger.String("addr", cfg.HTTP.Addr),
					logger.String("version", build.Version),
					logger.String("auth", cfg.Auth.Mode),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down", logger.Duration("timeout", cfg.HTTP.ShutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return nil
		},
	}
}
