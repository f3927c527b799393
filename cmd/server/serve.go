package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/spf13/cobra"
	"github.com/ytakahashi/taskboard/internal/handlers"
	"github.com/ytakahashi/taskboard/internal/services"
)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			auth, err := openAuth(ctx, cfg)
			if err != nil {
				return err
			}

			logger := slog.Default()
			data := services.NewUserData(store, logger)
			todos := services.NewTodos(data)

			h := handlers.NewHandler(handlers.Options{
				Auth:          auth,
				Tokens:        services.NewTokenService(cfg.SessionSecret, cfg.SessionTTL),
				Data:          data,
				Todos:         todos,
				Logger:        logger,
				SecureCookies: cfg.SecureCookies,
			})

			var wh *handlers.WebhookHandler
			if cfg.LineEnabled() {
				bot, err := messaging_api.NewMessagingApiAPI(cfg.LineChannelToken)
				if err != nil {
					return err
				}
				wh = handlers.NewWebhookHandler(bot, cfg.LineChannelSecret, data, todos, logger)
				logger.Info("LINE webhook enabled")
			}

			e := handlers.NewEcho(h, wh, cfg.CORSOrigins)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server starting", "port", cfg.Port)
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down server")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}
