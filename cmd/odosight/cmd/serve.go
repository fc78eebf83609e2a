package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"odosight/internal/app"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Запустить HTTP API бота",
	Long:    `Запускает HTTP API (chat, health, metrics). Останавливается по SIGINT/SIGTERM с ожиданием активных запросов.`,
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Error("close app", slog.String("error", err.Error()))
			}
		}()

		srv := &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           a.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.ERP.QueryTimeout + shutdownTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("http server started", slog.String("address", cfg.HTTP.Address), slog.String("env", cfg.Env))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("http server stopped")
		return nil
	},
}
