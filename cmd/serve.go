package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
	"github.com/lehigh-university-libraries/catgallery/internal/config"
	"github.com/lehigh-university-libraries/catgallery/internal/handlers"
	"github.com/lehigh-university-libraries/catgallery/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the cat gallery web server",
		Long: `Starts the cat gallery web interface.

Every browser session gets its own favorites list, held in memory until the
session has been idle for CATGALLERY_SESSION_TTL or the server stops.`,
		Example: `  # Start server on default port 8888
  catgallery serve

  # Start server on custom port
  catgallery serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			addr := cfg.Addr
			if port != "" {
				addr = ":" + port
			}

			client := catapi.NewClient(cfg.ClientOptions()...)
			store := storage.New(cfg.SessionTTL)
			janitor, err := store.StartJanitor(cfg.JanitorSchedule)
			if err != nil {
				return err
			}
			defer janitor.Stop()

			handler := handlers.New(client, store, cfg.SessionTTL)

			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Cat gallery available", "addr", addr, "url", "http://localhost"+addr, "cat_api", cfg.BaseURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides CATGALLERY_ADDR)")

	return cmd
}
