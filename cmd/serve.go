package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/coverscan/internal/config"
	"github.com/lehigh-university-libraries/coverscan/internal/handlers"
	"github.com/lehigh-university-libraries/coverscan/internal/markers"
	"github.com/lehigh-university-libraries/coverscan/web"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scanner web server",
		Long: `Starts the coverscan web server.

The server hosts the scanner page, serves the marker mapping at /markers.json
and receives the page's markerFound/markerLost signals.`,
		Example: `  # Start server on default port 8888
  coverscan serve

  # Start server on custom port with a config file
  coverscan serve --port 3000 --config ./coverscan.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewManager(opts.configFile)
			if err != nil {
				return err
			}
			cfg := cm.Get()
			if port == "" {
				port = cfg.Server.Port
			}

			ctx := cmd.Context()

			// No marker mapping, no scanner
			markerConfig, err := markers.NewLoader(nil).Load(ctx, cfg.Markers.Source)
			if err != nil {
				return err
			}

			provider, err := cfg.BuildProvider(ctx)
			if err != nil {
				return fmt.Errorf("failed to configure catalog: %w", err)
			}

			static, err := web.StaticFS()
			if err != nil {
				return fmt.Errorf("failed to open embedded page: %w", err)
			}

			handler := handlers.New(provider, markerConfig, static, cfg.LostPolicy())
			cm.OnChange(func(c *config.Config) {
				handler.SetLostPolicy(c.LostPolicy())
			})
			cm.WatchConfig()

			go pruneSessions(ctx, handler, cfg.Sessions.TTL)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Coverscan available", "addr", addr, "url", "http://localhost"+addr, "catalog", provider.Name())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
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

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config, 8888)")

	return cmd
}

func pruneSessions(ctx context.Context, handler *handlers.Handler, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := handler.Sessions().Prune(ttl); removed > 0 {
				slog.Info("Pruned idle sessions", "removed", removed, "remaining", handler.Sessions().Len())
			}
		}
	}
}
