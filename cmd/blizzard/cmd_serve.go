package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blizzardhq/blizzard/internal/projectconfig"
	"github.com/blizzardhq/blizzard/internal/store"
	"github.com/blizzardhq/blizzard/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var port int
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction dashboard",
		Long: `Serve the prediction dashboard over HTTP.

Exposes the static dashboard alongside a JSON API:
  GET /api/health   Service health and environment
  GET /api/current  Latest committed run snapshot
  GET /api/history  Historical prediction log
  GET /api/stats    Accuracy metrics over the log

The server binds to loopback only and shuts down gracefully on SIGINT or
SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			logger := slog.Default()
			resultStore := store.New(cfg.Paths.Static, cfg.Production(), logger)

			srv, err := webserver.New(webserver.Config{
				Port:        cfg.Server.Port,
				StaticDir:   cfg.Paths.Static,
				Environment: cfg.Environment,
				Store:       resultStore,
				NoBrowser:   noBrowser,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(ctx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser window")

	return cmd
}
