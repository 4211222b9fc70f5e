package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weft-ui/weft/internal/config"
	"github.com/weft-ui/weft/pkg/devserver"
	"github.com/weft-ui/weft/pkg/element"
	"github.com/weft-ui/weft/pkg/middleware"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the element dev server",
		Long: `Start the development server with a built-in demo element.

The server hosts a live page per registered element: attribute
inputs on the page feed the element over WebSocket, and every
re-render replaces the fragment in place.

Examples:
  weft serve
  weft serve --port=8080
  weft serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from weft.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from weft.json)")

	return cmd
}

func runServe(port int, host string) error {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry := devserver.NewRegistry()
	if err := demoCounter().Register(registry); err != nil {
		return err
	}

	opts := []devserver.Option{devserver.WithConfig(cfg)}
	if cfg.Metrics.Enabled {
		opts = append(opts, devserver.WithObserver(
			middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace))))
	}

	srv := devserver.NewServer(registry, opts...)

	printBanner()
	fmt.Println()
	info("Serving on http://%s", cfg.DevAddress())
	info("Demo element: http://%s/elements/weft-counter", cfg.DevAddress())
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}

// demoCounter is the built-in element served out of the box so a fresh
// install has something to poke at.
func demoCounter() *element.Definition {
	return element.Define("weft-counter", []string{"count", "label"},
		func(s *element.Setup) element.RenderFunc {
			props := s.Props()
			return func() any {
				label := "count"
				if v, ok := props.Get("label").(string); ok && v != "" {
					label = v
				}
				count := "0"
				if v, ok := props.Get("count").(string); ok && v != "" {
					count = v
				}
				return fmt.Sprintf("%s: %s", label, count)
			}
		})
}
