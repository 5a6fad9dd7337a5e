package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/obryan/passage/internal/config"
	"github.com/obryan/passage/internal/proxy"
	"github.com/obryan/passage/internal/ratelimit"
)

var serveListen string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides config, e.g. :8980)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP translation proxy",
	Long:  "Runs the proxy as an HTTP service.\nSupports hot-reload of rate limits when the config file changes.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	translator, cleanup, err := buildTranslator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer cleanup()

	limiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.PerKey)
	srv := proxy.NewServer(proxy.Config{
		Listen:     cfg.Listen,
		Translator: translator,
		Limiter:    limiter,
	})

	// Hot-reload rate limits on config file changes.
	reloader, err := config.NewReloader(configPath, func(next *config.Config) {
		srv.ApplyLimits(next.RateLimit.Default, next.RateLimit.PerKey)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	} else {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down translation proxy...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "passage listening on %s (provider: %s)\n", cfg.Listen, cfg.DefaultProvider)
	return srv.Start(ctx)
}
