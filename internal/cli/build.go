package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/obryan/passage/internal/audit"
	"github.com/obryan/passage/internal/cache"
	"github.com/obryan/passage/internal/config"
	"github.com/obryan/passage/internal/pipeline"
)

// buildTranslator assembles the pipeline from config: provider with
// circuit breaker, optional cache, optional audit log. The returned
// cleanup closes whatever was opened.
func buildTranslator(ctx context.Context, cfg *config.Config) (*pipeline.Translator, func(), error) {
	p, err := cfg.BuildProvider(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := pipeline.Options{Sanitize: cfg.SanitizeResponses}
	var closers []func()

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.CachePath())
		if err != nil {
			// The proxy works without a cache; say so and carry on.
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		} else {
			opts.Cache = store
			closers = append(closers, func() { store.Close() })
		}
	}

	if cfg.AuditLog != "" {
		log, err := audit.Open(cfg.AuditLog)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit log: %w", err)
		}
		opts.AuditLog = log
		closers = append(closers, func() { log.Close() })
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return pipeline.New(p, opts), cleanup, nil
}
