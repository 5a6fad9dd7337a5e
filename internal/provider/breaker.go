package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// ErrBreakerOpen is returned while the circuit is open and calls are being
// shed without reaching the backend.
var ErrBreakerOpen = errors.New("provider temporarily disabled")

// Breaker decorates a Provider with a circuit breaker: five consecutive
// failures open the circuit for thirty seconds, after which a single probe
// call is let through.
type Breaker struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps p in a circuit breaker.
func WithBreaker(p Provider) *Breaker {
	return &Breaker{
		inner: p,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        p.Name(),
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Name implements Provider.
func (b *Breaker) Name() string { return b.inner.Name() }

// Translate implements Provider.
func (b *Breaker) Translate(ctx context.Context, req Request) (Result, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Result{}, fmt.Errorf("%s: %w", b.inner.Name(), ErrBreakerOpen)
		}
		return Result{}, err
	}
	return v.(Result), nil
}
