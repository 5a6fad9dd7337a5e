package provider

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/text/language"
)

// flakyProvider fails until the remaining counter hits zero.
type flakyProvider struct {
	remaining int
	calls     int
}

func (f *flakyProvider) Name() string { return "flaky" }

func (f *flakyProvider) Translate(ctx context.Context, req Request) (Result, error) {
	f.calls++
	if f.remaining > 0 {
		f.remaining--
		return Result{}, errors.New("backend down")
	}
	return Result{Text: "ok", DetectedSource: language.Und}, nil
}

func TestBreakerPassesThrough(t *testing.T) {
	b := WithBreaker(&flakyProvider{})
	res, err := b.Translate(context.Background(), Request{Text: "x", Target: language.German})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Text != "ok" {
		t.Errorf("text = %q", res.Text)
	}
	if b.Name() != "flaky" {
		t.Errorf("Name = %q", b.Name())
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyProvider{remaining: 100}
	b := WithBreaker(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := b.Translate(ctx, Request{Text: "x", Target: language.German}); err == nil {
			t.Fatalf("call %d should fail", i)
		}
	}

	callsBefore := inner.calls
	_, err := b.Translate(ctx, Request{Text: "x", Target: language.German})
	if !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected ErrBreakerOpen, got %v", err)
	}
	if inner.calls != callsBefore {
		t.Errorf("open breaker must shed load, backend saw %d extra calls", inner.calls-callsBefore)
	}
}
