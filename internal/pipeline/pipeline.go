// Package pipeline runs one translation end to end: protect markup, call
// the backend on the encoded text, restore the markup, optionally sanitize,
// and consult the cache on both sides.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/obryan/passage/internal/audit"
	"github.com/obryan/passage/internal/cache"
	"github.com/obryan/passage/internal/preserve"
	"github.com/obryan/passage/internal/provider"
	"golang.org/x/text/language"
)

// Translator ties the preservation core to a backend. Cache and audit log
// are optional; a cache failure degrades to a miss, never to a request
// failure.
type Translator struct {
	provider provider.Provider
	store    *cache.Store
	log      *audit.Log
	sanitize bool
}

// Options configures a Translator.
type Options struct {
	Cache    *cache.Store
	AuditLog *audit.Log
	// Sanitize runs the allow-list sanitizer over every decoded result.
	Sanitize bool
}

// New creates a Translator for the given backend.
func New(p provider.Provider, opts Options) *Translator {
	return &Translator{
		provider: p,
		store:    opts.Cache,
		log:      opts.AuditLog,
		sanitize: opts.Sanitize,
	}
}

// Outcome is the finished translation plus request metadata.
type Outcome struct {
	Text           string
	Provider       string
	CacheHit       bool
	Tokens         int
	DetectedSource language.Tag
	Duration       time.Duration
}

// Translate runs the full cycle for one request. The cache is keyed on the
// original text and stores the final restored output, so hits skip encode,
// backend, and decode alike.
func (t *Translator) Translate(ctx context.Context, req provider.Request) (Outcome, error) {
	start := time.Now()

	key := cache.Key(t.provider.Name(),
		provider.TagString(req.Source), provider.TagString(req.Target), req.Text)

	if t.store != nil {
		cached, hit, err := t.store.Get(ctx, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pipeline: cache read: %v\n", err)
		} else if hit {
			out := Outcome{
				Text:           cached,
				Provider:       t.provider.Name(),
				CacheHit:       true,
				DetectedSource: language.Und,
				Duration:       time.Since(start),
			}
			t.record(req, out, nil)
			return out, nil
		}
	}

	encoded, rec := preserve.Encode(req.Text)

	backendReq := req
	backendReq.Text = encoded
	res, err := t.provider.Translate(ctx, backendReq)
	if err != nil {
		out := Outcome{Provider: t.provider.Name(), Tokens: rec.Len(), Duration: time.Since(start)}
		t.record(req, out, err)
		return Outcome{}, fmt.Errorf("translate via %s: %w", t.provider.Name(), err)
	}

	text := preserve.Decode(res.Text, rec)
	if t.sanitize {
		text = preserve.Sanitize(text)
	}

	out := Outcome{
		Text:           text,
		Provider:       t.provider.Name(),
		Tokens:         rec.Len(),
		DetectedSource: res.DetectedSource,
		Duration:       time.Since(start),
	}

	if t.store != nil {
		if err := t.store.Put(ctx, key, t.provider.Name(),
			provider.TagString(req.Source), provider.TagString(req.Target), text); err != nil {
			fmt.Fprintf(os.Stderr, "pipeline: cache write: %v\n", err)
		}
	}

	t.record(req, out, nil)
	return out, nil
}

// SanitizeText exposes the allow-list sanitizer for the standalone
// sanitize surfaces.
func (t *Translator) SanitizeText(text string) string {
	return preserve.Sanitize(text)
}

func (t *Translator) record(req provider.Request, out Outcome, callErr error) {
	if t.log == nil {
		return
	}
	entry := audit.Entry{
		Provider:   out.Provider,
		Source:     provider.TagString(req.Source),
		Target:     provider.TagString(req.Target),
		CacheHit:   out.CacheHit,
		CharsIn:    len(req.Text),
		CharsOut:   len(out.Text),
		Tokens:     out.Tokens,
		DurationMs: out.Duration.Milliseconds(),
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	if err := t.log.Record(entry); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline: audit: %v\n", err)
	}
}
