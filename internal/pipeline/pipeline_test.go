package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obryan/passage/internal/cache"
	"github.com/obryan/passage/internal/provider"
	"golang.org/x/text/language"
)

// echoProvider returns the encoded text unchanged — the identity transform.
type echoProvider struct {
	calls int
	// mangle optionally rewrites the text the backend hands back.
	mangle func(string) string
}

func (e *echoProvider) Name() string { return "echo" }

func (e *echoProvider) Translate(ctx context.Context, req provider.Request) (provider.Result, error) {
	e.calls++
	text := req.Text
	if e.mangle != nil {
		text = e.mangle(text)
	}
	return provider.Result{Text: text, DetectedSource: language.English}, nil
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) Translate(ctx context.Context, req provider.Request) (provider.Result, error) {
	return provider.Result{}, errors.New("backend exploded")
}

func newTestCache(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTranslateRoundTripIdentity(t *testing.T) {
	tr := New(&echoProvider{}, Options{})
	in := `<strong>A</strong>: <code>B</code> &amp; more`

	out, err := tr.Translate(context.Background(), provider.Request{
		Text: in, Target: language.German,
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out.Text != in {
		t.Errorf("identity transform must round-trip:\n  in  %q\n  got %q", in, out.Text)
	}
	if out.Tokens != 6 {
		t.Errorf("tokens = %d, want 6 (five tags and entities plus one colon)", out.Tokens)
	}
	if out.Provider != "echo" || out.CacheHit {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestTranslateBackendNeverSeesMarkup(t *testing.T) {
	var seen string
	p := &echoProvider{mangle: func(s string) string {
		seen = s
		return s
	}}
	tr := New(p, Options{})

	tr.Translate(context.Background(), provider.Request{
		Text: "<b>x</b>: &amp;", Target: language.German,
	})
	if strings.ContainsAny(seen, "<>:") || strings.Contains(seen, "&amp;") {
		t.Errorf("backend saw unprotected fragments: %q", seen)
	}
}

func TestTranslateSurvivesTokenRecasing(t *testing.T) {
	p := &echoProvider{mangle: strings.ToLower}
	tr := New(p, Options{})
	in := "<strong>A</strong>"

	out, err := tr.Translate(context.Background(), provider.Request{
		Text: in, Target: language.German,
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	// The mangle lowercases the payload letters too; only the markup is
	// guaranteed restored.
	if !strings.HasPrefix(out.Text, "<strong>") || !strings.HasSuffix(out.Text, "</strong>") {
		t.Errorf("markup not restored from re-cased tokens: %q", out.Text)
	}
}

func TestTranslateRepairsFullWidthColon(t *testing.T) {
	p := &echoProvider{mangle: func(s string) string { return s + "： done" }}
	tr := New(p, Options{})

	out, err := tr.Translate(context.Background(), provider.Request{
		Text: "hello", Target: language.German,
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if strings.Contains(out.Text, "：") {
		t.Errorf("full-width colon not repaired: %q", out.Text)
	}
}

func TestTranslateCacheHitSkipsBackend(t *testing.T) {
	p := &echoProvider{}
	tr := New(p, Options{Cache: newTestCache(t)})
	req := provider.Request{Text: "<b>x</b>", Target: language.German}
	ctx := context.Background()

	first, err := tr.Translate(ctx, req)
	if err != nil {
		t.Fatalf("first Translate: %v", err)
	}
	second, err := tr.Translate(ctx, req)
	if err != nil {
		t.Fatalf("second Translate: %v", err)
	}

	if p.calls != 1 {
		t.Errorf("backend called %d times, want 1", p.calls)
	}
	if !second.CacheHit {
		t.Error("second call must be a cache hit")
	}
	if second.Text != first.Text {
		t.Errorf("cached text diverged: %q != %q", second.Text, first.Text)
	}
}

func TestTranslateSanitizeOption(t *testing.T) {
	p := &echoProvider{mangle: func(s string) string { return "<script>x</script>" + s }}
	tr := New(p, Options{Sanitize: true})

	out, err := tr.Translate(context.Background(), provider.Request{
		Text: "<strong>y</strong>", Target: language.German,
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if strings.Contains(out.Text, "<script>") {
		t.Errorf("sanitizer did not strip injected tag: %q", out.Text)
	}
	if !strings.Contains(out.Text, "<strong>y</strong>") {
		t.Errorf("safe markup lost: %q", out.Text)
	}
}

func TestTranslateBackendError(t *testing.T) {
	tr := New(failingProvider{}, Options{})
	_, err := tr.Translate(context.Background(), provider.Request{
		Text: "x", Target: language.German,
	})
	if err == nil || !strings.Contains(err.Error(), "failing") {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}
