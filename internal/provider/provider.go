// Package provider defines the translation backend interface and its
// implementations. Providers receive already-encoded text from the pipeline
// and must treat it as opaque: they translate, they do not reshape.
package provider

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Request is one translation call. Source may be language.Und to let the
// backend detect the source language.
type Request struct {
	Text   string
	Source language.Tag
	Target language.Tag
}

// Result is the backend's reply.
type Result struct {
	Text string
	// DetectedSource is set when the backend reports the language it
	// detected; language.Und otherwise.
	DetectedSource language.Tag
}

// Provider is a translation backend.
type Provider interface {
	Name() string
	Translate(ctx context.Context, req Request) (Result, error)
}

// ErrRateLimited is returned when the backend refuses the call due to
// quota or throttling. Callers may retry later.
var ErrRateLimited = errors.New("provider rate limited")

// ErrUnsupportedPair is returned when the backend cannot translate between
// the requested languages.
var ErrUnsupportedPair = errors.New("unsupported language pair")

// StatusError reports a non-success HTTP status from a backend.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.Status, e.Body)
}

// ParseTag parses a user-supplied language code. Empty and "auto" mean
// detect, i.e. language.Und.
func ParseTag(code string) (language.Tag, error) {
	if code == "" || code == "auto" {
		return language.Und, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", code, err)
	}
	return tag, nil
}

// TagString renders a tag for a backend API, empty for language.Und.
func TagString(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	return tag.String()
}
