// Package proxy exposes the translation pipeline over HTTP.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/obryan/passage/internal/pipeline"
	"github.com/obryan/passage/internal/provider"
	"github.com/obryan/passage/internal/ratelimit"
)

// maxBodySize bounds request bodies; translation payloads are text, not
// uploads.
const maxBodySize = 1 << 20

// Config holds HTTP server configuration.
type Config struct {
	Listen     string
	Translator *pipeline.Translator
	Limiter    *ratelimit.Limiter
}

// Server is the HTTP front end.
type Server struct {
	translator *pipeline.Translator
	limiter    *ratelimit.Limiter
	srv        *http.Server
}

// NewServer creates the HTTP server.
func NewServer(cfg Config) *Server {
	s := &Server{
		translator: cfg.Translator,
		limiter:    cfg.Limiter,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/translate", s.handleTranslate)
	mux.HandleFunc("POST /v1/sanitize", s.handleSanitize)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins listening. Blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	err = s.srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// ApplyLimits updates rate limits from a freshly reloaded config.
// Everything else needs a restart.
func (s *Server) ApplyLimits(def ratelimit.Limit, perKey map[string]ratelimit.Limit) {
	if s.limiter != nil {
		s.limiter.SetLimits(def, perKey)
	}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

type translateRequest struct {
	Text     string `json:"text"`
	Source   string `json:"source,omitempty"`
	Target   string `json:"target"`
	Sanitize bool   `json:"sanitize,omitempty"`
}

type translateResponse struct {
	Text           string `json:"text"`
	Provider       string `json:"provider"`
	CacheHit       bool   `json:"cache_hit"`
	DetectedSource string `json:"detected_source,omitempty"`
}

type sanitizeRequest struct {
	Text string `json:"text"`
}

type sanitizeResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if !s.allow(r) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Target == "" || req.Target == "auto" {
		writeError(w, http.StatusBadRequest, "target language is required")
		return
	}

	source, err := provider.ParseTag(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	target, err := provider.ParseTag(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.translator.Translate(r.Context(), provider.Request{
		Text:   req.Text,
		Source: source,
		Target: target,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	text := out.Text
	if req.Sanitize {
		text = s.translator.SanitizeText(text)
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Text:           text,
		Provider:       out.Provider,
		CacheHit:       out.CacheHit,
		DetectedSource: provider.TagString(out.DetectedSource),
	})
}

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	if !s.allow(r) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req sanitizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sanitizeResponse{Text: s.translator.SanitizeText(req.Text)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// allow applies the rate limiter keyed by API key header, falling back to
// the client address.
func (s *Server) allow(r *http.Request) bool {
	if s.limiter == nil {
		return true
	}
	key := r.Header.Get("X-Api-Key")
	if key == "" {
		key = r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			key = host
		}
	}
	return s.limiter.Allow(key, time.Now())
}

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps backend failures to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, provider.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, provider.ErrBreakerOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, provider.ErrUnsupportedPair):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
