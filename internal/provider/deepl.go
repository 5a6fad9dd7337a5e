package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultDeepLEndpoint is the free-tier API host. Paid keys use
// api.deepl.com; the endpoint is configurable for that reason.
const DefaultDeepLEndpoint = "https://api-free.deepl.com"

// DeepL calls the DeepL REST v2 translate endpoint.
type DeepL struct {
	endpoint string
	authKey  string
	client   *http.Client
}

// NewDeepL creates a DeepL provider. endpoint may be empty for the
// free-tier default.
func NewDeepL(endpoint, authKey string) *DeepL {
	if endpoint == "" {
		endpoint = DefaultDeepLEndpoint
	}
	return &DeepL{
		endpoint: strings.TrimRight(endpoint, "/"),
		authKey:  authKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements Provider.
func (d *DeepL) Name() string { return "deepl" }

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate implements Provider.
func (d *DeepL) Translate(ctx context.Context, req Request) (Result, error) {
	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("target_lang", strings.ToUpper(TagString(req.Target)))
	if src := TagString(req.Source); src != "" {
		form.Set("source_lang", strings.ToUpper(src))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.endpoint+"/v2/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("deepl: create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+d.authKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("deepl: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("deepl: read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, 456: // 456 = quota exceeded
		return Result{}, fmt.Errorf("deepl: %w", ErrRateLimited)
	case http.StatusBadRequest:
		if strings.Contains(string(body), "target_lang") {
			return Result{}, fmt.Errorf("deepl: %w", ErrUnsupportedPair)
		}
		fallthrough
	default:
		return Result{}, &StatusError{Provider: "deepl", Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed deeplResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("deepl: parse response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return Result{}, fmt.Errorf("deepl: empty translations array")
	}

	res := Result{Text: parsed.Translations[0].Text, DetectedSource: language.Und}
	if code := parsed.Translations[0].DetectedSourceLanguage; code != "" {
		if tag, err := language.Parse(code); err == nil {
			res.DetectedSource = tag
		}
	}
	return res, nil
}
