package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/obryan/passage/internal/provider"
)

// TranslateInput defines parameters for the passage_translate tool.
type TranslateInput struct {
	Text     string `json:"text" jsonschema:"text to translate"`
	Source   string `json:"source,omitempty" jsonschema:"source language code, omit or 'auto' to detect"`
	Target   string `json:"target" jsonschema:"target language code"`
	Sanitize bool   `json:"sanitize,omitempty" jsonschema:"strip unsafe HTML tags from the result"`
}

// TranslateOutput contains the finished translation.
type TranslateOutput struct {
	Text           string `json:"text"`
	Provider       string `json:"provider"`
	CacheHit       bool   `json:"cache_hit,omitempty"`
	DetectedSource string `json:"detected_source,omitempty"`
}

// SanitizeInput defines parameters for the passage_sanitize tool.
type SanitizeInput struct {
	Text string `json:"text" jsonschema:"text to clean"`
}

// SanitizeOutput contains the cleaned text.
type SanitizeOutput struct {
	Text string `json:"text"`
}

func (s *Server) handleTranslate(ctx context.Context, req *mcpsdk.CallToolRequest, input TranslateInput) (*mcpsdk.CallToolResult, TranslateOutput, error) {
	if input.Target == "" || input.Target == "auto" {
		return &mcpsdk.CallToolResult{IsError: true}, TranslateOutput{},
			fmt.Errorf("target language is required")
	}

	source, err := provider.ParseTag(input.Source)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, TranslateOutput{}, err
	}
	target, err := provider.ParseTag(input.Target)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, TranslateOutput{}, err
	}

	out, err := s.translator.Translate(ctx, provider.Request{
		Text:   input.Text,
		Source: source,
		Target: target,
	})
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, TranslateOutput{}, err
	}

	text := out.Text
	if input.Sanitize {
		text = s.translator.SanitizeText(text)
	}

	return nil, TranslateOutput{
		Text:           text,
		Provider:       out.Provider,
		CacheHit:       out.CacheHit,
		DetectedSource: provider.TagString(out.DetectedSource),
	}, nil
}

func (s *Server) handleSanitize(ctx context.Context, req *mcpsdk.CallToolRequest, input SanitizeInput) (*mcpsdk.CallToolResult, SanitizeOutput, error) {
	return nil, SanitizeOutput{Text: s.translator.SanitizeText(input.Text)}, nil
}
