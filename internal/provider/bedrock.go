package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// BedrockConfig holds connection settings for the Bedrock provider.
// AccessKeyID/SecretAccessKey may be empty to fall back to the default AWS
// credential chain (env, shared config, instance role).
type BedrockConfig struct {
	Region          string
	ModelID         string
	AccessKeyID     string
	SecretAccessKey string
}

// Bedrock translates through an Anthropic model on AWS Bedrock.
type Bedrock struct {
	client  *bedrockruntime.Client
	modelID string
}

const defaultBedrockModel = "anthropic.claude-3-haiku-20240307-v1:0"

// NewBedrock creates a Bedrock provider.
func NewBedrock(ctx context.Context, cfg BedrockConfig) (*Bedrock, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("bedrock: region is required")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = defaultBedrockModel
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load AWS config: %w", err)
	}

	return &Bedrock{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
	}, nil
}

// Name implements Provider.
func (b *Bedrock) Name() string { return "bedrock" }

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Translate implements Provider.
func (b *Bedrock) Translate(ctx context.Context, req Request) (Result, error) {
	source := "from the language you detect"
	if req.Source != language.Und {
		source = "from " + display.English.Tags().Name(req.Source)
	}
	target := display.English.Tags().Name(req.Target)

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        4096,
		System:           fmt.Sprintf(translateSystemPrompt, source, target),
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Text},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("bedrock: marshal request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		var throttle *types.ThrottlingException
		if errors.As(err, &throttle) {
			return Result{}, fmt.Errorf("bedrock: %w", ErrRateLimited)
		}
		return Result{}, fmt.Errorf("bedrock: invoke model: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return Result{}, fmt.Errorf("bedrock: parse response: %w", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return Result{}, fmt.Errorf("bedrock: empty model response")
	}

	return Result{
		Text:           strings.TrimSpace(sb.String()),
		DetectedSource: language.Und,
	}, nil
}
