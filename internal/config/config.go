// Package config loads the proxy's YAML configuration. Lookup order for
// the file: explicit path, PASSAGE_CONFIG, ~/.passage/config.yaml. A
// missing file yields defaults, not an error; provider credentials fall
// back to the conventional environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/obryan/passage/internal/provider"
	"github.com/obryan/passage/internal/ratelimit"
)

// Config is the full proxy configuration.
type Config struct {
	Listen            string          `yaml:"listen"`
	DefaultProvider   string          `yaml:"default_provider"`
	SanitizeResponses bool            `yaml:"sanitize_responses"`
	AuditLog          string          `yaml:"audit_log"`
	Cache             CacheConfig     `yaml:"cache"`
	RateLimit         RateLimitConfig `yaml:"rate_limit"`
	Providers         Providers       `yaml:"providers"`
}

// CacheConfig controls the SQLite translation cache.
type CacheConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	MaxAgeHours int    `yaml:"max_age_hours"`
}

// RateLimitConfig holds the default window plus per-key overrides.
type RateLimitConfig struct {
	Default ratelimit.Limit            `yaml:"default"`
	PerKey  map[string]ratelimit.Limit `yaml:"per_key"`
}

// Providers declares the configured backends. A nil stanza means the
// backend is unavailable.
type Providers struct {
	DeepL   *DeepLProvider   `yaml:"deepl"`
	OpenAI  *OpenAIProvider  `yaml:"openai"`
	Bedrock *BedrockProvider `yaml:"bedrock"`
}

// DeepLProvider configures the DeepL backend.
type DeepLProvider struct {
	Endpoint string `yaml:"endpoint"`
	AuthKey  string `yaml:"auth_key"`
}

// OpenAIProvider configures the OpenAI backend.
type OpenAIProvider struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// BedrockProvider configures the AWS Bedrock backend.
type BedrockProvider struct {
	Region          string `yaml:"region"`
	ModelID         string `yaml:"model_id"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:          ":8980",
		DefaultProvider: "deepl",
		Cache: CacheConfig{
			Enabled:     true,
			MaxAgeHours: 24 * 30,
		},
	}
}

// DefaultDir is where passage keeps its files unless configured otherwise.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".passage"
	}
	return filepath.Join(home, ".passage")
}

// ResolvePath returns the config file path using the lookup order. The
// returned path may not exist.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("PASSAGE_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads the configuration. A nonexistent file returns defaults.
func Load(path string) (*Config, error) {
	path = ResolvePath(path)

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills missing provider credentials from the environment and
// creates stanzas for backends configured purely through it.
func (c *Config) applyEnv() {
	if key := os.Getenv("DEEPL_AUTH_KEY"); key != "" {
		if c.Providers.DeepL == nil {
			c.Providers.DeepL = &DeepLProvider{}
		}
		if c.Providers.DeepL.AuthKey == "" {
			c.Providers.DeepL.AuthKey = key
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Providers.OpenAI == nil {
			c.Providers.OpenAI = &OpenAIProvider{}
		}
		if c.Providers.OpenAI.APIKey == "" {
			c.Providers.OpenAI.APIKey = key
		}
	}
}

// CachePath returns the configured cache location or the default.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(DefaultDir(), "cache.db")
}

// BuildProvider constructs the configured default backend wrapped in a
// circuit breaker.
func (c *Config) BuildProvider(ctx context.Context) (provider.Provider, error) {
	name := c.DefaultProvider
	if name == "" {
		name = "deepl"
	}

	var p provider.Provider
	switch name {
	case "deepl":
		if c.Providers.DeepL == nil || c.Providers.DeepL.AuthKey == "" {
			return nil, fmt.Errorf("provider deepl: no auth key (set providers.deepl.auth_key or DEEPL_AUTH_KEY)")
		}
		p = provider.NewDeepL(c.Providers.DeepL.Endpoint, c.Providers.DeepL.AuthKey)
	case "openai":
		if c.Providers.OpenAI == nil || c.Providers.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("provider openai: no API key (set providers.openai.api_key or OPENAI_API_KEY)")
		}
		p = provider.NewOpenAI(c.Providers.OpenAI.APIKey, c.Providers.OpenAI.Model)
	case "bedrock":
		if c.Providers.Bedrock == nil {
			return nil, fmt.Errorf("provider bedrock: not configured")
		}
		b, err := provider.NewBedrock(ctx, provider.BedrockConfig{
			Region:          c.Providers.Bedrock.Region,
			ModelID:         c.Providers.Bedrock.ModelID,
			AccessKeyID:     c.Providers.Bedrock.AccessKeyID,
			SecretAccessKey: c.Providers.Bedrock.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		p = b
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}

	return provider.WithBreaker(p), nil
}
