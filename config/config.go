// Package config loads and validates service configuration from defaults,
// an optional YAML file, and CLAUSEGUARD_-prefixed environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
)

// envPrefix is the environment variable prefix for config overrides
const envPrefix = "CLAUSEGUARD_"

// Config holds all service configuration
type Config struct {
	// Server holds HTTP server settings
	Server Server `koanf:"server" json:"server"`
	// Fetcher holds document acquisition settings
	Fetcher Fetcher `koanf:"fetcher" json:"fetcher"`
	// Chunker holds text chunking settings
	Chunker Chunker `koanf:"chunker" json:"chunker"`
	// OpenAI holds classification service settings
	OpenAI OpenAI `koanf:"openai" json:"openai"`
	// Analyzer holds analysis orchestration settings
	Analyzer Analyzer `koanf:"analyzer" json:"analyzer"`
	// Storage holds analysis persistence settings
	Storage Storage `koanf:"storage" json:"storage"`
	// Notifier holds webhook notification settings
	Notifier Notifier `koanf:"notifier" json:"notifier"`
}

// Server holds HTTP server settings
type Server struct {
	// Listen is the address the HTTP server binds to
	Listen string `koanf:"listen" json:"listen" default:":8080"`
	// Debug enables debug logging
	Debug bool `koanf:"debug" json:"debug" default:"false"`
	// Pretty enables human readable console logging
	Pretty bool `koanf:"pretty" json:"pretty" default:"false"`
	// ReadTimeout is the maximum duration for reading an entire request
	ReadTimeout time.Duration `koanf:"readTimeout" json:"readTimeout" default:"30s"`
	// WriteTimeout is the maximum duration before timing out response writes.
	// Must exceed the analyzer deadline so slow analyses are not cut off mid-response.
	WriteTimeout time.Duration `koanf:"writeTimeout" json:"writeTimeout" default:"180s"`
	// ShutdownGracePeriod is how long to wait for in-flight requests on shutdown
	ShutdownGracePeriod time.Duration `koanf:"shutdownGracePeriod" json:"shutdownGracePeriod" default:"30s"`
	// MaxBodySize is the maximum request body size in bytes
	MaxBodySize int64 `koanf:"maxBodySize" json:"maxBodySize" default:"102400"`
}

// Fetcher holds document acquisition settings
type Fetcher struct {
	// RequestTimeout bounds the single outbound GET per analysis
	RequestTimeout time.Duration `koanf:"requestTimeout" json:"requestTimeout" default:"15s"`
	// MaxRedirects is the maximum redirect hops when fetching a document
	MaxRedirects int `koanf:"maxRedirects" json:"maxRedirects" default:"5"`
	// MaxBodyBytes is the maximum response body bytes to read
	MaxBodyBytes int64 `koanf:"maxBodyBytes" json:"maxBodyBytes" default:"2097152"`
	// UserAgent is sent on outbound document fetches
	UserAgent string `koanf:"userAgent" json:"userAgent" default:"Mozilla/5.0 (compatible; ClauseGuard/1.0)"`
	// MinDocumentChars is the minimum extracted text length for a usable document
	MinDocumentChars int `koanf:"minDocumentChars" json:"minDocumentChars" default:"100"`
}

// Chunker holds text chunking settings
type Chunker struct {
	// MaxChars is the maximum characters per chunk
	MaxChars int `koanf:"maxChars" json:"maxChars" default:"4000"`
	// OverlapChars is how many characters consecutive chunks share
	OverlapChars int `koanf:"overlapChars" json:"overlapChars" default:"400"`
}

// OpenAI holds classification service settings
type OpenAI struct {
	// APIKey authenticates against the classification service. When empty the
	// service falls back to the built-in rule-based detector.
	APIKey string `koanf:"apiKey" json:"apiKey" sensitive:"true"`
	// BaseURL is the chat completions API root
	BaseURL string `koanf:"baseURL" json:"baseURL" default:"https://api.openai.com/v1"`
	// Model is the model identifier for classification and summarization calls
	Model string `koanf:"model" json:"model" default:"gpt-4o"`
	// RequestTimeout bounds each classification or summarization call
	RequestTimeout time.Duration `koanf:"requestTimeout" json:"requestTimeout" default:"60s"`
	// SummaryMaxChars caps the document prefix sent to the summarizer
	SummaryMaxChars int `koanf:"summaryMaxChars" json:"summaryMaxChars" default:"16000"`
}

// Analyzer holds analysis orchestration settings
type Analyzer struct {
	// Deadline is the overall per-request analysis deadline
	Deadline time.Duration `koanf:"deadline" json:"deadline" default:"120s"`
	// Concurrency caps concurrent chunk classification calls
	Concurrency int `koanf:"concurrency" json:"concurrency" default:"4"`
	// MaxChunks caps how many chunks are classified per document
	MaxChunks int `koanf:"maxChunks" json:"maxChunks" default:"20"`
}

// Storage holds analysis persistence settings
type Storage struct {
	// Dir is the directory for the analyses database. Empty disables persistence.
	Dir string `koanf:"dir" json:"dir"`
}

// Notifier holds webhook notification settings
type Notifier struct {
	// WebhookURL receives a notification per completed analysis. Empty disables notifications.
	WebhookURL string `koanf:"webhookURL" json:"webhookURL" sensitive:"true"`
	// RequestTimeout bounds each webhook delivery
	RequestTimeout time.Duration `koanf:"requestTimeout" json:"requestTimeout" default:"10s"`
}

// Load builds the configuration from defaults, an optional YAML file at
// cfgPath, and environment variable overrides, in that precedence order.
func Load(cfgPath *string) (*Config, error) {
	cfg := &Config{}
	defaults.SetDefaults(cfg)

	ko := koanf.New(".")

	if cfgPath != nil && *cfgPath != "" {
		if _, err := os.Stat(*cfgPath); err == nil {
			if err := ko.Load(file.Provider(*cfgPath), yaml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// CLAUSEGUARD_SERVER_LISTEN -> server.listen
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	})
	if err := ko.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if err := ko.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks for deployment misconfigurations that would make every
// analysis fail. Chunking bounds are validated here so operators see a
// distinct config error at startup rather than per-request failures.
func (c *Config) Validate() error {
	if c.Chunker.MaxChars <= 0 || c.Chunker.OverlapChars < 0 {
		return ErrInvalidChunkBounds
	}

	if c.Chunker.OverlapChars >= c.Chunker.MaxChars {
		return ErrOverlapTooLarge
	}

	if c.Analyzer.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Analyzer.Deadline <= 0 {
		return ErrInvalidDeadline
	}

	return nil
}
