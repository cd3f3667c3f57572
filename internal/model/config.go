package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the complete wordgauge configuration
type Config struct {
	Language     string             `yaml:"language" mapstructure:"language"`
	Dictionary   DictionaryConfig   `yaml:"dictionary" mapstructure:"dictionary"`
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// DictionaryConfig points at the known-word lists and the expansion plugin
type DictionaryConfig struct {
	Paths    []string `yaml:"paths" mapstructure:"paths"`       // Dictionary files or directories, unioned
	Plugin   string   `yaml:"plugin" mapstructure:"plugin"`     // Expansion rule file (YAML or JSON), optional
	Encoding string   `yaml:"encoding" mapstructure:"encoding"` // Text encoding label of dictionary files
}

// InputConfig controls how analyzed files are discovered and decoded
type InputConfig struct {
	Encoding   string   `yaml:"encoding" mapstructure:"encoding"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // Used when an input is a directory
}

// HTTPConfig controls fetching of remote texts
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls the expanded dictionary cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls remote fetching workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig controls per-domain request rates
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls which artifacts are written
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	StyleSheet    string `yaml:"stylesheet,omitempty" mapstructure:"stylesheet"` // CSS file inlined into pages
	HTML          bool   `yaml:"html" mapstructure:"html"`
	JSON          bool   `yaml:"json" mapstructure:"json"`
	Markdown      bool   `yaml:"markdown" mapstructure:"markdown"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	TopUnknown    int    `yaml:"top_unknown" mapstructure:"top_unknown"`
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig configures the optional glossary provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, or empty
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Strict    bool   `yaml:"strict" mapstructure:"strict"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			Encoding: "utf-8",
		},
		Input: InputConfig{
			Encoding:   "utf-8",
			Extensions: []string{".txt", ".md", ".html", ".htm"},
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "wordgauge/0.1 (+https://github.com/ppiankov/wordgauge)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Dir:           "./wordgauge-reports",
			HTML:          true,
			JSON:          true,
			IncludeFooter: true,
			TopUnknown:    20,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 1000,
			Strict:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if c.Concurrency.Workers < 0 {
		return fmt.Errorf("concurrency.workers must not be negative, got %d", c.Concurrency.Workers)
	}
	if c.Output.TopUnknown < 0 {
		return fmt.Errorf("output.top_unknown must not be negative, got %d", c.Output.TopUnknown)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text, json", c.Log.Format)
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "", "openai", "anthropic", "claude", "ollama":
	default:
		return fmt.Errorf("llm.provider %q is not supported (openai, anthropic, ollama)", c.LLM.Provider)
	}
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wordgauge")
	}
	return ".wordgauge-cache"
}
