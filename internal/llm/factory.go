package llm

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/util"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (LLM disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the LLM and HTTP sections of the configuration
func ConfigFromModel(llmConfig model.LLMConfig, httpConfig model.HTTPConfig) Config {
	return Config{
		Provider:   llmConfig.Provider,
		Model:      llmConfig.Model,
		APIKey:     llmConfig.APIKey,
		BaseURL:    llmConfig.BaseURL,
		Timeout:    llmConfig.Timeout,
		Strict:     llmConfig.Strict,
		MaxTokens:  llmConfig.MaxTokens,
		HTTPProxy:  httpConfig.HTTPProxy,
		HTTPSProxy: httpConfig.HTTPSProxy,
		NoProxy:    httpConfig.NoProxy,
	}
}

func (c Config) maxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}

// newHTTPClient builds the provider client with the configured proxies
func newHTTPClient(config Config, defaultTimeout time.Duration) *http.Client {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
