package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/tokenizer"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the model's text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one completion
type CompletionRequest struct {
	// System is the system instruction; empty uses the glossary instruction
	System string

	// Prompt is the user message
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse contains the model's output
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Strict drops glosses for words that were not asked for
	Strict bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		Strict:    true,
		MaxTokens: 1000,
	}
}

const systemPrompt = "You are a concise bilingual dictionary for language learners. You answer only in the requested line format."

// maxPromptWords caps the word list sent in one prompt
const maxPromptWords = 50

// BuildPrompt constructs the glossary prompt for the given unknown words
func BuildPrompt(language string, words []model.TokenStats) string {
	if language == "" {
		language = "the text's language"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `A learner reading a text in %s did not recognise the words below.

RULES:
1. Give each word a short English gloss (at most 8 words).
2. Answer with exactly one line per word, in the form "word: gloss".
3. Use the word exactly as listed. Do not add words that are not listed.
4. If a word is a proper noun or you are unsure, write "word: ?".

Words (most frequent first):
`, language)

	for i, w := range words {
		if i >= maxPromptWords {
			fmt.Fprintf(&b, "... and %d more words (skip these)\n", len(words)-maxPromptWords)
			break
		}
		fmt.Fprintf(&b, "- %s (%d×)\n", w.Word, w.Count)
	}

	return b.String()
}

// ParseGlosses reads "word: gloss" lines from a model response. List
// markers and bold markup are tolerated; the first gloss for a word wins.
// Words are folded the same way the tokenizer folds them.
func ParseGlosses(text string) []model.GlossItem {
	var items []model.GlossItem
	seen := make(map[string]bool)

	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		line = strings.TrimLeftFunc(line, func(r rune) bool {
			return r == '-' || r == '*' || r == '•' || r == '.' || r == ')' || unicode.IsDigit(r) || unicode.IsSpace(r)
		})

		word, gloss, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		word = tokenizer.Fold(strings.TrimSpace(strings.Trim(word, "*_`\"")))
		gloss = strings.TrimSpace(strings.Trim(strings.TrimSpace(gloss), "*_"))
		if word == "" || gloss == "" || strings.ContainsAny(word, " \t") {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		items = append(items, model.GlossItem{Word: word, Gloss: gloss})
	}

	return items
}
