package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/wordgauge/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *CompletionResponse
	err       error
	lastReq   CompletionRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

var unknownWords = []model.TokenStats{
	{Word: "perro", Count: 3, Classification: model.Unknown},
	{Word: "gato", Count: 1, Classification: model.Unknown},
}

func TestNewGlossator_DisabledProvider(t *testing.T) {
	glossator, err := NewGlossator(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if glossator.IsEnabled() {
		t.Error("Expected glossator to be disabled")
	}
	if glossator.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	glossary, err := glossator.Generate(context.Background(), "Spanish", unknownWords)
	if err != nil || glossary != nil {
		t.Errorf("Expected nil glossary and no error when disabled, got %v, %v", glossary, err)
	}
}

func TestNewGlossator_UnknownProvider(t *testing.T) {
	if _, err := NewGlossator(Config{Provider: "mystery"}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestGlossator_NilIsDisabled(t *testing.T) {
	var glossator *Glossator
	if glossator.IsEnabled() {
		t.Error("Expected nil glossator to be disabled")
	}
}

func TestGlossator_Generate_Success(t *testing.T) {
	provider := &MockProvider{
		name:      "mock",
		available: true,
		response: &CompletionResponse{
			Text:  "perro: dog\n- Gato: cat\n",
			Model: "mock-1",
		},
	}
	glossator := NewGlossatorWithProvider(provider, Config{Strict: true, MaxTokens: 300})

	glossary, err := glossator.Generate(context.Background(), "Spanish", unknownWords)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if glossary.Provider != "mock" || glossary.Model != "mock-1" {
		t.Errorf("Unexpected provenance: %s/%s", glossary.Provider, glossary.Model)
	}
	if len(glossary.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(glossary.Entries))
	}
	if glossary.Entries[0].Word != "perro" || glossary.Entries[0].Count != 3 || glossary.Entries[0].Gloss != "dog" {
		t.Errorf("Unexpected first entry: %+v", glossary.Entries[0])
	}
	if glossary.Entries[1].Word != "gato" {
		t.Errorf("Expected folded word gato, got %s", glossary.Entries[1].Word)
	}
	if len(glossary.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", glossary.Warnings)
	}

	if !strings.Contains(provider.lastReq.Prompt, "Spanish") || !strings.Contains(provider.lastReq.Prompt, "perro (3×)") {
		t.Errorf("Expected prompt to carry language and words, got %s", provider.lastReq.Prompt)
	}
	if provider.lastReq.MaxTokens != 300 {
		t.Errorf("Expected max tokens 300, got %d", provider.lastReq.MaxTokens)
	}
}

func TestGlossator_Generate_StrictDropsUnrequested(t *testing.T) {
	provider := &MockProvider{
		name:     "mock",
		response: &CompletionResponse{Text: "perro: dog\ncaballo: horse"},
	}
	glossator := NewGlossatorWithProvider(provider, Config{Strict: true})

	glossary, err := glossator.Generate(context.Background(), "Spanish", unknownWords)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(glossary.Entries) != 1 || glossary.Entries[0].Word != "perro" {
		t.Errorf("Expected only perro, got %+v", glossary.Entries)
	}
	if len(glossary.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", glossary.Warnings)
	}
	if !strings.Contains(glossary.Warnings[0], "caballo") {
		t.Errorf("Expected warning about caballo, got %s", glossary.Warnings[0])
	}
	if !strings.Contains(glossary.Warnings[1], "1 of 2") {
		t.Errorf("Expected missing-gloss warning, got %s", glossary.Warnings[1])
	}
}

func TestGlossator_Generate_LenientKeepsUnrequested(t *testing.T) {
	provider := &MockProvider{
		name:     "mock",
		response: &CompletionResponse{Text: "perro: dog\ngato: cat\ncaballo: horse"},
	}
	glossator := NewGlossatorWithProvider(provider, Config{Strict: false})

	glossary, err := glossator.Generate(context.Background(), "Spanish", unknownWords)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(glossary.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(glossary.Entries))
	}
	if glossary.Entries[2].Count != 0 {
		t.Errorf("Expected zero count for unrequested word, got %d", glossary.Entries[2].Count)
	}
}

func TestGlossator_Generate_ProviderError(t *testing.T) {
	provider := &MockProvider{name: "mock", err: errors.New("quota exceeded")}
	glossator := NewGlossatorWithProvider(provider, Config{})

	glossary, err := glossator.Generate(context.Background(), "Spanish", unknownWords)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if glossary != nil {
		t.Error("Expected nil glossary on error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected provider error to be wrapped, got %v", err)
	}
}

func TestGlossator_Generate_NoWords(t *testing.T) {
	provider := &MockProvider{name: "mock"}
	glossator := NewGlossatorWithProvider(provider, Config{})

	glossary, err := glossator.Generate(context.Background(), "Spanish", nil)
	if err != nil || glossary != nil {
		t.Errorf("Expected nothing to do, got %v, %v", glossary, err)
	}
	if provider.lastReq.Prompt != "" {
		t.Error("Expected provider not to be called")
	}
}

func TestParseGlosses(t *testing.T) {
	text := `Here are the glosses:
1. perro: dog
2) **gato**: cat
- casa: house: home
* perro: hound
not a gloss
two words: ignored
vacío:
`
	items := ParseGlosses(text)

	words := make([]string, len(items))
	for i, item := range items {
		words[i] = item.Word
	}
	if strings.Join(words, ",") != "perro,gato,casa" {
		t.Fatalf("Expected perro,gato,casa, got %v", words)
	}
	if items[0].Gloss != "dog" {
		t.Errorf("Expected first gloss to win, got %s", items[0].Gloss)
	}
	if items[2].Gloss != "house: home" {
		t.Errorf("Expected gloss to keep later colons, got %s", items[2].Gloss)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Hebrew", unknownWords)

	for _, want := range []string{"Hebrew", "word: gloss", "- perro (3×)", "- gato (1×)"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	if !strings.Contains(BuildPrompt("", nil), "the text's language") {
		t.Error("Expected fallback language name")
	}
}

func TestBuildPrompt_ManyWords(t *testing.T) {
	words := make([]model.TokenStats, 60)
	for i := range words {
		words[i] = model.TokenStats{Word: "w", Count: 1}
	}

	prompt := BuildPrompt("French", words)
	if !strings.Contains(prompt, "and 10 more words") {
		t.Error("Expected prompt to be truncated")
	}
}

func TestRenderMarkdown(t *testing.T) {
	if RenderMarkdown(nil) != "" {
		t.Error("Expected empty output for nil glossary")
	}
	if RenderMarkdown(&model.Glossary{}) != "" {
		t.Error("Expected empty output for empty glossary")
	}

	md := RenderMarkdown(&model.Glossary{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		Entries:  []model.GlossItem{{Word: "perro", Count: 3, Gloss: "dog | hound"}},
		Warnings: []string{"1 of 2 words received no gloss"},
	})

	for _, want := range []string{"## Glossary", "openai/gpt-4o-mini", "| perro | 3 | dog \\| hound |", "1 of 2 words"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"disabled", Config{}, "", false},
		{"openai", Config{Provider: "openai", APIKey: "k"}, "openai", false},
		{"openai without key", Config{Provider: "openai"}, "", true},
		{"claude alias", Config{Provider: "Claude", APIKey: "k"}, "anthropic", false},
		{"ollama", Config{Provider: "ollama"}, "ollama", false},
		{"unknown", Config{Provider: "other"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if tt.wantName == "" {
				if provider != nil {
					t.Errorf("Expected no provider, got %s", provider.Name())
				}
				return
			}
			if provider == nil || provider.Name() != tt.wantName {
				t.Errorf("Expected provider %s", tt.wantName)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "" {
		t.Error("Expected LLM to be disabled by default")
	}
	if !config.Strict {
		t.Error("Expected strict mode by default")
	}
	if config.Timeout != 30 || config.MaxTokens != 1000 {
		t.Errorf("Unexpected defaults: %+v", config)
	}
}

func TestConfigFromModel(t *testing.T) {
	config := ConfigFromModel(
		model.LLMConfig{Provider: "ollama", Model: "llama3.1", Timeout: 10, Strict: true},
		model.HTTPConfig{HTTPProxy: "http://proxy:3128", NoProxy: "localhost"},
	)

	if config.Provider != "ollama" || config.Model != "llama3.1" || config.Timeout != 10 || !config.Strict {
		t.Errorf("Unexpected LLM fields: %+v", config)
	}
	if config.HTTPProxy != "http://proxy:3128" || config.NoProxy != "localhost" {
		t.Errorf("Unexpected proxy fields: %+v", config)
	}
}
