package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/wordgauge/internal/model"
)

// Glossator asks a provider for short glosses of unknown words. A glossary
// never feeds back into classification or scoring.
type Glossator struct {
	provider Provider
	config   Config
}

// NewGlossator creates a glossator; an empty provider name disables it
func NewGlossator(config Config) (*Glossator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Glossator{provider: provider, config: config}, nil
}

// NewGlossatorWithProvider wraps an existing provider
func NewGlossatorWithProvider(provider Provider, config Config) *Glossator {
	return &Glossator{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured
func (g *Glossator) IsEnabled() bool {
	return g != nil && g.provider != nil
}

// ProviderName returns the configured provider, or ""
func (g *Glossator) ProviderName() string {
	if !g.IsEnabled() {
		return ""
	}
	return g.provider.Name()
}

// Generate glosses words, which are expected most frequent first. It returns
// nil without error when the glossator is disabled or there is nothing to ask.
func (g *Glossator) Generate(ctx context.Context, language string, words []model.TokenStats) (*model.Glossary, error) {
	if !g.IsEnabled() || len(words) == 0 {
		return nil, nil
	}

	if len(words) > maxPromptWords {
		words = words[:maxPromptWords]
	}

	resp, err := g.provider.Complete(ctx, CompletionRequest{
		Prompt:    BuildPrompt(language, words),
		Model:     g.config.Model,
		MaxTokens: g.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", g.provider.Name(), err)
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w.Word] = w.Count
	}

	glossary := &model.Glossary{
		Provider: g.provider.Name(),
		Model:    resp.Model,
		Language: language,
		Strict:   g.config.Strict,
		Entries:  []model.GlossItem{},
	}

	for _, item := range ParseGlosses(resp.Text) {
		count, requested := counts[item.Word]
		if !requested {
			if g.config.Strict {
				glossary.Warnings = append(glossary.Warnings, fmt.Sprintf("dropped gloss for unrequested word %q", item.Word))
				continue
			}
		}
		item.Count = count
		glossary.Entries = append(glossary.Entries, item)
	}

	if missing := len(words) - countRequested(glossary.Entries, counts); missing > 0 {
		glossary.Warnings = append(glossary.Warnings, fmt.Sprintf("%d of %d words received no gloss", missing, len(words)))
	}

	return glossary, nil
}

func countRequested(entries []model.GlossItem, counts map[string]int) int {
	n := 0
	for _, e := range entries {
		if _, ok := counts[e.Word]; ok {
			n++
		}
	}
	return n
}

// RenderMarkdown renders a glossary as a Markdown section; it returns ""
// for a nil or empty glossary
func RenderMarkdown(glossary *model.Glossary) string {
	if glossary == nil || len(glossary.Entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Glossary\n\n")
	fmt.Fprintf(&b, "*Generated by %s", glossary.Provider)
	if glossary.Model != "" {
		fmt.Fprintf(&b, "/%s", glossary.Model)
	}
	b.WriteString(". Glosses are suggestions and do not affect the score.*\n\n")

	b.WriteString("| Word | Count | Gloss |\n")
	b.WriteString("|---|---:|---|\n")
	for _, e := range glossary.Entries {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", e.Word, e.Count, strings.ReplaceAll(e.Gloss, "|", "\\|"))
	}

	if len(glossary.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range glossary.Warnings {
			fmt.Fprintf(&b, "> ⚠️ %s\n", w)
		}
	}

	return b.String()
}
