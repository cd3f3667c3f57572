package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/wordgauge/internal/model"
)

func sampleReport() *model.FileReport {
	return &model.FileReport{
		Name:       "story",
		Source:     "story.txt",
		AnalyzedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Paragraphs: 1,
		Size:       4,
		Known:      1,
		Maybe:      1,
		Unknown:    2,
		Words: []model.TokenStats{
			{Word: "i", Count: 1, Classification: model.Unknown},
			{Word: "run", Count: 1, Classification: model.Known},
			{Word: "while", Count: 1, Classification: model.Unknown},
		},
		Score: model.Score{
			Index: 25,
			Level: model.LevelFrustration,
			Signals: []model.Signal{
				{Type: model.SignalCoverage, Severity: model.SeverityCritical, Description: "Known coverage: 1/4 (25.0%)"},
			},
		},
		FetchMeta: &model.FetchMeta{StatusCode: 200, Adapter: "wikipedia"},
		Glossary: &model.Glossary{
			Provider: "mock",
			Entries:  []model.GlossItem{{Word: "while", Count: 1, Gloss: "during"}},
		},
		Outputs: []string{"out/story.html"},
	}
}

func TestRenderer_Markdown(t *testing.T) {
	md := NewRenderer(true).Markdown(sampleReport())

	for _, want := range []string{
		"# story",
		"**Extracted with:** wikipedia adapter",
		"**Index: 25/100** (frustration)",
		"| Known | 1 | 25.0% |",
		"| Unknown | 2 | 50.0% |",
		"## Most frequent unknown words",
		"| while | 1 |",
		"## Glossary",
		"during",
		"*Generated by wordgauge.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}

	if strings.Contains(md, "| run | 1 |") {
		t.Error("Expected known words to be left out of the unknown table")
	}

	if strings.Contains(NewRenderer(false).Markdown(sampleReport()), "Generated by wordgauge") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(true).RenderSummary(&buf, sampleReport())

	out := buf.String()
	if !strings.Contains(out, "Index:      25/100 (frustration)") {
		t.Errorf("Expected index line, got:\n%s", out)
	}
	if !strings.Contains(out, "✓ Wrote out/story.html") {
		t.Error("Expected outputs to be listed")
	}
}

func TestRenderer_RenderRunSummary(t *testing.T) {
	run := &model.RunReport{
		Files:      []model.FileSummary{{Name: "story", Size: 4, Known: 1, Index: 25}},
		Failures:   []model.Failure{{Item: "gone.txt", Stage: "input", Error: "no such file"}},
		Dictionary: model.DictionaryStats{Original: 2, Expanded: 1, Cached: true},
	}
	run.Totals.Add(run.Files[0])

	var buf bytes.Buffer
	NewRenderer(true).RenderRunSummary(&buf, run)

	out := buf.String()
	for _, want := range []string{
		"✓ story (index: 25/100, 4 words)",
		"✗ gone.txt [input]: no such file",
		"Dictionary: 2 original, 1 expanded (cached)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := percent(0, 0); got != "0.0%" {
		t.Errorf("Expected 0.0%%, got %s", got)
	}
	if got := percent(1, 3); got != "33.3%" {
		t.Errorf("Expected 33.3%%, got %s", got)
	}
}
