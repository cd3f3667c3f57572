package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/wordgauge/internal/llm"
	"github.com/ppiankov/wordgauge/internal/model"
)

// markdownWordRows caps the word table in Markdown reports
const markdownWordRows = 25

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the file report as indented JSON
func (r *Renderer) RenderJSON(report *model.FileReport, path string) error {
	return writeJSON(report, path)
}

// RenderRunJSON writes the run report as indented JSON
func (r *Renderer) RenderRunJSON(run *model.RunReport, path string) error {
	return writeJSON(run, path)
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// writeFile writes data atomically through a temporary file
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// RenderMarkdown writes a Markdown summary of the file report
func (r *Renderer) RenderMarkdown(report *model.FileReport, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown returns the Markdown summary of a file report
func (r *Renderer) Markdown(report *model.FileReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", report.Name)
	fmt.Fprintf(&b, "**Source:** %s  \n", report.Source)
	fmt.Fprintf(&b, "**Analyzed:** %s  \n", report.AnalyzedAt.Format("2006-01-02 15:04 MST"))
	if report.FetchMeta != nil && report.FetchMeta.Adapter != "" {
		fmt.Fprintf(&b, "**Extracted with:** %s adapter  \n", report.FetchMeta.Adapter)
	}
	b.WriteString("\n")

	b.WriteString("## Comprehension\n\n")
	fmt.Fprintf(&b, "**Index: %d/100** (%s)\n\n", report.Score.Index, report.Score.Level)
	b.WriteString("| | Words | Share |\n")
	b.WriteString("|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Known | %d | %s |\n", report.Known, percent(report.Known, report.Size))
	fmt.Fprintf(&b, "| Maybe | %d | %s |\n", report.Maybe, percent(report.Maybe, report.Size))
	fmt.Fprintf(&b, "| Unknown | %d | %s |\n", report.Unknown, percent(report.Unknown, report.Size))
	fmt.Fprintf(&b, "| **Total** | **%d** | |\n\n", report.Size)
	fmt.Fprintf(&b, "%d paragraphs, %d distinct words.\n\n", report.Paragraphs, len(report.Words))

	if len(report.Score.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Score.Signals {
			fmt.Fprintf(&b, "- %s **%s**: %s\n", severityIcon(s.Severity), s.Type, s.Description)
		}
		b.WriteString("\n")
	}

	var unknown []model.TokenStats
	for _, w := range report.Words {
		if w.Classification == model.Unknown {
			unknown = append(unknown, w)
			if len(unknown) == markdownWordRows {
				break
			}
		}
	}
	if len(unknown) > 0 {
		b.WriteString("## Most frequent unknown words\n\n")
		b.WriteString("| Word | Count |\n")
		b.WriteString("|---|---:|\n")
		for _, w := range unknown {
			fmt.Fprintf(&b, "| %s | %d |\n", w.Word, w.Count)
		}
		b.WriteString("\n")
	}

	if glossary := llm.RenderMarkdown(report.Glossary); glossary != "" {
		b.WriteString(glossary)
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Generated by wordgauge. Known and maybe reflect your dictionary, not your actual understanding.*\n")
	}

	return b.String()
}

// RenderSummary prints a short summary of one file report
func (r *Renderer) RenderSummary(w io.Writer, report *model.FileReport) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", report.Name)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Index:      %d/100 (%s)\n", report.Score.Index, report.Score.Level)
	fmt.Fprintf(w, "  Words:      %d\n", report.Size)
	fmt.Fprintf(w, "  Known:      %d (%s)\n", report.Known, percent(report.Known, report.Size))
	fmt.Fprintf(w, "  Maybe:      %d (%s)\n", report.Maybe, percent(report.Maybe, report.Size))
	fmt.Fprintf(w, "  Unknown:    %d (%s)\n", report.Unknown, percent(report.Unknown, report.Size))
	fmt.Fprintf(w, "\n")

	for _, s := range report.Score.Signals {
		fmt.Fprintf(w, "  %s %s\n", severityIcon(s.Severity), s.Description)
	}
	for _, out := range report.Outputs {
		fmt.Fprintf(w, "  ✓ Wrote %s\n", out)
	}
	fmt.Fprintf(w, "\n")
}

// RenderRunSummary prints the totals of a run
func (r *Renderer) RenderRunSummary(w io.Writer, run *model.RunReport) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Run Complete\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")

	for _, f := range run.Files {
		fmt.Fprintf(w, "✓ %s (index: %d/100, %d words)\n", f.Name, f.Index, f.Size)
	}
	for _, f := range run.Failures {
		fmt.Fprintf(w, "✗ %s [%s]: %s\n", f.Item, f.Stage, f.Error)
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Files:      %d\n", run.Totals.Files)
	fmt.Fprintf(w, "  Failures:   %d\n", len(run.Failures))
	fmt.Fprintf(w, "  Words:      %d\n", run.Totals.Size)
	fmt.Fprintf(w, "  Known:      %d (%s)\n", run.Totals.Known, percent(run.Totals.Known, run.Totals.Size))
	fmt.Fprintf(w, "  Maybe:      %d (%s)\n", run.Totals.Maybe, percent(run.Totals.Maybe, run.Totals.Size))
	fmt.Fprintf(w, "  Unknown:    %d (%s)\n", run.Totals.Unknown, percent(run.Totals.Unknown, run.Totals.Size))
	fmt.Fprintf(w, "  Dictionary: %d original, %d expanded", run.Dictionary.Original, run.Dictionary.Expanded)
	if run.Dictionary.Cached {
		fmt.Fprintf(w, " (cached)")
	}
	fmt.Fprintf(w, "\n\n")
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func severityIcon(s model.SignalSeverity) string {
	switch s {
	case model.SeverityCritical:
		return "🔴"
	case model.SeverityWarning:
		return "🟡"
	default:
		return "🟢"
	}
}
