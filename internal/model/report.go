package model

import "time"

// FileReport is the analysis result for one input (file or fetched page)
type FileReport struct {
	Name       string     `json:"name"`                 // Document name (title of the rendered page)
	Source     string     `json:"source"`               // Path or URL that was analyzed
	AnalyzedAt time.Time  `json:"analyzed_at"`          // When the analysis ran
	FetchMeta  *FetchMeta `json:"fetch_meta,omitempty"` // HTTP metadata for remote inputs

	Paragraphs int `json:"paragraphs"`
	Size       int `json:"size"`    // Word tokens
	Known      int `json:"known"`   // Word tokens classified Known
	Maybe      int `json:"maybe"`   // Word tokens classified Maybe
	Unknown    int `json:"unknown"` // size - known - maybe

	Words []TokenStats `json:"words"` // One row per unique lowercase word, most frequent first

	Score Score `json:"score"`

	Glossary *Glossary `json:"glossary,omitempty"` // Optional LLM glossary (never affects score)

	Outputs []string `json:"outputs,omitempty"` // Artifacts written for this input
}

// FetchMeta contains HTTP metadata from fetching a remote input
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Adapter      string            `json:"adapter,omitempty"` // Extraction adapter used for HTML
	Headers      map[string]string `json:"headers,omitempty"`
}

// Score is the comprehension breakdown for one input
type Score struct {
	Index    int          `json:"index"`    // round(known / size * 100)
	Coverage float64      `json:"coverage"` // known / size
	Assisted float64      `json:"assisted"` // (known + maybe) / size
	Level    ReadingLevel `json:"level"`
	Signals  []Signal     `json:"signals"`
}

// ReadingLevel buckets lexical coverage into the usual reading-comprehension bands
type ReadingLevel string

const (
	LevelIndependent   ReadingLevel = "independent"   // >= 98% known
	LevelInstructional ReadingLevel = "instructional" // >= 95% known
	LevelFrustration   ReadingLevel = "frustration"   // below 95%
	LevelEmpty         ReadingLevel = "empty"         // no words
)

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalCoverage         SignalType = "coverage"          // Known-word ratio
	SignalAssistedCoverage SignalType = "assisted_coverage" // Known plus maybe ratio
	SignalFrequentUnknowns SignalType = "frequent_unknowns" // Unknown words worth learning first
	SignalEmptyDocument    SignalType = "empty_document"    // Nothing to classify
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Glossary contains optional LLM-generated glosses for unknown words.
// It never affects classification or scoring.
type Glossary struct {
	Provider string      `json:"provider,omitempty"`
	Model    string      `json:"model,omitempty"`
	Language string      `json:"language,omitempty"`
	Strict   bool        `json:"strict"`
	Entries  []GlossItem `json:"entries"`
	Warnings []string    `json:"warnings,omitempty"`
}

// GlossItem is one word with its short explanation
type GlossItem struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
	Gloss string `json:"gloss"`
}

// RunReport summarizes one analysis run over many inputs
type RunReport struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Language   string          `json:"language,omitempty"`
	Dictionary DictionaryStats `json:"dictionary"`
	Files      []FileSummary   `json:"files"`
	Failures   []Failure       `json:"failures,omitempty"`
	Totals     Totals          `json:"totals"`
}

// DictionaryStats describes the dictionary store used by a run
type DictionaryStats struct {
	Sources  []string `json:"sources"`
	Plugin   string   `json:"plugin,omitempty"`
	Original int      `json:"original"`
	Expanded int      `json:"expanded"`
	Cached   bool     `json:"cached"`
}

// FileSummary is the per-input line of a run report
type FileSummary struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Size    int      `json:"size"`
	Known   int      `json:"known"`
	Maybe   int      `json:"maybe"`
	Unknown int      `json:"unknown"`
	Index   int      `json:"index"`
	Outputs []string `json:"outputs,omitempty"`
}

// Totals aggregates counts across all analyzed inputs
type Totals struct {
	Files   int `json:"files"`
	Size    int `json:"size"`
	Known   int `json:"known"`
	Maybe   int `json:"maybe"`
	Unknown int `json:"unknown"`
}

// Failure records a per-item failure that did not abort the run
type Failure struct {
	Item  string `json:"item"`
	Stage string `json:"stage"` // dictionary, plugin, input, fetch, render
	Error string `json:"error"`
}

// Summary reduces a file report to its run-report line
func (r *FileReport) Summary() FileSummary {
	return FileSummary{
		Name:    r.Name,
		Source:  r.Source,
		Size:    r.Size,
		Known:   r.Known,
		Maybe:   r.Maybe,
		Unknown: r.Unknown,
		Index:   r.Score.Index,
		Outputs: r.Outputs,
	}
}

// Add accumulates a file summary into the totals
func (t *Totals) Add(s FileSummary) {
	t.Files++
	t.Size += s.Size
	t.Known += s.Known
	t.Maybe += s.Maybe
	t.Unknown += s.Unknown
}
