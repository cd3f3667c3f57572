// Package pipeline runs analyses: it builds the shared dictionary once,
// then tokenizes, classifies, scores and renders each input in turn.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/wordgauge/internal/cache"
	"github.com/ppiankov/wordgauge/internal/classifier"
	"github.com/ppiankov/wordgauge/internal/dictionary"
	"github.com/ppiankov/wordgauge/internal/document"
	"github.com/ppiankov/wordgauge/internal/extract/adapters"
	"github.com/ppiankov/wordgauge/internal/llm"
	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/render"
	"github.com/ppiankov/wordgauge/internal/score"
	"github.com/ppiankov/wordgauge/internal/util"
)

// ErrNoInputs is returned by Run when there is nothing to analyze
var ErrNoInputs = errors.New("no inputs to analyze")

// Pipeline holds the read-only dictionary for one run and everything needed
// to turn inputs into reports. Inputs are analyzed one at a time.
type Pipeline struct {
	config     *model.Config
	logger     *slog.Logger
	dict       *dictionary.Store
	dictStats  model.DictionaryStats
	failures   []model.Failure
	classifier *classifier.Classifier
	scorer     *score.Scorer
	html       *render.HTMLRenderer
	renderer   *Renderer
	adapters   *adapters.Registry
	glossator  *llm.Glossator
	progress   ProgressFunc
}

// NewPipeline loads the plugin and dictionaries and expands them, or
// restores the expansion from the cache. A malformed plugin is fatal;
// unreadable dictionaries are recorded as failures and skipped.
func NewPipeline(cfg *model.Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pipeline{
		config:    cfg,
		logger:    logger,
		dict:      dictionary.NewStore(),
		scorer:    score.NewScorer(),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		adapters:  adapters.NewRegistry(),
	}

	if err := p.loadDictionary(); err != nil {
		return nil, err
	}
	p.classifier = classifier.New(p.dict)

	styleSheet := ""
	if cfg.Output.StyleSheet != "" {
		data, err := os.ReadFile(cfg.Output.StyleSheet)
		if err != nil {
			return nil, fmt.Errorf("read stylesheet: %w", err)
		}
		styleSheet = string(data)
	}
	p.html = render.NewHTMLRenderer(styleSheet, cfg.Output.IncludeFooter)

	if cfg.LLM.Provider != "" {
		g, err := llm.NewGlossator(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			logger.Warn("LLM provider disabled", "provider", cfg.LLM.Provider, "error", err)
		} else {
			p.glossator = g
		}
	}

	return p, nil
}

// SetProgress installs an advisory progress callback for Run
func (p *Pipeline) SetProgress(fn ProgressFunc) {
	p.progress = fn
}

// SetGlossator replaces the glossary generator
func (p *Pipeline) SetGlossator(g *llm.Glossator) {
	p.glossator = g
}

// Dictionary returns the expanded dictionary store
func (p *Pipeline) Dictionary() *dictionary.Store {
	return p.dict
}

// DictionaryStats describes the dictionary this pipeline analyzes against
func (p *Pipeline) DictionaryStats() model.DictionaryStats {
	return p.dictStats
}

// Failures returns the per-item failures recorded while loading dictionaries
func (p *Pipeline) Failures() []model.Failure {
	return slices.Clone(p.failures)
}

func (p *Pipeline) loadDictionary() error {
	cfg := p.config.Dictionary

	plugin, err := dictionary.LoadPluginFile(cfg.Plugin)
	if err != nil {
		return fmt.Errorf("load plugin: %w", err)
	}
	p.dict.SetPlugin(plugin)

	keyParts := [][]byte{}
	if plugin != nil {
		keyParts = append(keyParts, plugin.Source())
		p.dictStats.Plugin = cfg.Plugin
	} else {
		keyParts = append(keyParts, nil)
	}

	files, failures := expandPaths(cfg.Paths, nil)
	for _, f := range failures {
		p.recordFailure(f.Item, "dictionary", errors.New(f.Error))
	}

	for _, path := range files {
		text, n, err := p.dict.LoadDictionaryFile(path, cfg.Encoding)
		if err != nil {
			p.recordFailure(path, "dictionary", err)
			continue
		}
		p.dictStats.Sources = append(p.dictStats.Sources, path)
		keyParts = append(keyParts, []byte(text))
		p.logger.Debug("Loaded dictionary", "path", path, "tokens", n)
	}

	if err := p.expand(cache.Key(keyParts...)); err != nil {
		return err
	}

	p.dictStats.Original = p.dict.Count(dictionary.Original)
	p.dictStats.Expanded = p.dict.Count(dictionary.Expanded)
	p.logger.Info("Dictionary ready",
		"sources", len(p.dictStats.Sources),
		"original", p.dictStats.Original,
		"expanded", p.dictStats.Expanded,
		"cached", p.dictStats.Cached)

	return nil
}

// expand runs the expansion, going through the cache when enabled
func (p *Pipeline) expand(key string) error {
	cfg := p.config.Cache
	if !cfg.Enabled || p.dict.Plugin() == nil {
		p.dict.Expand()
		return nil
	}

	c := cache.NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)

	if snap, ok := cache.GetJSON[dictionary.Snapshot](c, key); ok {
		p.dict.Restore(snap)
		p.dictStats.Cached = true
		p.logger.Debug("Dictionary cache hit", "key", key)
		return nil
	}

	added := p.dict.Expand()
	p.logger.Debug("Dictionary expanded", "added", added)

	if err := cache.SetJSON(c, key, p.dict.Snapshot(), 0); err != nil {
		p.logger.Warn("Failed to cache expanded dictionary", "error", err)
	}
	return nil
}

func (p *Pipeline) recordFailure(item, stage string, err error) {
	p.logger.Warn("Skipping item", "item", item, "stage", stage, "error", err)
	p.failures = append(p.failures, model.Failure{Item: item, Stage: stage, Error: err.Error()})
}

// Result is one analyzed input: the classified tree and its report
type Result struct {
	Doc    *document.Document
	Report *model.FileReport
}

// Analyze classifies doc against the dictionary and builds its report
func (p *Pipeline) Analyze(doc *document.Document, source string) *model.FileReport {
	p.classifier.Classify(doc)

	paragraphs := 0
	for range doc.Paragraphs() {
		paragraphs++
	}

	size, known, maybe := doc.Size(), doc.Known(), doc.Maybe()
	unknowns := doc.Stats.TopByClassification(model.Unknown, p.config.Output.TopUnknown)

	return &model.FileReport{
		Name:       doc.Name(),
		Source:     source,
		AnalyzedAt: time.Now().UTC(),
		Paragraphs: paragraphs,
		Size:       size,
		Known:      known,
		Maybe:      maybe,
		Unknown:    size - known - maybe,
		Words:      doc.Stats.Table(),
		Score:      p.scorer.Calculate(size, known, maybe, unknowns),
	}
}

// AnalyzeText analyzes text held in memory, one paragraph per line
func (p *Pipeline) AnalyzeText(name, text string) *Result {
	doc := document.BuildText(name, text)
	return &Result{Doc: doc, Report: p.Analyze(doc, name)}
}

// AnalyzeFile reads, decodes and analyzes one file. HTML files are reduced to
// their paragraphs first.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	doc, err := p.loadFile(path)
	if err != nil {
		return nil, err
	}

	result := &Result{Doc: doc, Report: p.Analyze(doc, path)}
	p.gloss(ctx, result.Report, doc)
	return result, nil
}

func (p *Pipeline) loadFile(path string) (*document.Document, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if isHTMLFile(path) {
		text, err := util.ReadTextFile(path, p.config.Input.Encoding)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		title, paragraphs, _, err := p.adapters.Extract(text, "", "text/html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if title != "" {
			name = title
		}
		return document.BuildParagraphs(name, paragraphs), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r, err := util.NewTextReader(f, p.config.Input.Encoding)
	if err != nil {
		return nil, err
	}
	return document.Build(name, r)
}

// AnalyzeFetched analyzes a fetched page or text
func (p *Pipeline) AnalyzeFetched(ctx context.Context, res *FetchResult) (*Result, error) {
	meta := res.Meta

	var doc *document.Document
	if res.IsHTML {
		title, paragraphs, adapter, err := p.adapters.Extract(res.Body, res.FinalURL, meta.ContentType)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", res.FinalURL, err)
		}
		name := res.Subject
		if title != "" {
			name = title
		}
		meta.Adapter = adapter
		doc = document.BuildParagraphs(name, paragraphs)
	} else {
		doc = document.BuildText(res.Subject, res.Body)
	}

	report := p.Analyze(doc, res.FinalURL)
	report.FetchMeta = &meta
	p.gloss(ctx, report, doc)

	return &Result{Doc: doc, Report: report}, nil
}

// gloss attaches an LLM glossary. It runs after scoring and never changes it.
func (p *Pipeline) gloss(ctx context.Context, report *model.FileReport, doc *document.Document) {
	if !p.glossator.IsEnabled() {
		return
	}

	words := doc.Stats.TopByClassification(model.Unknown, p.config.Output.TopUnknown)
	glossary, err := p.glossator.Generate(ctx, p.config.Language, words)
	if err != nil {
		p.logger.Warn("Glossary generation failed", "document", report.Name, "error", err)
		return
	}
	report.Glossary = glossary
}

// Run analyzes local inputs: files, or directories searched for files with
// the configured extensions. Files are processed sequentially and ctx is
// checked between them. Outputs go to the configured directory.
func (p *Pipeline) Run(ctx context.Context, inputs []string) (*model.RunReport, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	files, failures := expandPaths(inputs, p.config.Input.Extensions)
	if len(files) == 0 && len(failures) == 0 {
		return nil, ErrNoInputs
	}

	sources := make([]source, 0, len(files))
	for _, path := range files {
		sources = append(sources, source{
			item:    path,
			analyze: func(ctx context.Context) (*Result, error) { return p.AnalyzeFile(ctx, path) },
		})
	}

	return p.run(ctx, sources, failures)
}

// Fetched is the outcome of fetching one remote input
type Fetched struct {
	URL    string
	Result *FetchResult
	Err    error
}

// RunFetched analyzes already-fetched remote inputs sequentially. Failed
// fetches are recorded as failures.
func (p *Pipeline) RunFetched(ctx context.Context, fetched []Fetched) (*model.RunReport, error) {
	if len(fetched) == 0 {
		return nil, ErrNoInputs
	}

	var failures []model.Failure
	sources := make([]source, 0, len(fetched))
	for _, f := range fetched {
		if f.Err != nil {
			failures = append(failures, model.Failure{Item: f.URL, Stage: "fetch", Error: f.Err.Error()})
			continue
		}
		sources = append(sources, source{
			item:    f.URL,
			analyze: func(ctx context.Context) (*Result, error) { return p.AnalyzeFetched(ctx, f.Result) },
		})
	}

	return p.run(ctx, sources, failures)
}

type source struct {
	item    string
	analyze func(ctx context.Context) (*Result, error)
}

func (p *Pipeline) run(ctx context.Context, sources []source, failures []model.Failure) (*model.RunReport, error) {
	run := &model.RunReport{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Language:   p.config.Language,
		Dictionary: p.dictStats,
		Files:      []model.FileSummary{},
	}
	run.Failures = append(run.Failures, p.failures...)
	for _, f := range failures {
		p.logger.Warn("Skipping item", "item", f.Item, "stage", f.Stage, "error", f.Error)
		run.Failures = append(run.Failures, f)
	}

	outDir := p.config.Output.Dir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	progress := newProgressReporter(p.progress, len(sources))
	slugs := newSlugger()

	var runErr error
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		progress.report(i, src.item)

		result, err := src.analyze(ctx)
		if err != nil {
			p.recordRunFailure(run, src.item, "input", err)
			continue
		}

		outputs, err := p.writeOutputs(result, filepath.Join(outDir, slugs.next(result.Report.Name)))
		result.Report.Outputs = outputs
		if err != nil {
			p.recordRunFailure(run, src.item, "render", err)
		}

		summary := result.Report.Summary()
		run.Files = append(run.Files, summary)
		run.Totals.Add(summary)

		p.logger.Debug("Analyzed", "item", src.item, "size", summary.Size, "index", summary.Index)
	}
	if runErr == nil {
		progress.report(len(sources), "")
	}

	run.FinishedAt = time.Now().UTC()

	if err := p.renderer.RenderRunJSON(run, filepath.Join(outDir, runReportName+".json")); err != nil {
		return run, fmt.Errorf("write run report: %w", err)
	}

	p.logger.Info("Run finished",
		"run_id", run.RunID,
		"files", run.Totals.Files,
		"failures", len(run.Failures),
		"words", run.Totals.Size)

	return run, runErr
}

func (p *Pipeline) recordRunFailure(run *model.RunReport, item, stage string, err error) {
	p.logger.Warn("Skipping item", "item", item, "stage", stage, "error", err)
	run.Failures = append(run.Failures, model.Failure{Item: item, Stage: stage, Error: err.Error()})
}

// writeOutputs writes the enabled artifacts next to base (a path without
// extension). The report lists every planned output, itself included.
func (p *Pipeline) writeOutputs(result *Result, base string) ([]string, error) {
	cfg := p.config.Output

	type output struct {
		path  string
		write func(path string) error
	}
	var planned []output

	if cfg.HTML {
		planned = append(planned, output{base + ".html", func(path string) error {
			return p.writeHTML(result.Doc, path)
		}})
	}
	if cfg.Markdown {
		planned = append(planned, output{base + ".md", func(path string) error {
			return p.renderer.RenderMarkdown(result.Report, path)
		}})
	}
	if cfg.JSON {
		planned = append(planned, output{base + ".json", func(path string) error {
			return p.renderer.RenderJSON(result.Report, path)
		}})
	}

	result.Report.Outputs = make([]string, len(planned))
	for i, o := range planned {
		result.Report.Outputs[i] = o.path
	}

	var written []string
	for _, o := range planned {
		if err := o.write(o.path); err != nil {
			return written, fmt.Errorf("write %s: %w", o.path, err)
		}
		written = append(written, o.path)
	}
	return written, nil
}

func (p *Pipeline) writeHTML(doc *document.Document, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return p.html.Render(f, doc)
}
