package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/pipeline"
)

// analysisFlags are shared by every command that builds a dictionary
type analysisFlags struct {
	dicts       []string
	plugin      string
	language    string
	dictEnc     string
	noCache     bool
	outputDir   string
	encoding    string
	markdown    bool
	noHTML      bool
	noJSON      bool
	noFooter    bool
	topUnknown  int
	llmProvider string
	llmModel    string
}

func (f *analysisFlags) registerDictionary(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.dicts, "dict", "d", nil, "dictionary file or directory of known words (repeatable)")
	cmd.Flags().StringVarP(&f.plugin, "plugin", "p", "", "language plugin with expansion rules (YAML or JSON)")
	cmd.Flags().StringVar(&f.dictEnc, "dict-encoding", "", "encoding of dictionary files (default utf-8)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the expanded dictionary cache")
}

func (f *analysisFlags) registerOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "language of the texts, used for glossaries")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "output directory for reports")
	cmd.Flags().BoolVar(&f.markdown, "md", false, "also write a Markdown summary per input")
	cmd.Flags().BoolVar(&f.noHTML, "no-html", false, "do not write annotated HTML pages")
	cmd.Flags().BoolVar(&f.noJSON, "no-json", false, "do not write JSON reports")
	cmd.Flags().BoolVar(&f.noFooter, "no-footer", false, "disable footer in HTML and Markdown reports")
	cmd.Flags().IntVar(&f.topUnknown, "top", 0, "number of frequent unknown words to report and gloss")
	cmd.Flags().StringVar(&f.llmProvider, "llm", "", "LLM provider for glossaries (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&f.llmModel, "llm-model", "", "LLM model name")
}

// apply overrides cfg with the flags the user actually set
func (f *analysisFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	changed := cmd.Flags().Changed

	if changed("dict") {
		cfg.Dictionary.Paths = f.dicts
	}
	if changed("plugin") {
		cfg.Dictionary.Plugin = f.plugin
	}
	if changed("dict-encoding") {
		cfg.Dictionary.Encoding = f.dictEnc
	}
	if changed("no-cache") {
		cfg.Cache.Enabled = !f.noCache
	}
	if changed("language") {
		cfg.Language = f.language
	}
	if changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if changed("encoding") {
		cfg.Input.Encoding = f.encoding
	}
	if changed("md") {
		cfg.Output.Markdown = f.markdown
	}
	if changed("no-html") {
		cfg.Output.HTML = !f.noHTML
	}
	if changed("no-json") {
		cfg.Output.JSON = !f.noJSON
	}
	if changed("no-footer") {
		cfg.Output.IncludeFooter = !f.noFooter
	}
	if changed("top") {
		cfg.Output.TopUnknown = f.topUnknown
	}
	if changed("llm") {
		cfg.LLM.Provider = f.llmProvider
	}
	if changed("llm-model") {
		cfg.LLM.Model = f.llmModel
	}
	applyLLMEnv(&cfg.LLM)
}

// setup loads the configuration, applies flags and builds the pipeline
func setup(cmd *cobra.Command, flags *analysisFlags) (*model.Config, *slog.Logger, *pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	logger := NewLogger(cfg.Log)

	if len(cfg.Dictionary.Paths) == 0 {
		logger.Warn("No dictionaries configured, every word will be unknown")
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, p, nil
}

// interruptContext is canceled on SIGINT or SIGTERM; the run stops after the
// current input
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// progressPrinter writes throttled progress lines to w
func progressPrinter(w io.Writer) pipeline.ProgressFunc {
	return func(p pipeline.Progress) {
		if p.Item == "" {
			return
		}
		fmt.Fprintf(w, "⚙️  [%d/%d] %s\n", p.Done+1, p.Total, p.Item)
	}
}

// finishRun prints the run summary and turns a run without any analyzed
// input into an error
func finishRun(w io.Writer, renderer *pipeline.Renderer, run *model.RunReport, runErr error) error {
	if run != nil {
		renderer.RenderRunSummary(w, run)
	}
	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("interrupted: %w", runErr)
	}
	if runErr != nil {
		return runErr
	}
	if len(run.Files) == 0 {
		return fmt.Errorf("no input could be analyzed (%d failures)", len(run.Failures))
	}
	return nil
}

var analyzeFlags analysisFlags

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>...",
	Short: "Classify the words of local texts against your dictionaries",
	Long: `Analyze reads text files, HTML files, or directories of them and:
- Splits every paragraph into words and non-words
- Classifies each word as known, maybe or unknown
- Writes an annotated HTML page, a JSON report and optionally Markdown
- Writes run.json with totals for the whole run

Directories are searched recursively for the configured extensions.

Example:
  wordgauge analyze story.txt --dict words.txt --plugin english.yaml
  wordgauge analyze ./texts -d ./dicts -p english.yaml -o ./reports --md
  wordgauge analyze chapter.txt -d words.txt --llm openai --language English`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeFlags.registerDictionary(analyzeCmd)
	analyzeFlags.registerOutput(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeFlags.encoding, "encoding", "", "encoding of input files (default utf-8)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, _, p, err := setup(cmd, &analyzeFlags)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	stderr := cmd.ErrOrStderr()
	stats := p.DictionaryStats()
	fmt.Fprintf(stderr, "✓ Dictionary: %d original, %d expanded\n", stats.Original, stats.Expanded)

	p.SetProgress(progressPrinter(stderr))
	run, err := p.Run(ctx, args)
	if errors.Is(err, pipeline.ErrNoInputs) {
		return fmt.Errorf("%w (extensions: %v)", err, cfg.Input.Extensions)
	}

	if err := finishRun(stderr, pipeline.NewRenderer(cfg.Output.IncludeFooter), run, err); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "  Output:     %s\n\n", cfg.Output.Dir)
	return nil
}
