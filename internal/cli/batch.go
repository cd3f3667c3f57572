package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/pipeline"
	"github.com/ppiankov/wordgauge/internal/worker"
)

var (
	batchFlags   analysisFlags
	concurrency  int
	rps          float64
	fetchTimeout time.Duration
	userAgent    string
	maxBytes     int64
	insecureTLS  bool
	noRobots     bool
	httpProxy    string
	httpsProxy   string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fetch texts from a list of URLs and analyze them",
	Long: `Batch reads URLs from a file (one per line, # starts a comment) and:
- Fetches them in parallel with a per-domain rate limit
- Honours robots.txt unless disabled
- Reduces HTML pages to their main-content paragraphs
- Analyzes every fetched text against the same dictionary

Example:
  wordgauge batch urls.txt -d words.txt -p english.yaml
  wordgauge batch urls.txt -d ./dicts --concurrency 8 --rps 1 -o ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchFlags.registerDictionary(batchCmd)
	batchFlags.registerOutput(batchCmd)

	// Fetch flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent fetch workers")
	batchCmd.Flags().Float64Var(&rps, "rps", 0, "requests per second per domain")
	batchCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "timeout for each request")
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read")
	batchCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	batchCmd.Flags().BoolVar(&noRobots, "ignore-robots", false, "do not consult robots.txt")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// applyFetchFlags overrides the HTTP and worker settings the user set
func applyFetchFlags(cmd *cobra.Command, cfg *model.Config) {
	changed := cmd.Flags().Changed

	if changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if changed("rps") {
		cfg.RateLimiting.RequestsPerSecond = rps
	}
	if changed("fetch-timeout") {
		cfg.HTTP.Timeout = fetchTimeout
	}
	if changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if changed("ignore-robots") {
		cfg.HTTP.RespectRobots = !noRobots
	}
	if changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, logger, p, err := setup(cmd, &batchFlags)
	if err != nil {
		return err
	}
	applyFetchFlags(cmd, cfg)

	ctx, stop := interruptContext(cmd)
	defer stop()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  wordgauge Batch Processing\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Rate limit:   %.1f req/s per domain\n", cfg.RateLimiting.RequestsPerSecond)
	fmt.Fprintf(stderr, "  Robots.txt:   %v\n", cfg.HTTP.RespectRobots)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(stderr, "\n")

	fetcher := pipeline.NewFetcher(
		cfg.HTTP.Timeout,
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS,
		cfg.HTTP.HTTPProxy,
		cfg.HTTP.HTTPSProxy,
		cfg.HTTP.NoProxy,
	)
	if cfg.HTTP.RespectRobots {
		fetcher.RespectRobots()
	}

	processor := worker.NewBatchProcessor(fetcher, cfg.Concurrency.Workers, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	fmt.Fprintf(stderr, "⚙️  Fetching URLs with %d workers...\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fetched := make([]pipeline.Fetched, len(results))
	ok := 0
	for i, r := range results {
		fetched[i] = pipeline.Fetched{URL: r.URL, Result: r.Result, Err: r.Error}
		if r.Error == nil {
			ok++
		}
	}
	fmt.Fprintf(stderr, "✓ Fetched %d of %d URLs\n", ok, len(results))
	logger.Debug("Fetch finished", "urls", len(results), "fetched", ok)

	p.SetProgress(progressPrinter(stderr))
	run, err := p.RunFetched(ctx, fetched)

	return finishRun(stderr, pipeline.NewRenderer(cfg.Output.IncludeFooter), run, err)
}
