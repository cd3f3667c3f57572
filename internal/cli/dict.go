package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/wordgauge/internal/dictionary"
	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/tokenizer"
)

var (
	dictFlags    analysisFlags
	showOriginal bool
)

// dictCmd represents the dict command
var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect dictionaries and plugin expansion",
	Long: `Inspect how your dictionaries and language plugin combine.

Useful while writing a plugin: see which forms the rules derive and how
single words are classified.`,
}

var dictExpandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Print the forms derived by the plugin",
	Long: `Load the dictionaries, expand them with the plugin and print every derived
form, sorted, followed by the entry counts.

Example:
  wordgauge dict expand -d words.txt -p english.yaml
  wordgauge dict expand -d words.txt -p english.yaml --original`,
	Args: cobra.NoArgs,
	RunE: runDictExpand,
}

var dictClassifyCmd = &cobra.Command{
	Use:   "classify <word>...",
	Short: "Classify single words",
	Long: `Classify each word as known, maybe or unknown against the expanded
dictionary. Words are lowercased the same way text is.

Example:
  wordgauge dict classify Running unhappy quixotic -d words.txt -p english.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDictClassify,
}

func init() {
	rootCmd.AddCommand(dictCmd)
	dictCmd.AddCommand(dictExpandCmd)
	dictCmd.AddCommand(dictClassifyCmd)

	for _, cmd := range []*cobra.Command{dictExpandCmd, dictClassifyCmd} {
		dictFlags.registerDictionary(cmd)
	}
	dictExpandCmd.Flags().BoolVar(&showOriginal, "original", false, "also print the original entries")
}

func runDictExpand(cmd *cobra.Command, args []string) error {
	_, _, p, err := setup(cmd, &dictFlags)
	if err != nil {
		return err
	}

	store := p.Dictionary()
	out := cmd.OutOrStdout()

	if showOriginal {
		for _, w := range store.Words(dictionary.Original) {
			fmt.Fprintf(out, "%s\toriginal\n", w)
		}
	}
	for _, w := range store.Words(dictionary.Expanded) {
		if showOriginal {
			fmt.Fprintf(out, "%s\texpanded\n", w)
		} else {
			fmt.Fprintln(out, w)
		}
	}

	stats := p.DictionaryStats()
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Sources:    %d\n", len(stats.Sources))
	fmt.Fprintf(stderr, "  Original:   %d\n", stats.Original)
	fmt.Fprintf(stderr, "  Expanded:   %d\n", stats.Expanded)
	if plugin := store.Plugin(); plugin != nil {
		fmt.Fprintf(stderr, "  Layers:     %v\n", plugin.LayerNames())
	}
	if stats.Cached {
		fmt.Fprintf(stderr, "  (restored from cache)\n")
	}
	for _, f := range p.Failures() {
		fmt.Fprintf(stderr, "✗ %s [%s]: %s\n", f.Item, f.Stage, f.Error)
	}
	return nil
}

func runDictClassify(cmd *cobra.Command, args []string) error {
	_, _, p, err := setup(cmd, &dictFlags)
	if err != nil {
		return err
	}

	store := p.Dictionary()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tCLASS\tSOURCE")

	for _, arg := range args {
		word := tokenizer.Fold(arg)
		class := store.Classify(word)

		source := "-"
		switch class {
		case model.Known, model.Maybe:
			if prov, ok := store.Lookup(word); ok {
				source = prov.String()
			} else {
				source = "prefix"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", word, class, source)
	}
	return tw.Flush()
}
