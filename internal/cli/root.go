package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/wordgauge/internal/model"
)

// Version is the wordgauge release
const Version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wordgauge",
	Short: "wordgauge - how much of a text does your vocabulary cover",
	Long: `wordgauge measures how much of a text a language learner already knows.

Every word of the text is checked against your dictionaries of known words.
A language plugin derives inflected forms from them (running from run) and
marks words whose prefix may hide a known word. Words are classified as
known, maybe or unknown, and each text gets an annotated HTML page, a JSON
report with per-word counts, and a comprehension index.

Known means "in your dictionary", not "understood".`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of wordgauge.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wordgauge v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.wordgauge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		return
	}
	if verbose && viper.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configDir returns ~/.wordgauge
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".wordgauge"), nil
}

// readConfig registers the defaults, the WORDGAUGE_* environment and the
// config file with v. A missing default config file is not an error; a
// missing explicit one is.
func readConfig(v *viper.Viper, file string) error {
	if err := registerDefaults(v); err != nil {
		return err
	}

	v.SetEnvPrefix("WORDGAUGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	dir, err := configDir()
	if err != nil {
		return err
	}
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")
	v.SetConfigName("config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// registerDefaults makes every key of the default config known to v, which
// AutomaticEnv needs for nested keys to reach Unmarshal
func registerDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var defaults map[string]any
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaults(v, "", defaults)

	// Omitted when empty, but still configurable through the environment
	for _, key := range []string{"llm.api_key", "llm.base_url", "output.stylesheet", "http.http_proxy", "http.https_proxy", "http.no_proxy"} {
		v.SetDefault(key, "")
	}
	return nil
}

func setDefaults(v *viper.Viper, prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			setDefaults(v, key, nested)
			continue
		}
		v.SetDefault(key, val)
	}
}

// decodeConfig unmarshals v onto the defaults, fills API keys from the
// provider environment variables and validates the result
func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Output.Verbose {
		cfg.Log.Level = "debug"
	}

	applyLLMEnv(&cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfig returns the configuration of the global viper instance
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}

// applyLLMEnv reads provider credentials from their conventional variables
func applyLLMEnv(cfg *model.LLMConfig) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.BaseURL == "" {
			cfg.BaseURL = baseURL
		}
	}
}
