package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/storysnippet/internal"
)

// APIKeyEnv is the environment variable holding the API key
const APIKeyEnv = "DEEPSEEK_API_KEY"

// legacyAPIKeyEnv is the misspelled variable read by earlier versions
const legacyAPIKeyEnv = "DEESEEK_API_KEY"

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("please set your DeepSeek API key in the environment variable " + APIKeyEnv)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "storysnippet <story.txt>",
		Short: "Bilingual English/Polish story snippet generator",
		Long: `storysnippet turns a plain-text English story into study material:

  words.json            every distinct word with part of speech, English and
                        Polish definitions, Polish translation and examples
  story-bilingual.html  the story paragraph by paragraph next to its Polish
                        translation, every word tagged for lookup

Output goes to <output>/<story name>/. An existing words.json is reused and
only words without a definition are looked up again.

Examples:
  storysnippet story.txt
  storysnippet -c 10 -o pages story.txt
  storysnippet --list-models`,
		Args:    validateArgs(flags),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func validateArgs(flags *Flags) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if flags.ListModels {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	}
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.storysnippet.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output root directory")
	cmd.Flags().BoolVar(&flags.SkipTranslation, "skip-translation", false, "Do not translate; use the English text in the Polish column")
	cmd.Flags().BoolVar(&flags.RefreshWords, "refresh-words", false, "Ignore an existing words.json and look up every word again")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive an existing output directory for the story before generating")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available chat models for the current API key")
	cmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Print plain progress lines instead of progress bars")

	// Enrichment flags
	cmd.Flags().IntVarP(&flags.Concurrency, "concurrency", "c", flags.Concurrency, "Maximum simultaneous word lookups")
	cmd.Flags().Float64Var(&flags.RateLimit, "rate-limit", flags.RateLimit, "Maximum word lookups per second (0 = unlimited)")

	// LLM flags
	cmd.Flags().StringVar(&flags.Model, "model", flags.Model, "Chat completion model")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", flags.BaseURL, "Chat completion API base URL")
	cmd.Flags().IntVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout in seconds for a single API call")
	cmd.Flags().IntVar(&flags.WordMaxTokens, "word-max-tokens", flags.WordMaxTokens, "Token limit for a word description")
	cmd.Flags().IntVar(&flags.TranslateMaxTokens, "translate-max-tokens", flags.TranslateMaxTokens, "Token limit for a translated paragraph")
	cmd.Flags().IntVar(&flags.BreakerThreshold, "breaker-threshold", flags.BreakerThreshold, "Consecutive translation failures before the remaining paragraphs are left untranslated (-1 = never)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("enrich.concurrency", cmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("enrich.rate_limit", cmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("llm.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("llm.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("llm.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("llm.word_max_tokens", cmd.Flags().Lookup("word-max-tokens"))
	viper.BindPFlag("llm.translate_max_tokens", cmd.Flags().Lookup("translate-max-tokens"))
	viper.BindPFlag("translation.breaker_threshold", cmd.Flags().Lookup("breaker-threshold"))
}

// ApplyConfig copies config file and environment values into flags.
// Flags given on the command line take precedence.
func ApplyConfig(flags *Flags) {
	flags.OutputDir = viper.GetString("output.directory")
	flags.Concurrency = viper.GetInt("enrich.concurrency")
	flags.RateLimit = viper.GetFloat64("enrich.rate_limit")
	flags.Model = viper.GetString("llm.model")
	flags.BaseURL = viper.GetString("llm.base_url")
	flags.Timeout = viper.GetInt("llm.timeout")
	flags.WordMaxTokens = viper.GetInt("llm.word_max_tokens")
	flags.TranslateMaxTokens = viper.GetInt("llm.translate_max_tokens")
	flags.BreakerThreshold = viper.GetInt("translation.breaker_threshold")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".storysnippet" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".storysnippet")
	}

	// Environment variables
	viper.SetEnvPrefix("STORYSNIPPET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetAPIKey retrieves the API key from environment or config
func GetAPIKey() string {
	// First check environment variables
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key
	}
	if key := os.Getenv(legacyAPIKeyEnv); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("llm.api_key")
}

// RequireAPIKey returns the API key or ErrMissingAPIKey
func RequireAPIKey() (string, error) {
	key := GetAPIKey()
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
