package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "storysnippet <story.txt>" {
		t.Errorf("Expected Use to be 'storysnippet <story.txt>', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Bilingual") {
		t.Errorf("Expected Short description to mention 'Bilingual'")
	}

	// Test that flags are set up
	flagNames := []string{
		"config", "output", "skip-translation", "refresh-words", "archive",
		"list-models", "no-progress", "concurrency", "rate-limit", "model",
		"base-url", "timeout", "word-max-tokens", "translate-max-tokens",
		"breaker-threshold",
	}

	for _, name := range flagNames {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestRootCommand_Args(t *testing.T) {
	tests := []struct {
		name       string
		listModels bool
		args       []string
		wantErr    bool
	}{
		{"one story", false, []string{"story.txt"}, false},
		{"no story", false, nil, true},
		{"two stories", false, []string{"a.txt", "b.txt"}, true},
		{"list models without story", true, nil, false},
		{"list models with story", true, []string{"a.txt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := NewFlags()
			flags.ListModels = tt.listModels
			cmd := CreateRootCommand(flags)

			err := cmd.Args(cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Args(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	defaults := map[string]string{
		"output":      "input-pages",
		"concurrency": "5",
		"model":       "deepseek-chat",
		"base-url":    "https://api.deepseek.com",
		"timeout":     "60",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be %s, got %s", name, want, flag.DefValue)
		}
	}

	if cmd.Flags().ShorthandLookup("c") == nil {
		t.Error("Expected -c shorthand for concurrency")
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `llm:
  api_key: test-key
  model: other-model
enrich:
  concurrency: 9
output:
  directory: /test/output`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			cfgPath := tt.setupFunc(t)
			InitConfig(cfgPath)

			// Test environment variable prefix
			t.Setenv("STORYSNIPPET_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			t.Setenv("STORYSNIPPET_ENRICH_RATE_LIMIT", "2.5")
			if viper.GetFloat64("enrich.rate_limit") != 2.5 {
				t.Error("Nested key not read from environment")
			}

			if cfgPath != "" {
				if viper.GetString("llm.model") != "other-model" {
					t.Errorf("Expected llm.model from config, got %s", viper.GetString("llm.model"))
				}
				if viper.GetInt("enrich.concurrency") != 9 {
					t.Errorf("Expected enrich.concurrency 9, got %d", viper.GetInt("enrich.concurrency"))
				}
			}
		})
	}
}

func TestApplyConfig(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()
	viper.Reset()

	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// value from config, flag left alone
	viper.Set("llm.model", "config-model")
	// values given on the command line
	if err := cmd.Flags().Set("concurrency", "12"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("timeout", "5"); err != nil {
		t.Fatal(err)
	}

	ApplyConfig(flags)

	if flags.Model != "config-model" {
		t.Errorf("Expected model from config, got %s", flags.Model)
	}
	if flags.Concurrency != 12 {
		t.Errorf("Expected concurrency 12, got %d", flags.Concurrency)
	}
	if flags.Timeout != 5 {
		t.Errorf("Expected timeout 5, got %d", flags.Timeout)
	}
	if flags.BaseURL != "https://api.deepseek.com" {
		t.Errorf("Expected default base URL, got %s", flags.BaseURL)
	}
	if flags.OutputDir != "input-pages" {
		t.Errorf("Expected default output dir, got %s", flags.OutputDir)
	}
}

func TestGetAPIKey(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		legacyKey string
		configKey string
		expected  string
	}{
		{"from environment", "env-test-key", "legacy-key", "config-test-key", "env-test-key"},
		{"from legacy environment", "", "legacy-key", "config-test-key", "legacy-key"},
		{"from config when no env", "", "", "config-test-key", "config-test-key"},
		{"empty when neither set", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()

			t.Setenv(APIKeyEnv, tt.envKey)
			t.Setenv(legacyAPIKeyEnv, tt.legacyKey)
			if tt.configKey != "" {
				viper.Set("llm.api_key", tt.configKey)
			}

			if got := GetAPIKey(); got != tt.expected {
				t.Errorf("GetAPIKey() = %v, want %v", got, tt.expected)
			}

			_, err := RequireAPIKey()
			if tt.expected == "" && !errors.Is(err, ErrMissingAPIKey) {
				t.Errorf("Expected ErrMissingAPIKey, got %v", err)
			}
			if tt.expected != "" && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
