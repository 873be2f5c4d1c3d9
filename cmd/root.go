package cmd

import (
	"errors"
	"log"
	"os"

	"jobpilot/internal/persona"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobpilot"
)

type Config struct {
	Database *DatabaseConfig `mapstructure:"database"`
	Source   *SourceConfig   `mapstructure:"source"`
	Personas *PersonasConfig `mapstructure:"personas"`
	Letter   *LetterConfig   `mapstructure:"letter"`
	AI       *AIConfig       `mapstructure:"ai"`
	Gmail    *GmailConfig    `mapstructure:"gmail"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type SourceConfig struct {
	Keywords   []string `mapstructure:"keywords"`
	Locations  []string `mapstructure:"locations"`
	MaxRecords int      `mapstructure:"max-records"`
	UserAgent  string   `mapstructure:"user-agent"`
}

type PersonasConfig struct {
	Default string            `mapstructure:"default"`
	List    []persona.Persona `mapstructure:"list"`
}

type LetterConfig struct {
	MinWords  int    `mapstructure:"min-words"`
	MaxWords  int    `mapstructure:"max-words"`
	MaxTokens int    `mapstructure:"max-tokens"`
	Closing   string `mapstructure:"closing"`
	// TimeoutSeconds bounds one full generation attempt including fallback.
	TimeoutSeconds int `mapstructure:"timeout-seconds"`
}

type AIConfig struct {
	// Order is the provider fallback list, tried first to last.
	Order     []string         `mapstructure:"order"`
	Gemini    *GeminiConfig    `mapstructure:"gemini"`
	Anthropic *AnthropicConfig `mapstructure:"anthropic"`
}

type GeminiConfig struct {
	Model      string `mapstructure:"model"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type AnthropicConfig struct {
	Model      string `mapstructure:"model"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
}

type GmailConfig struct {
	TokenFile string `mapstructure:"token-file"`
	Sender    string `mapstructure:"sender"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobpilot ingests job postings, generates cover letters and prepares email drafts",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gmail.token-file", "GMAIL_TOKEN_FILE"); err != nil {
		log.Fatalf("binding GMAIL_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.anthropic.api-key-file", "ANTHROPIC_API_KEY_FILE"); err != nil {
		log.Fatalf("binding ANTHROPIC_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobpilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Local development secrets can live in a .env file.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional: every command has workable defaults.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
