package cmd

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobsai/internal/coverletter"
	"github.com/spigell/jobsai/internal/filtering"
)

const (
	app = "jobsai"

	defaultDataDir = "data"
)

type Config struct {
	JobBoards      []string            `mapstructure:"job-boards"`
	DeepMode       bool                `mapstructure:"deep-mode"`
	ReportSize     int                 `mapstructure:"report-size"`
	CoverLetterNum int                 `mapstructure:"cover-letter-num"`
	LetterStyle    string              `mapstructure:"letter-style"`
	Contact        coverletter.Contact `mapstructure:"contact"`
	DataDir        string              `mapstructure:"data-dir"`
	Scraper        ScraperConfig       `mapstructure:"scraper"`
	Scoring        ScoringConfig       `mapstructure:"scoring"`
	Filters        filtering.Config    `mapstructure:"filters"`
	History        HistoryConfig       `mapstructure:"history"`
	Keywords       KeywordsConfig      `mapstructure:"keywords"`
	AI             *AIConfig           `mapstructure:"ai"`
	Server         ServerConfig        `mapstructure:"server"`
}

type ScraperConfig struct {
	Pages        int           `mapstructure:"pages"`
	PerPageLimit int           `mapstructure:"per-page-limit"`
	Delay        time.Duration `mapstructure:"delay"`
	Backoff      time.Duration `mapstructure:"backoff"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user-agent"`
}

type ScoringConfig struct {
	Mode string `mapstructure:"mode"`
	// MinimumScore is a shortcut for filters.minimum-score.
	MinimumScore int `mapstructure:"minimum-score"`
}

type HistoryConfig struct {
	SQLiteFile string `mapstructure:"sqlite-file"`
}

type KeywordsConfig struct {
	Mode string `mapstructure:"mode"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxTokens    int    `mapstructure:"max-tokens"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobsai finds matching jobs on Finnish job boards and writes a cover letter for the best ones",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A missing .env is fine; the environment may be set another way.
	_ = godotenv.Load()

	bindings := map[string]string{
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"data-dir":               "JOBSAI_DATA_DIR",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("data-dir", defaultDataDir)
	viper.SetDefault("keywords.mode", "rules")
	viper.SetDefault("scoring.mode", "plain")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobsai.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without a config file every key keeps its default, unless the
		// user pointed at one explicitly.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Filters.MinimumScore == 0 {
		config.Filters.MinimumScore = config.Scoring.MinimumScore
	}

	return config, nil
}
