package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "staffmatch"
)

type Config struct {
	Repository *RepositoryConfig `mapstructure:"repository"`
	Matching   *MatchingConfig   `mapstructure:"matching"`
	Documents  *DocumentsConfig  `mapstructure:"documents"`
	AI         *AIConfig         `mapstructure:"ai"`
}

type RepositoryConfig struct {
	// Driver is "file" or "postgres".
	Driver  string `mapstructure:"driver"`
	File    string `mapstructure:"file"`
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
}

type MatchingConfig struct {
	Mode              string        `mapstructure:"mode"`
	Profile           string        `mapstructure:"profile"`
	ShortlistSize     int           `mapstructure:"shortlist-size"`
	Limit             int           `mapstructure:"limit"`
	Timeout           time.Duration `mapstructure:"timeout"`
	ParallelThreshold int           `mapstructure:"parallel-threshold"`
	Locale            string        `mapstructure:"locale"`
	Requester         string        `mapstructure:"requester"`
	PeerRadiusKm      float64       `mapstructure:"peer-radius-km"`
	// Profiles holds custom weight profiles keyed by name.
	Profiles map[string]map[string]any `mapstructure:"profiles"`
}

type DocumentsConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxChars  int           `mapstructure:"max-chars"`
	MaxBytes  int64         `mapstructure:"max-bytes"`
	UserAgent string        `mapstructure:"user-agent"`
	Redis     *RedisConfig  `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	PasswordFile string        `mapstructure:"password-file"`
	DB           int           `mapstructure:"db"`
	TTL          time.Duration `mapstructure:"ttl"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "staffmatch ranks candidates against vacancies, companies and other candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"repository.dsn-file":           "STAFFMATCH_DSN_FILE",
		"documents.redis.password-file": "STAFFMATCH_REDIS_PASSWORD_FILE",
		"ai.gemini.api-key-file":        "STAFFMATCH_GEMINI_API_KEY_FILE",
		"ai.openai.api-key-file":        "STAFFMATCH_OPENAI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is staffmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("repository.driver", "file")
	viper.SetDefault("repository.file", "candidates.json")
	viper.SetDefault("matching.mode", "points")
	viper.SetDefault("matching.shortlist-size", 15)
	viper.SetDefault("matching.timeout", "60s")
	viper.SetDefault("matching.parallel-threshold", 200)
	viper.SetDefault("matching.locale", "de-CH")
	viper.SetDefault("matching.peer-radius-km", 25)
	viper.SetDefault("documents.timeout", "8s")
	viper.SetDefault("documents.max-chars", 2000)
	viper.SetDefault("documents.redis.ttl", "24h")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", "30s")
	viper.SetDefault("ai.max-log-length", 200)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without an explicit file the defaults are enough; a broken file is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
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

	if config.Repository == nil {
		config.Repository = &RepositoryConfig{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Documents == nil {
		config.Documents = &DocumentsConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}
