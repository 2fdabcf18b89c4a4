package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix    = "LEXSEARCH"
	DefaultQuery = "Can I drive a scooter without a licence?"
)

type Config struct {
	Corpus   CorpusConfig   `mapstructure:"corpus"`
	Search   SearchConfig   `mapstructure:"search"`
	Embedder EmbedderConfig `mapstructure:"embedder"`
	Log      LogConfig      `mapstructure:"log"`
}

type CorpusConfig struct {
	// Path to the JSON corpus. Empty selects the built-in sample.
	Path string `mapstructure:"path"`
}

type SearchConfig struct {
	Query       string  `mapstructure:"query"`
	Top         int     `mapstructure:"top"`
	MaxDistance float64 `mapstructure:"max_distance"`
}

type EmbedderConfig struct {
	Provider          string        `mapstructure:"provider"`
	Model             string        `mapstructure:"model"`
	Dimensions        int           `mapstructure:"dimensions"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	BatchSize         int           `mapstructure:"batch_size"`
	Concurrency       int           `mapstructure:"concurrency"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file and the
// environment. A .env file in the working directory is loaded first if
// present. When configPath is empty, lexsearch.yaml is looked up in
// ./config and the working directory; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("embedder.api_key", envPrefix+"_EMBEDDER_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("lexsearch")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("corpus.path", "")

	v.SetDefault("search.query", DefaultQuery)
	v.SetDefault("search.top", 3)
	v.SetDefault("search.max_distance", 0.0)

	v.SetDefault("embedder.provider", "openai")
	v.SetDefault("embedder.model", "text-embedding-3-small")
	v.SetDefault("embedder.dimensions", 384)
	v.SetDefault("embedder.base_url", "")
	v.SetDefault("embedder.batch_size", 64)
	v.SetDefault("embedder.concurrency", 4)
	v.SetDefault("embedder.requests_per_second", 5.0)
	v.SetDefault("embedder.timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Search.Top <= 0:
		return fmt.Errorf("search.top must be positive, got %d", c.Search.Top)
	case c.Search.MaxDistance < 0:
		return fmt.Errorf("search.max_distance must not be negative, got %g", c.Search.MaxDistance)
	case c.Embedder.Provider != "openai" && c.Embedder.Provider != "hash":
		return fmt.Errorf("embedder.provider must be openai or hash, got %q", c.Embedder.Provider)
	case c.Embedder.Dimensions < 0:
		return fmt.Errorf("embedder.dimensions must not be negative, got %d", c.Embedder.Dimensions)
	case c.Embedder.BatchSize <= 0:
		return fmt.Errorf("embedder.batch_size must be positive, got %d", c.Embedder.BatchSize)
	case c.Embedder.Concurrency <= 0:
		return fmt.Errorf("embedder.concurrency must be positive, got %d", c.Embedder.Concurrency)
	case c.Embedder.RequestsPerSecond < 0:
		return fmt.Errorf("embedder.requests_per_second must not be negative, got %g", c.Embedder.RequestsPerSecond)
	case c.Log.Format != "text" && c.Log.Format != "json":
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
