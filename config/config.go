// Package config loads carprompt settings from defaults, an optional config
// file, a .env file and CARPROMPT_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/carprompt/ai"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, so "server.addr"
// is read from CARPROMPT_SERVER_ADDR.
const EnvPrefix = "CARPROMPT"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	AI       AIConfig       `mapstructure:"ai"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Search   SearchConfig   `mapstructure:"search"`
	LogLevel string         `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

type AIConfig struct {
	// Offline forces the offline provider even when an API key is set.
	Offline             bool   `mapstructure:"offline"`
	APIKey              string `mapstructure:"api_key"`
	EmbeddingHost       string `mapstructure:"embedding_host"`
	ParserHost          string `mapstructure:"parser_host"`
	EmbeddingModel      string `mapstructure:"embedding_model"`
	ParserModel         string `mapstructure:"parser_model"`
	EmbeddingDimensions int    `mapstructure:"embedding_dimensions"`
}

// CacheConfig configures the Redis embedding cache. An empty Addr disables it.
type CacheConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	SeedSecret string `mapstructure:"seed_secret"`
}

type SearchConfig struct {
	// PoolSize is the ranking worker count; zero means one per CPU.
	PoolSize int `mapstructure:"pool_size"`
}

// Load reads configuration. path names an optional config file (any format
// viper understands, usually TOML); an empty path skips it. A .env file in
// the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The conventional OpenAI variable also works.
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := ai.DefaultConfig()

	v.SetDefault("database.path", "carprompt.db")
	v.SetDefault("database.in_memory", false)
	v.SetDefault("ai.offline", false)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.embedding_host", defaults.EmbeddingHost)
	v.SetDefault("ai.parser_host", defaults.ParserHost)
	v.SetDefault("ai.embedding_model", defaults.EmbeddingModel)
	v.SetDefault("ai.parser_model", defaults.ParserModel)
	v.SetDefault("ai.embedding_dimensions", defaults.EmbeddingDimensions)
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.seed_secret", "dev-secret-123")
	v.SetDefault("search.pool_size", 0)
	v.SetDefault("log_level", "info")
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is required unless database.in_memory is set", ErrInvalidConfig)
	}
	if c.Search.PoolSize < 0 {
		return fmt.Errorf("%w: search.pool_size must not be negative", ErrInvalidConfig)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// UseOffline reports whether the offline AI provider should be used.
func (c *Config) UseOffline() bool {
	return c.AI.Offline || !c.AIConfig().HasCredentials()
}

// AIConfig converts the AI section into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithParserHost(c.AI.ParserHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithParserModel(c.AI.ParserModel),
		ai.WithEmbeddingDimensions(c.AI.EmbeddingDimensions),
	)
}
