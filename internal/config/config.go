// Package config loads widgetgen settings from a YAML file, a .env file and
// WIDGETGEN_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-widgetgen/pkg/responses"
)

// EnvPrefix namespaces environment overrides: server.addr -> WIDGETGEN_SERVER_ADDR.
const EnvPrefix = "WIDGETGEN"

// Backend names for Service.Backend.
const (
	BackendLLM    = "llm"
	BackendRemote = "remote"
)

// Provider names for LLM.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderEino      = "eino"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Service  ServiceConfig  `mapstructure:"service"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Session  SessionConfig  `mapstructure:"session"`
	Theme    ThemeConfig    `mapstructure:"theme"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServiceConfig struct {
	// Backend selects the generation service: a local model ("llm") or a
	// remote widget API ("remote").
	Backend   string        `mapstructure:"backend"`
	RemoteURL string        `mapstructure:"remote_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Fallback  bool          `mapstructure:"fallback"`
}

type LLMConfig struct {
	Provider  string `mapstructure:"provider"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type RedisConfig struct {
	URL string        `mapstructure:"url"`
	TTL time.Duration `mapstructure:"ttl"`
}

type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	Migrate      bool   `mapstructure:"migrate"`
}

type SessionConfig struct {
	MergePolicy string `mapstructure:"merge_policy"`
}

type ThemeConfig struct {
	Manifest string `mapstructure:"manifest"`
	Name     string `mapstructure:"name"`
	Variant  string `mapstructure:"variant"`
}

// Policy returns the parsed merge policy. Validate guarantees it parses.
func (s SessionConfig) Policy() responses.MergePolicy {
	policy, _ := responses.ParseMergePolicy(s.MergePolicy)
	return policy
}

// Load reads configuration. path may be empty to search for widgetgen.yaml in
// the working directory and ./configs; a missing file is not an error.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("widgetgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	applyProviderKeys(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file or
// environment overrides.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "https://storyweave-ai.vercel.app"})
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("service.backend", BackendLLM)
	v.SetDefault("service.remote_url", "")
	v.SetDefault("service.timeout", 60*time.Second)
	v.SetDefault("service.fallback", true)

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_tokens", 2000)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", time.Hour)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.migrate", true)

	v.SetDefault("session.merge_policy", string(responses.PolicyRetain))

	v.SetDefault("theme.manifest", "")
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
}

// applyProviderKeys falls back to the vendor environment variables when no
// key was configured.
func applyProviderKeys(cfg *Config) {
	if cfg.LLM.APIKey != "" {
		return
	}
	switch cfg.LLM.Provider {
	case ProviderAnthropic:
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Service.Backend {
	case BackendLLM:
		switch c.LLM.Provider {
		case ProviderOpenAI, ProviderAnthropic, ProviderEino:
		default:
			errs = append(errs, fmt.Errorf("llm.provider %q is not one of openai, anthropic, eino", c.LLM.Provider))
		}
	case BackendRemote:
		if strings.TrimSpace(c.Service.RemoteURL) == "" {
			errs = append(errs, errors.New("service.remote_url is required for the remote backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("service.backend %q is not one of llm, remote", c.Service.Backend))
	}
	if _, err := responses.ParseMergePolicy(c.Session.MergePolicy); err != nil {
		errs = append(errs, fmt.Errorf("session.merge_policy: %w", err))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func loadEnvFile() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	_ = godotenv.Load(".env")
}
