// Package config loads process configuration from an optional YAML file,
// an optional .env file and DIGIDEX_* environment variables.
//
// Precedence, highest first: bound command flags, environment, config file,
// defaults. Keys are dotted ("catalog.base_url") and map to environment
// variables by upper-casing and replacing dots with underscores
// (DIGIDEX_CATALOG_BASE_URL).
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/digidex/internal/clients/catalog"
	"github.com/KirkDiggler/digidex/internal/clients/listing"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/orchestrators/resolver"
	"github.com/KirkDiggler/digidex/internal/outbox"
	"github.com/KirkDiggler/digidex/internal/pagewalker"
)

// EnvPrefix prefixes every environment variable
const EnvPrefix = "DIGIDEX"

// Config is the full process configuration
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Listing  ListingConfig  `mapstructure:"listing"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
	Identity IdentityConfig `mapstructure:"identity"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// CatalogConfig configures the paginated catalog client
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	PageSize          int           `mapstructure:"page_size"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// ListingConfig configures the flat listing client
type ListingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ResolverConfig configures name resolution
type ResolverConfig struct {
	HighConfidence float64 `mapstructure:"high_confidence"`
	BestEffort     float64 `mapstructure:"best_effort"`
	MaxPages       int     `mapstructure:"max_pages"`
	DirectLookup   bool    `mapstructure:"direct_lookup"`
	// Overrides are "source=target" pairs added to the built-in table. Keys
	// are kept as a list because viper lower-cases map keys.
	Overrides []string `mapstructure:"overrides"`
}

// OverrideMap parses Overrides
func (r ResolverConfig) OverrideMap() (map[string]string, error) {
	out := make(map[string]string, len(r.Overrides))
	for _, pair := range r.Overrides {
		source, target, ok := strings.Cut(pair, "=")
		source, target = strings.TrimSpace(source), strings.TrimSpace(target)
		if !ok || source == "" || target == "" {
			return nil, errors.InvalidArgumentf("malformed override %q, want source=target", pair)
		}
		out[source] = target
	}
	return out, nil
}

// RedisConfig configures the remote favorites store. An empty address keeps
// favorites in process memory.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// CacheConfig configures the local SQLite cache. An empty path keeps the
// cache in process memory.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// OutboxConfig configures remote push retries
type OutboxConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
	MaxBackoff  time.Duration `mapstructure:"max_backoff"`
}

// IdentityConfig lists "credential=user" pairs. Empty trusts the credential
// as the user ID.
type IdentityConfig struct {
	Users string `mapstructure:"users"`
}

// ServerConfig configures the listeners of the server command
type ServerConfig struct {
	GRPCPort    int `mapstructure:"grpc_port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.base_url", catalog.DefaultBaseURL)
	v.SetDefault("catalog.page_size", 0)
	v.SetDefault("catalog.timeout", 15*time.Second)
	v.SetDefault("catalog.requests_per_second", 0.0)
	v.SetDefault("catalog.cache_ttl", time.Hour)
	v.SetDefault("catalog.user_agent", "digidex")

	v.SetDefault("listing.base_url", listing.DefaultBaseURL)
	v.SetDefault("listing.timeout", 15*time.Second)

	v.SetDefault("resolver.high_confidence", resolver.DefaultHighConfidenceThreshold)
	v.SetDefault("resolver.best_effort", resolver.DefaultBestEffortThreshold)
	v.SetDefault("resolver.max_pages", pagewalker.DefaultMaxPages)
	v.SetDefault("resolver.direct_lookup", true)
	v.SetDefault("resolver.overrides", []string{})

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.use_tls", false)

	v.SetDefault("cache.path", "digidex.db")

	v.SetDefault("outbox.max_attempts", outbox.DefaultMaxAttempts)
	v.SetDefault("outbox.backoff", outbox.DefaultBackoff)
	v.SetDefault("outbox.max_backoff", outbox.DefaultMaxBackoff)

	v.SetDefault("identity.users", "")

	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.metrics_port", 9090)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadDotEnv loads variables from a .env file into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}

// Load reads the optional config file into v and decodes the result
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to read config file %s", path)
		}
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the component constructors cannot
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Server.GRPCPort <= 0 || c.Server.GRPCPort > 65535 {
		vb.Fieldf("server.grpc_port", "must be a valid port, got %d", c.Server.GRPCPort)
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		vb.Fieldf("server.metrics_port", "must be a valid port or 0 to disable, got %d", c.Server.MetricsPort)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		vb.Fieldf("log.level", "must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if _, err := c.Resolver.OverrideMap(); err != nil {
		vb.Fieldf("resolver.overrides", "%s", errors.GetMessage(err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		vb.Fieldf("log.format", "must be text or json, got %q", c.Log.Format)
	}

	return vb.Build()
}

// LogLevel returns the configured slog level
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
