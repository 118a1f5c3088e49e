package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/digidex/internal/clients/catalog"
	"github.com/KirkDiggler/digidex/internal/config"
	"github.com/KirkDiggler/digidex/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load(config.New(), "")
	s.Require().NoError(err)

	s.Equal(catalog.DefaultBaseURL, cfg.Catalog.BaseURL)
	s.Equal(time.Hour, cfg.Catalog.CacheTTL)
	s.Equal(0.88, cfg.Resolver.HighConfidence)
	s.Equal(0.74, cfg.Resolver.BestEffort)
	s.Equal(1000, cfg.Resolver.MaxPages)
	s.True(cfg.Resolver.DirectLookup)
	s.Empty(cfg.Redis.Address)
	s.Equal("digidex.db", cfg.Cache.Path)
	s.Equal(5, cfg.Outbox.MaxAttempts)
	s.Equal(time.Second, cfg.Outbox.Backoff)
	s.Equal(50051, cfg.Server.GRPCPort)
	s.Equal(slog.LevelInfo, cfg.LogLevel())
}

func (s *ConfigTestSuite) TestFileValues() {
	path := s.write("digidex.yaml", `
catalog:
  page_size: 50
  timeout: 3s
resolver:
  high_confidence: 0.9
  best_effort: 0.8
  direct_lookup: false
  overrides:
    - Dorumon=DORUmon
    - "Gaossmon = Gaossmon (X)"
outbox:
  backoff: 250ms
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(config.New(), path)
	s.Require().NoError(err)

	s.Equal(50, cfg.Catalog.PageSize)
	s.Equal(3*time.Second, cfg.Catalog.Timeout)
	s.Equal(0.9, cfg.Resolver.HighConfidence)
	s.Equal(0.8, cfg.Resolver.BestEffort)
	s.False(cfg.Resolver.DirectLookup)
	overrides, err := cfg.Resolver.OverrideMap()
	s.Require().NoError(err)
	s.Equal(map[string]string{"Dorumon": "DORUmon", "Gaossmon": "Gaossmon (X)"}, overrides)
	s.Equal(250*time.Millisecond, cfg.Outbox.Backoff)
	s.Equal(slog.LevelDebug, cfg.LogLevel())
	s.Equal("json", cfg.Log.Format)
}

func (s *ConfigTestSuite) TestEnvironmentOverridesFile() {
	path := s.write("digidex.yaml", "redis:\n  address: file:6379\n")
	s.T().Setenv("DIGIDEX_REDIS_ADDRESS", "env:6379")
	s.T().Setenv("DIGIDEX_OUTBOX_MAX_ATTEMPTS", "9")

	cfg, err := config.Load(config.New(), path)
	s.Require().NoError(err)

	s.Equal("env:6379", cfg.Redis.Address)
	s.Equal(9, cfg.Outbox.MaxAttempts)
}

func (s *ConfigTestSuite) TestDotEnv() {
	path := s.write(".env", "DIGIDEX_CACHE_PATH=/tmp/from-dotenv.db\n")
	s.T().Setenv("DIGIDEX_CACHE_PATH", "")
	s.Require().NoError(os.Unsetenv("DIGIDEX_CACHE_PATH"))

	s.Require().NoError(config.LoadDotEnv(path))

	cfg, err := config.Load(config.New(), "")
	s.Require().NoError(err)
	s.Equal("/tmp/from-dotenv.db", cfg.Cache.Path)
}

func (s *ConfigTestSuite) TestMissingDotEnvIsIgnored() {
	s.NoError(config.LoadDotEnv(filepath.Join(s.dir, "missing.env")))
	s.NoError(config.LoadDotEnv(""))
}

func (s *ConfigTestSuite) TestMissingConfigFile() {
	_, err := config.Load(config.New(), filepath.Join(s.dir, "missing.yaml"))
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{name: "bad port", env: map[string]string{"DIGIDEX_SERVER_GRPC_PORT": "70000"}, field: "server.grpc_port"},
		{name: "bad level", env: map[string]string{"DIGIDEX_LOG_LEVEL": "loud"}, field: "log.level"},
		{name: "bad override", env: map[string]string{"DIGIDEX_RESOLVER_OVERRIDES": "Agumon"}, field: "resolver.overrides"},
		{name: "bad format", env: map[string]string{"DIGIDEX_LOG_FORMAT": "xml"}, field: "log.format"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			for k, v := range tc.env {
				s.T().Setenv(k, v)
			}

			_, err := config.Load(config.New(), "")
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.field)
		})
	}
}
