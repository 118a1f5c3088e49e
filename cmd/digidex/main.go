// Package main is the entry point for the digidex CLI and gRPC server
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KirkDiggler/digidex/internal/config"
)

var (
	configPath string
	envFile    string

	v   = config.New()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "digidex",
	Short: "Digidex catalog resolver and favorites service",
	Long: `Digidex resolves listing names onto catalog records and keeps per-user
favorites in sync between a local cache and a remote store.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&envFile, "env-file", ".env", "path to a .env file (ignored when missing)")

	// unset flags fall through to env, file and defaults
	bindFlag(flags, "log-level", "log.level", "log level: debug, info, warn or error")
	bindFlag(flags, "log-format", "log.format", "log format: text or json")
	bindFlag(flags, "catalog-url", "catalog.base_url", "catalog API base URL")
	bindFlag(flags, "listing-url", "listing.base_url", "listing API base URL")
	bindFlag(flags, "redis-addr", "redis.address", "redis address for remote favorites, empty keeps them in memory")
	bindFlag(flags, "cache-path", "cache.path", "sqlite file for the local cache, empty keeps it in memory")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func bindFlag(flags *pflag.FlagSet, name, key, usage string) {
	flags.String(name, "", usage)
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	loaded, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	setupLogging(cfg)
	return nil
}

func setupLogging(c *config.Config) {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
