package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/digidex/internal/clients/catalog"
	"github.com/KirkDiggler/digidex/internal/clients/listing"
	"github.com/KirkDiggler/digidex/internal/config"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/identity"
	"github.com/KirkDiggler/digidex/internal/metrics"
	"github.com/KirkDiggler/digidex/internal/orchestrators/favorites"
	"github.com/KirkDiggler/digidex/internal/orchestrators/resolver"
	"github.com/KirkDiggler/digidex/internal/outbox"
	"github.com/KirkDiggler/digidex/internal/overrides"
	"github.com/KirkDiggler/digidex/internal/redis"
	favoritesrepo "github.com/KirkDiggler/digidex/internal/repositories/favorites"
	"github.com/KirkDiggler/digidex/internal/repositories/localcache"
)

// app holds the wired components shared by every command
type app struct {
	resolver  resolver.Service
	favorites favorites.Service
	outbox    *outbox.Outbox
	identity  identity.Provider

	closers []func() error
}

type appOptions struct {
	// registry receives the collectors, nil skips metrics
	registry prometheus.Registerer
	// deliverInBackground runs the push worker during a session
	deliverInBackground bool
}

func newApp(ctx context.Context, c *config.Config, opts appOptions) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	var (
		resolverMetrics *metrics.ResolverMetrics
		outboxMetrics   *metrics.OutboxMetrics
	)
	if opts.registry != nil {
		var err error
		if resolverMetrics, err = metrics.NewResolverMetrics(opts.registry); err != nil {
			return nil, err
		}
		if outboxMetrics, err = metrics.NewOutboxMetrics(opts.registry); err != nil {
			return nil, err
		}
	}

	catalogClient, err := catalog.New(&catalog.Config{
		BaseURL:           c.Catalog.BaseURL,
		PageSize:          c.Catalog.PageSize,
		HTTPTimeout:       c.Catalog.Timeout,
		RequestsPerSecond: c.Catalog.RequestsPerSecond,
		CacheTTL:          c.Catalog.CacheTTL,
		UserAgent:         c.Catalog.UserAgent,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create catalog client")
	}

	extra, err := c.Resolver.OverrideMap()
	if err != nil {
		return nil, err
	}
	a.resolver, err = resolver.NewOrchestrator(&resolver.Config{
		Catalog:                 catalogClient,
		Overrides:               overrides.New(extra),
		HighConfidenceThreshold: c.Resolver.HighConfidence,
		BestEffortThreshold:     c.Resolver.BestEffort,
		MaxPages:                c.Resolver.MaxPages,
		DisableDirectLookup:     !c.Resolver.DirectLookup,
		Metrics:                 resolverMetrics,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resolver")
	}

	listingClient, err := listing.New(&listing.Config{
		BaseURL:     c.Listing.BaseURL,
		HTTPTimeout: c.Listing.Timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create listing client")
	}

	remote, err := a.newRemote(ctx, c)
	if err != nil {
		return nil, err
	}

	cache, err := a.newCache(c)
	if err != nil {
		return nil, err
	}

	a.outbox, err = outbox.New(&outbox.Config{
		Store:       remote,
		MaxAttempts: c.Outbox.MaxAttempts,
		Backoff:     c.Outbox.Backoff,
		MaxBackoff:  c.Outbox.MaxBackoff,
		Metrics:     outboxMetrics,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create outbox")
	}

	a.favorites, err = favorites.NewOrchestrator(&favorites.Config{
		Listing:             listingClient,
		Cache:               cache,
		Remote:              remote,
		Outbox:              a.outbox,
		DeliverInBackground: opts.deliverInBackground,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create favorites synchronizer")
	}

	a.identity, err = identity.ParseStatic(c.Identity.Users)
	if err != nil {
		return nil, err
	}

	ok = true
	return a, nil
}

func (a *app) newRemote(ctx context.Context, c *config.Config) (favoritesrepo.Repository, error) {
	if c.Redis.Address == "" {
		slog.Info("no redis address configured, remote favorites kept in memory")
		return favoritesrepo.NewInMemoryRepository(), nil
	}

	client, err := redis.NewClient(c.Redis.Address, &redis.Options{
		Password:    c.Redis.Password,
		DB:          c.Redis.DB,
		UseTLS:      c.Redis.UseTLS,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}
	a.closers = append(a.closers, client.Close)

	// an unreachable store is not fatal; pulls fail and pushes retry
	if err := redis.Ping(ctx, client, 2*time.Second); err != nil {
		slog.Warn("redis not reachable, favorites sync will retry", "address", c.Redis.Address, "error", err)
	}

	return favoritesrepo.NewRedisRepository(&favoritesrepo.Config{Client: client})
}

func (a *app) newCache(c *config.Config) (localcache.Repository, error) {
	if c.Cache.Path == "" {
		return localcache.NewInMemory(), nil
	}

	repo, err := localcache.NewSQLiteRepository(&localcache.Config{Path: c.Cache.Path})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open local cache")
	}
	a.closers = append(a.closers, repo.Close)
	return repo, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
