// Package resolver maps free-form listing names onto catalog records.
//
// Resolution is a strictly ordered pipeline. The first tier to produce a
// record wins:
//
//  1. override: the name has a manual mapping; only the mapped name is tried
//  2. direct: the catalog knows the raw name as-is
//  3. exact: a walked candidate has the same normalized name
//  4. high confidence: a walked candidate scores at least the high threshold
//  5. best effort: after the whole walk, the best candidate scores at least
//     the best-effort threshold
//
// Within a page the exact scan runs before any fuzzy scoring, so an exact
// match later on a page beats a fuzzy match earlier on it.
package resolver

//go:generate mockgen -destination=mock/mock_service.go -package=resolvermock github.com/KirkDiggler/digidex/internal/orchestrators/resolver Service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/KirkDiggler/digidex/internal/clients/catalog"
	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/matching"
	"github.com/KirkDiggler/digidex/internal/metrics"
	"github.com/KirkDiggler/digidex/internal/overrides"
	"github.com/KirkDiggler/digidex/internal/pagewalker"
)

const (
	// DefaultHighConfidenceThreshold accepts a candidate mid-walk
	DefaultHighConfidenceThreshold = 0.88
	// DefaultBestEffortThreshold accepts the best candidate after the walk
	DefaultBestEffortThreshold = 0.74
)

// Service resolves listing names against the catalog
type Service interface {
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)
}

// Config holds the dependencies for the resolver
type Config struct {
	Catalog   catalog.Client
	Overrides *overrides.Table

	// Thresholds default to the package defaults when zero
	HighConfidenceThreshold float64
	BestEffortThreshold     float64

	// MaxPages bounds the catalog walk, defaults to pagewalker.DefaultMaxPages
	MaxPages int

	// DisableDirectLookup skips the by-name fetch of the raw name
	DisableDirectLookup bool

	Metrics *metrics.ResolverMetrics
}

// Validate ensures all required dependencies are provided and sets defaults
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Overrides == nil {
		c.Overrides = overrides.New(nil)
	}
	if c.HighConfidenceThreshold == 0 {
		c.HighConfidenceThreshold = DefaultHighConfidenceThreshold
	}
	if c.BestEffortThreshold == 0 {
		c.BestEffortThreshold = DefaultBestEffortThreshold
	}
	if c.HighConfidenceThreshold < 0 || c.HighConfidenceThreshold > 1 {
		vb.Fieldf("HighConfidenceThreshold", "must be in (0, 1], got %v", c.HighConfidenceThreshold)
	}
	if c.BestEffortThreshold < 0 || c.BestEffortThreshold > c.HighConfidenceThreshold {
		vb.Fieldf("BestEffortThreshold", "must be in (0, %v], got %v",
			c.HighConfidenceThreshold, c.BestEffortThreshold)
	}
	if c.MaxPages == 0 {
		c.MaxPages = pagewalker.DefaultMaxPages
	}
	if c.MaxPages < 0 {
		vb.Fieldf("MaxPages", "must be positive, got %d", c.MaxPages)
	}

	return vb.Build()
}

type orchestrator struct {
	catalog        catalog.Client
	overrides      *overrides.Table
	highConfidence float64
	bestEffort     float64
	maxPages       int
	directLookup   bool
	metrics        *metrics.ResolverMetrics
}

// NewOrchestrator creates a new resolver with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		catalog:        cfg.Catalog,
		overrides:      cfg.Overrides,
		highConfidence: cfg.HighConfidenceThreshold,
		bestEffort:     cfg.BestEffortThreshold,
		maxPages:       cfg.MaxPages,
		directLookup:   !cfg.DisableDirectLookup,
		metrics:        cfg.Metrics,
	}, nil
}

// Resolve finds the catalog record for a listing name. Not finding one is
// not an error; errors are returned for empty input and cancellation only.
func (o *orchestrator) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return nil, errors.InvalidArgument("name is required")
	}

	start := time.Now()
	slog.DebugContext(ctx, "resolving name", "name", input.Name)

	output, err := o.resolve(ctx, input.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolution of %q aborted", input.Name)
	}

	o.metrics.RecordResolution(string(output.Tier), time.Since(start))
	slog.InfoContext(ctx, "name resolved",
		"name", input.Name,
		"tier", output.Tier,
		"candidate", output.Candidate,
		"similarity", output.Similarity,
		"pages_walked", output.PagesWalked,
		"duration", time.Since(start))

	return output, nil
}

func (o *orchestrator) resolve(ctx context.Context, name string) (*ResolveOutput, error) {
	// an overridden name is never looked up any other way
	if target, ok := o.overrides.Lookup(name); ok {
		return o.fetchByName(ctx, target, TierOverride)
	}

	if o.directLookup {
		record, err := o.catalog.GetRecordByName(ctx, name)
		if err == nil {
			return &ResolveOutput{Record: record, Tier: TierDirect, Candidate: record.Name, Similarity: 1}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.DebugContext(ctx, "direct lookup missed, walking catalog",
			"name", name,
			"code", errors.GetCode(err))
	}

	return o.walk(ctx, name)
}

type candidate struct {
	summary    entities.CatalogSummary
	similarity float64
}

func (o *orchestrator) walk(ctx context.Context, name string) (*ResolveOutput, error) {
	key := matching.Normalize(name)
	if key == "" {
		// nothing comparable survives normalization
		return notFound(0), nil
	}

	walker, err := pagewalker.New(&pagewalker.Config{
		Client:   o.catalog,
		MaxPages: o.maxPages,
		Metrics:  o.metrics,
	})
	if err != nil {
		return nil, err
	}

	var best *candidate
	scored := 0
	defer func() { o.metrics.RecordCandidates(scored) }()

	for walker.Next(ctx) {
		content := walker.Page().Content
		keys := make([]string, len(content))
		for i, c := range content {
			keys[i] = matching.Normalize(c.Name)
		}

		for i, c := range content {
			if keys[i] == key {
				return o.fetchByID(ctx, &candidate{summary: c, similarity: 1}, TierExact, walker.PagesFetched())
			}
		}

		for i, c := range content {
			similarity := matching.Similarity(key, keys[i])
			scored++
			if matching.MeetsThreshold(similarity, o.highConfidence) {
				return o.fetchByID(ctx, &candidate{summary: c, similarity: similarity}, TierHighConfidence, walker.PagesFetched())
			}
			// strictly greater keeps the first-seen candidate on ties
			if best == nil || similarity > best.similarity {
				best = &candidate{summary: c, similarity: similarity}
			}
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if walkErr := walker.Err(); walkErr != nil {
		slog.WarnContext(ctx, "catalog walk ended early",
			"name", name,
			"pages_walked", walker.PagesFetched(),
			"error", walkErr)
	}

	if best != nil && matching.MeetsThreshold(best.similarity, o.bestEffort) {
		return o.fetchByID(ctx, best, TierBestEffort, walker.PagesFetched())
	}

	if best != nil {
		slog.DebugContext(ctx, "best candidate below threshold",
			"name", name,
			"candidate", best.summary.Name,
			"similarity", best.similarity,
			"threshold", o.bestEffort)
	}

	return notFound(walker.PagesFetched()), nil
}

// fetchByName fetches the exact catalog name selected by a tier. A failed
// fetch is final.
func (o *orchestrator) fetchByName(ctx context.Context, target string, tier Tier) (*ResolveOutput, error) {
	record, err := o.catalog.GetRecordByName(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.WarnContext(ctx, "selected record could not be fetched",
			"tier", tier,
			"target", target,
			"error", err)
		return notFound(0), nil
	}

	return &ResolveOutput{Record: record, Tier: tier, Candidate: target, Similarity: 1}, nil
}

func (o *orchestrator) fetchByID(ctx context.Context, c *candidate, tier Tier, pages int) (*ResolveOutput, error) {
	record, err := o.catalog.GetRecordByID(ctx, c.summary.ID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.WarnContext(ctx, "selected record could not be fetched",
			"tier", tier,
			"candidate", c.summary.Name,
			"id", c.summary.ID,
			"error", err)
		return notFound(pages), nil
	}

	return &ResolveOutput{
		Record:      record,
		Tier:        tier,
		Candidate:   c.summary.Name,
		Similarity:  c.similarity,
		PagesWalked: pages,
	}, nil
}

func notFound(pages int) *ResolveOutput {
	return &ResolveOutput{Tier: TierNone, PagesWalked: pages}
}
