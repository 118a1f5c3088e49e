// Package pagewalker iterates the catalog listing one page at a time.
//
// A Walker requests pages 0, 1, 2, ... and stops when the catalog reports no
// next page, a fetch fails, the context is done, or MaxPages pages have been
// read. A failed fetch ends the walk without being fatal: the error is kept
// for Err and the caller simply sees no more pages.
//
//	w := pagewalker.New(cfg)
//	for w.Next(ctx) {
//		for _, c := range w.Page().Content { ... }
//	}
//	if err := w.Err(); err != nil { ... }
package pagewalker

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/digidex/internal/clients/catalog"
	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/metrics"
)

// DefaultMaxPages bounds a walk when no limit is configured
const DefaultMaxPages = 1000

// Config configures a Walker
type Config struct {
	Client   catalog.Client
	MaxPages int
	Metrics  *metrics.ResolverMetrics
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Client == nil {
		vb.RequiredField("Client")
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.MaxPages < 0 {
		vb.Fieldf("MaxPages", "must be positive, got %d", cfg.MaxPages)
	}
	return vb.Build()
}

// Walker is a lazy, restartable sequence of catalog pages. It holds at most
// one page and is not safe for concurrent use.
type Walker struct {
	client   catalog.Client
	maxPages int
	metrics  *metrics.ResolverMetrics

	next    int
	page    *entities.Page
	last    bool
	done    bool
	err     error
	fetched int
}

// New creates a walker positioned before page 0
func New(cfg *Config) (*Walker, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Walker{
		client:   cfg.Client,
		maxPages: cfg.MaxPages,
		metrics:  cfg.Metrics,
	}, nil
}

// Next fetches the next page and reports whether one is available
func (w *Walker) Next(ctx context.Context) bool {
	if w.done {
		return false
	}
	if w.last {
		w.stop(nil)
		return false
	}
	if w.fetched >= w.maxPages {
		slog.WarnContext(ctx, "catalog walk reached page limit", "max_pages", w.maxPages)
		w.stop(nil)
		return false
	}
	if err := ctx.Err(); err != nil {
		w.stop(errors.Wrap(err, "catalog walk stopped"))
		return false
	}

	index := w.next
	page, err := w.client.GetPage(ctx, index)
	if err != nil {
		w.metrics.RecordPageFetch(metrics.StatusError)
		slog.WarnContext(ctx, "catalog page fetch failed, ending walk",
			"page", index,
			"error", err)
		w.stop(errors.Wrapf(err, "failed to fetch page %d", index))
		return false
	}
	w.metrics.RecordPageFetch(metrics.StatusSuccess)

	w.page = page
	w.fetched++
	w.next = index + 1
	w.last = !page.HasNext
	return true
}

// Page returns the page loaded by the last successful Next
func (w *Walker) Page() *entities.Page {
	return w.page
}

// Err returns the failure that ended the walk, if any
func (w *Walker) Err() error {
	return w.err
}

// PagesFetched returns how many pages were read since the last Reset
func (w *Walker) PagesFetched() int {
	return w.fetched
}

// Reset restarts the walk from page 0
func (w *Walker) Reset() {
	w.next = 0
	w.page = nil
	w.last = false
	w.done = false
	w.err = nil
	w.fetched = 0
}

func (w *Walker) stop(err error) {
	w.done = true
	w.page = nil
	w.err = err
}
