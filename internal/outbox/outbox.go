// Package outbox queues remote favorite pushes and delivers them with
// bounded retries.
//
// Entries for the same user and name are delivered in enqueue order: a later
// entry waits while an earlier one for the same document is still pending.
// Entries that keep failing are retried with exponential backoff up to
// MaxAttempts and then marked failed, keeping the last error.
package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/metrics"
	"github.com/KirkDiggler/digidex/internal/pkg/clock"
	"github.com/KirkDiggler/digidex/internal/pkg/idgen"
	"github.com/KirkDiggler/digidex/internal/repositories/favorites"
)

const (
	// DefaultMaxAttempts bounds delivery attempts per entry
	DefaultMaxAttempts = 5
	// DefaultBackoff is the delay after the first failed attempt
	DefaultBackoff = time.Second
	// DefaultMaxBackoff caps the retry delay
	DefaultMaxBackoff = time.Minute
	// DefaultPollInterval is how often Run looks for due retries
	DefaultPollInterval = 250 * time.Millisecond
	// DefaultMaxHistory bounds how many finished entries are kept
	DefaultMaxHistory = 1000
)

// Config holds the dependencies for the outbox
type Config struct {
	Store        favorites.Repository
	IDGenerator  idgen.Generator
	Clock        clock.Clock
	MaxAttempts  int
	Backoff      time.Duration
	MaxBackoff   time.Duration
	PollInterval time.Duration
	MaxHistory   int
	Metrics      *metrics.OutboxMetrics
}

// Validate ensures all required dependencies are provided and sets defaults
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.IDGenerator == nil {
		c.IDGenerator = idgen.NewUUID("push")
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.MaxAttempts < 0 {
		vb.Fieldf("MaxAttempts", "must be positive, got %d", c.MaxAttempts)
	}
	if c.Backoff == 0 {
		c.Backoff = DefaultBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.Backoff < 0 || c.MaxBackoff < c.Backoff {
		vb.Fieldf("Backoff", "must be positive and at most MaxBackoff, got %v", c.Backoff)
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxHistory <= 0 {
		c.MaxHistory = DefaultMaxHistory
	}

	return vb.Build()
}

// Outbox is an in-memory queue of remote pushes. It is safe for concurrent use.
type Outbox struct {
	store        favorites.Repository
	idGen        idgen.Generator
	clock        clock.Clock
	maxAttempts  int
	backoff      time.Duration
	maxBackoff   time.Duration
	pollInterval time.Duration
	maxHistory   int
	metrics      *metrics.OutboxMetrics

	mu      sync.Mutex
	entries []*Entry
	byID    map[string]*Entry

	// flushMu keeps delivery passes from overlapping
	flushMu sync.Mutex
	notify  chan struct{}
}

// New creates an empty outbox
func New(cfg *Config) (*Outbox, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Outbox{
		store:        cfg.Store,
		idGen:        cfg.IDGenerator,
		clock:        cfg.Clock,
		maxAttempts:  cfg.MaxAttempts,
		backoff:      cfg.Backoff,
		maxBackoff:   cfg.MaxBackoff,
		pollInterval: cfg.PollInterval,
		maxHistory:   cfg.MaxHistory,
		metrics:      cfg.Metrics,
		byID:         make(map[string]*Entry),
		notify:       make(chan struct{}, 1),
	}, nil
}

// Enqueue queues a push and wakes the worker. It never contacts the store.
func (o *Outbox) Enqueue(_ context.Context, input *EnqueueInput) (*Entry, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}
	if input.Document == nil || input.Document.Name == "" {
		return nil, errors.InvalidArgument("document name cannot be empty")
	}
	if input.Op != OpSet && input.Op != OpDelete {
		return nil, errors.InvalidArgumentf("unknown op %q", input.Op)
	}

	now := o.clock.Now()
	entry := &Entry{
		ID:            o.idGen.Generate(),
		UserID:        input.UserID,
		Op:            input.Op,
		Document:      *input.Document,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		NextAttemptAt: now,
	}

	o.mu.Lock()
	o.entries = append(o.entries, entry)
	o.byID[entry.ID] = entry
	pending := o.pendingLocked()
	o.mu.Unlock()

	o.metrics.SetPending(pending)

	select {
	case o.notify <- struct{}{}:
	default:
	}

	snapshot := *entry
	return &snapshot, nil
}

// Status returns a snapshot of the entry with the given id
func (o *Outbox) Status(id string) (*Entry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.byID[id]
	if !ok {
		return nil, false
	}
	snapshot := *entry
	return &snapshot, true
}

// Entries returns snapshots of every retained entry in enqueue order
func (o *Outbox) Entries() []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Entry, 0, len(o.entries))
	for _, e := range o.entries {
		out = append(out, *e)
	}
	return out
}

// Pending returns the number of entries not yet delivered or failed
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pendingLocked()
}

// Flush makes one delivery attempt for every due pending entry
func (o *Outbox) Flush(ctx context.Context) (*FlushOutput, error) {
	o.flushMu.Lock()
	defer o.flushMu.Unlock()

	output := &FlushOutput{}
	for _, entry := range o.due() {
		if err := ctx.Err(); err != nil {
			return o.finish(output), errors.Wrap(err, "flush interrupted")
		}

		switch o.deliver(ctx, entry) {
		case StatusDelivered:
			output.Delivered++
		case StatusFailed:
			output.Failed++
		default:
			output.Retrying++
		}
	}

	return o.finish(output), nil
}

// Drain flushes until nothing is pending or ctx is done. Between passes it
// sleeps until the next retry is due, but never longer than the poll interval,
// so due times are re-read from the configured clock.
func (o *Outbox) Drain(ctx context.Context) (*FlushOutput, error) {
	total := &FlushOutput{}
	for {
		out, err := o.Flush(ctx)
		if out != nil {
			total.Delivered += out.Delivered
			total.Failed += out.Failed
			total.Retrying += out.Retrying
			total.Pending = out.Pending
		}
		if err != nil {
			return total, err
		}
		if total.Pending == 0 {
			return total, nil
		}

		timer := time.NewTimer(min(o.untilNextDue(), o.pollInterval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return total, errors.Wrap(ctx.Err(), "drain interrupted")
		case <-timer.C:
		}
	}
}

// Run delivers entries as they are enqueued and retries them as they come
// due. It returns when ctx is done.
func (o *Outbox) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	slog.DebugContext(ctx, "outbox worker started", "poll_interval", o.pollInterval)
	for {
		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "outbox worker stopped", "pending", o.Pending())
			return nil
		case <-o.notify:
		case <-ticker.C:
		}

		if _, err := o.Flush(ctx); err != nil && ctx.Err() == nil {
			slog.WarnContext(ctx, "outbox flush failed", "error", err)
		}
	}
}

// due returns pending entries whose retry time has come and that are not
// queued behind an earlier pending entry for the same document
func (o *Outbox) due() []*Entry {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	blocked := make(map[string]bool)
	var out []*Entry
	for _, e := range o.entries {
		if e.Status != StatusPending {
			continue
		}
		key := e.key()
		if blocked[key] {
			continue
		}
		blocked[key] = true
		if !e.NextAttemptAt.After(now) {
			out = append(out, e)
		}
	}
	return out
}

func (o *Outbox) deliver(ctx context.Context, entry *Entry) Status {
	var err error
	switch entry.Op {
	case OpSet:
		doc := entry.Document
		_, err = o.store.Set(ctx, &favorites.SetInput{UserID: entry.UserID, Document: &doc})
	case OpDelete:
		_, err = o.store.Delete(ctx, &favorites.DeleteInput{UserID: entry.UserID, Name: entry.Document.Name})
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	entry.Attempts++
	entry.UpdatedAt = now

	if err == nil {
		entry.Status = StatusDelivered
		entry.LastError = ""
		o.metrics.RecordPush(string(entry.Op), string(StatusDelivered))
		slog.DebugContext(ctx, "favorite push delivered",
			"id", entry.ID,
			"user_id", entry.UserID,
			"op", entry.Op,
			"name", entry.Document.Name,
			"attempts", entry.Attempts)
		return entry.Status
	}

	entry.LastError = err.Error()
	// malformed pushes never succeed, and nothing is retried past the limit
	if errors.IsInvalidArgument(err) || entry.Attempts >= o.maxAttempts {
		entry.Status = StatusFailed
		o.metrics.RecordPush(string(entry.Op), string(StatusFailed))
		slog.ErrorContext(ctx, "favorite push failed permanently",
			"id", entry.ID,
			"user_id", entry.UserID,
			"op", entry.Op,
			"name", entry.Document.Name,
			"attempts", entry.Attempts,
			"error", err)
		return entry.Status
	}

	entry.NextAttemptAt = now.Add(o.backoffFor(entry.Attempts))
	o.metrics.RecordPush(string(entry.Op), "retry")
	slog.WarnContext(ctx, "favorite push failed, will retry",
		"id", entry.ID,
		"user_id", entry.UserID,
		"op", entry.Op,
		"name", entry.Document.Name,
		"attempts", entry.Attempts,
		"next_attempt_at", entry.NextAttemptAt,
		"error", err)
	return entry.Status
}

// backoffFor returns the delay after the given number of failed attempts
func (o *Outbox) backoffFor(attempts int) time.Duration {
	d := o.backoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= o.maxBackoff {
			return o.maxBackoff
		}
	}
	return d
}

func (o *Outbox) untilNextDue() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	var next time.Time
	for _, e := range o.entries {
		if e.Status != StatusPending {
			continue
		}
		if next.IsZero() || e.NextAttemptAt.Before(next) {
			next = e.NextAttemptAt
		}
	}
	if wait := next.Sub(now); wait > 0 {
		return wait
	}
	return time.Millisecond
}

// finish records the pending depth and trims delivered history
func (o *Outbox) finish(output *FlushOutput) *FlushOutput {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.trimLocked()
	output.Pending = o.pendingLocked()
	o.metrics.SetPending(output.Pending)
	return output
}

func (o *Outbox) trimLocked() {
	finished := 0
	for _, e := range o.entries {
		if e.Status != StatusPending {
			finished++
		}
	}
	excess := finished - o.maxHistory
	if excess <= 0 {
		return
	}

	kept := o.entries[:0]
	for _, e := range o.entries {
		if excess > 0 && e.Status != StatusPending {
			delete(o.byID, e.ID)
			excess--
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(o.entries); i++ {
		o.entries[i] = nil
	}
	o.entries = kept
}

func (o *Outbox) pendingLocked() int {
	n := 0
	for _, e := range o.entries {
		if e.Status == StatusPending {
			n++
		}
	}
	return n
}
