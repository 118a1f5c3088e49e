// Package catalog is the client for the paginated creature catalog service
package catalog

//go:generate mockgen -destination=mock/mock_client.go -package=catalogmock github.com/KirkDiggler/digidex/internal/clients/catalog Client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
)

const (
	// DefaultBaseURL is the public catalog endpoint
	DefaultBaseURL = "https://digi-api.com/api/v1"

	defaultHTTPTimeout = 15 * time.Second
	defaultCacheTTL    = time.Hour
	maxErrorBody       = 512
)

// Client fetches pages and records from the catalog. Cached results are
// returned as copies, so callers may modify what they get back.
type Client interface {
	// GetPage fetches a zero-indexed listing page
	GetPage(ctx context.Context, page int) (*entities.Page, error)

	// GetRecordByID fetches a full record by its catalog id
	GetRecordByID(ctx context.Context, id string) (*entities.CatalogRecord, error)

	// GetRecordByName fetches a full record by its exact catalog name.
	// Returns a NotFound error when the catalog has no such name.
	GetRecordByName(ctx context.Context, name string) (*entities.CatalogRecord, error)
}

// Config contains configuration options for the catalog client.
type Config struct {
	// BaseURL of the catalog API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// PageSize requested per listing page (optional, server default when zero)
	PageSize int
	// HTTPClient to use (optional, one is built from HTTPTimeout)
	HTTPClient *http.Client
	// HTTPTimeout for API requests (optional, defaults to 15 seconds)
	HTTPTimeout time.Duration
	// RequestsPerSecond caps outgoing requests (optional, zero means unlimited)
	RequestsPerSecond float64
	// CacheTTL for fetched pages and records (optional, defaults to 1 hour,
	// negative disables caching)
	CacheTTL time.Duration
	// UserAgent sent with every request (optional)
	UserAgent string
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		vb.Fieldf("BaseURL", "invalid url %q", cfg.BaseURL)
	}
	if cfg.PageSize < 0 {
		vb.Fieldf("PageSize", "must not be negative, got %d", cfg.PageSize)
	}
	if cfg.RequestsPerSecond < 0 {
		vb.Fieldf("RequestsPerSecond", "must not be negative, got %v", cfg.RequestsPerSecond)
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	return vb.Build()
}

type client struct {
	baseURL   string
	pageSize  int
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	cache     *cache.Cache
}

// New creates a new catalog client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	var c *cache.Cache
	if cfg.CacheTTL > 0 {
		c = cache.New(cfg.CacheTTL, cfg.CacheTTL*2)
	}

	slog.Debug("catalog client initialized",
		"base_url", cfg.BaseURL,
		"page_size", cfg.PageSize,
		"rps", cfg.RequestsPerSecond,
		"cache_ttl", cfg.CacheTTL)

	return &client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		pageSize:  cfg.PageSize,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		limiter:   limiter,
		cache:     c,
	}, nil
}

func (c *client) GetPage(ctx context.Context, page int) (*entities.Page, error) {
	if page < 0 {
		return nil, errors.InvalidArgumentf("page must not be negative, got %d", page)
	}

	cacheKey := fmt.Sprintf("page:%d:%d", page, c.pageSize)
	if cached, ok := c.fromCache(cacheKey); ok {
		if p, ok := cached.(*entities.Page); ok {
			return p.Clone(), nil
		}
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if c.pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(c.pageSize))
	}

	var resp pageResponse
	if err := c.getJSON(ctx, "/digimon", query, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch catalog page %d", page).
			WithMeta("page", page)
	}

	p := resp.toPage(page)
	c.toCache(cacheKey, p.Clone())

	slog.DebugContext(ctx, "fetched catalog page",
		"page", p.CurrentPage,
		"entries", len(p.Content),
		"has_next", p.HasNext)

	return p, nil
}

func (c *client) GetRecordByID(ctx context.Context, id string) (*entities.CatalogRecord, error) {
	if id == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	return c.getRecord(ctx, "id:"+id, id)
}

func (c *client) GetRecordByName(ctx context.Context, name string) (*entities.CatalogRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidArgument("name is required")
	}
	return c.getRecord(ctx, "name:"+name, name)
}

// getRecord fetches /digimon/{key}; the catalog serves both ids and names
// on the same path.
func (c *client) getRecord(ctx context.Context, cacheKey, key string) (*entities.CatalogRecord, error) {
	if cached, ok := c.fromCache(cacheKey); ok {
		if r, ok := cached.(*entities.CatalogRecord); ok {
			return r.Clone(), nil
		}
	}

	var resp recordResponse
	err := c.getJSON(ctx, "/digimon/"+url.PathEscape(key), nil, &resp)
	if err != nil {
		// the catalog answers 400 for names it cannot parse as ids or names
		if errors.IsNotFound(err) || errors.IsInvalidArgument(err) {
			return nil, errors.WrapWithCodef(err, errors.CodeNotFound, "catalog record %q not found", key).
				WithMeta("key", key)
		}
		return nil, errors.Wrapf(err, "failed to fetch catalog record %q", key).
			WithMeta("key", key)
	}

	record := resp.toRecord()
	c.toCache(cacheKey, record.Clone())

	return record, nil
}

func (c *client) getJSON(ctx context.Context, path string, query url.Values, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait aborted")
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "catalog request aborted")
		}
		return errors.WrapWithCode(err, errors.CodeUnavailable, "catalog request failed").
			WithMeta("url", u)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.Newf(errors.CodeFromHTTPStatus(resp.StatusCode),
			"catalog responded %d", resp.StatusCode).
			WithMeta("status", resp.StatusCode).
			WithMeta("url", u).
			WithMeta("body", strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decode catalog response").
			WithMeta("url", u)
	}

	return nil
}

func (c *client) fromCache(key string) (interface{}, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *client) toCache(key string, value interface{}) {
	if c.cache == nil {
		return
	}
	c.cache.Set(key, value, cache.DefaultExpiration)
}
