// Package listing is the client for the flat creature listing service
package listing

//go:generate mockgen -destination=mock/mock_client.go -package=listingmock github.com/KirkDiggler/digidex/internal/clients/listing Client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
)

// DefaultBaseURL is the public listing endpoint
const DefaultBaseURL = "https://digimon-api.vercel.app/api"

// Client fetches the full entity listing
type Client interface {
	ListEntities(ctx context.Context) ([]*entities.Entity, error)
}

// Config contains configuration options for the listing client.
type Config struct {
	// BaseURL of the listing API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// HTTPClient to use (optional, one is built from HTTPTimeout)
	HTTPClient *http.Client
	// HTTPTimeout for API requests (optional, defaults to 15 seconds)
	HTTPTimeout time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}

	vb := errors.NewValidationBuilder()
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		vb.Fieldf("BaseURL", "invalid url %q", cfg.BaseURL)
	}
	return vb.Build()
}

type client struct {
	baseURL string
	http    *http.Client
}

// New creates a new listing client with the given configuration.
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

	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}, nil
}

type entityResponse struct {
	Name  string `json:"name"`
	Img   string `json:"img"`
	Level string `json:"level"`
}

func (c *client) ListEntities(ctx context.Context) ([]*entities.Entity, error) {
	u := c.baseURL + "/digimon"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "listing request aborted")
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "listing request failed").
			WithMeta("url", u)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Newf(errors.CodeFromHTTPStatus(resp.StatusCode),
			"listing responded %d", resp.StatusCode).
			WithMeta("status", resp.StatusCode)
	}

	var body []entityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decode listing response")
	}

	out := make([]*entities.Entity, 0, len(body))
	for _, e := range body {
		if e.Name == "" {
			continue
		}
		out = append(out, &entities.Entity{
			Name:  e.Name,
			Img:   e.Img,
			Level: e.Level,
		})
	}

	slog.DebugContext(ctx, "fetched entity listing",
		"entities", len(out),
		"skipped", len(body)-len(out))

	return out, nil
}
