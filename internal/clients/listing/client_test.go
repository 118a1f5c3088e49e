package listing_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/digidex/internal/clients/listing"
	"github.com/KirkDiggler/digidex/internal/errors"
)

func newTestClient(t *testing.T) (listing.Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	c, err := listing.New(&listing.Config{
		BaseURL:    "https://listing.test/api/",
		HTTPClient: &http.Client{Transport: transport},
	})
	require.NoError(t, err)
	return c, transport
}

func TestListEntities(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, "https://listing.test/api/digimon",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"name": "Koromon", "img": "https://img.test/koromon.jpg", "level": "In Training"},
			{"name": "", "img": "https://img.test/blank.jpg", "level": "Rookie"},
			{"name": "Gatomon", "img": "https://img.test/gatomon.jpg", "level": "Champion"}
		]`))

	got, err := c.ListEntities(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Koromon", got[0].Name)
	assert.Equal(t, "In Training", got[0].Level)
	assert.Equal(t, "Gatomon", got[1].Name)
	assert.False(t, got[1].IsFavorite)
}

func TestListEntitiesFailure(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, "https://listing.test/api/digimon",
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	got, err := c.ListEntities(context.Background())
	assert.Nil(t, got)
	assert.True(t, errors.IsUnavailable(err))
}

func TestListEntitiesMalformed(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, "https://listing.test/api/digimon",
		httpmock.NewStringResponder(http.StatusOK, `{"name": "not a list"}`))

	_, err := c.ListEntities(context.Background())
	assert.True(t, errors.IsUnavailable(err))
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := listing.New(&listing.Config{BaseURL: "not a url"})
	assert.True(t, errors.IsInvalidArgument(err))
}
