// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	catalogmock "github.com/KirkDiggler/digidex/internal/clients/catalog/mock"
	listingmock "github.com/KirkDiggler/digidex/internal/clients/listing/mock"
	"github.com/KirkDiggler/digidex/internal/entities"
)

// ExpectPages expects one GetPage call per page, in page order
func ExpectPages(mockClient *catalogmock.MockClient, pages ...*entities.Page) {
	calls := make([]any, 0, len(pages))
	for _, p := range pages {
		calls = append(calls, mockClient.EXPECT().
			GetPage(gomock.Any(), p.CurrentPage).
			Return(p, nil))
	}
	gomock.InOrder(calls...)
}

// ExpectListing expects a single successful listing fetch
func ExpectListing(mockClient *listingmock.MockClient, list []*entities.Entity) *gomock.Call {
	return mockClient.EXPECT().
		ListEntities(gomock.Any()).
		Return(list, nil)
}
