// Package favorites provides the remote per-user favorites store. Each user
// owns a collection of documents keyed by entity name.
package favorites

import (
	"context"

	"github.com/KirkDiggler/digidex/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=favoritesmock github.com/KirkDiggler/digidex/internal/repositories/favorites Repository

// Repository stores remote favorite documents
type Repository interface {
	// GetAll returns every document stored for the user. Documents that
	// cannot be decoded are skipped and counted, not returned as errors.
	GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error)

	// Set upserts the document for Document.Name
	Set(ctx context.Context, input *SetInput) (*SetOutput, error)

	// Delete removes the named document; deleting a missing one succeeds
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// GetAllInput contains parameters for listing a user's documents
type GetAllInput struct {
	UserID string
}

// GetAllOutput contains a user's documents
type GetAllOutput struct {
	Documents []*entities.FavoriteDocument
	// Skipped counts stored entries that could not be decoded
	Skipped int
}

// SetInput contains parameters for upserting a document
type SetInput struct {
	UserID   string
	Document *entities.FavoriteDocument
}

// SetOutput contains the result of an upsert
type SetOutput struct{}

// DeleteInput contains parameters for removing a document
type DeleteInput struct {
	UserID string
	Name   string
}

// DeleteOutput contains the result of a delete
type DeleteOutput struct {
	Deleted bool
}

const (
	errUserIDEmpty   = "user ID cannot be empty"
	errNameEmpty     = "name cannot be empty"
	errDocumentNil   = "document cannot be nil"
	errDocumentNoKey = "document name cannot be empty"
)
