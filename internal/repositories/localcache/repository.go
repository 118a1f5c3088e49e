// Package localcache is the device-local store of listing rows and per-user
// favorites. Every call names the user scope it reads or writes; the shared
// listing snapshot lives under ListingScope.
package localcache

import (
	"context"
	"sync"

	"github.com/KirkDiggler/digidex/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=localcachemock github.com/KirkDiggler/digidex/internal/repositories/localcache Repository

// ListingScope holds the last successfully fetched listing. It is never a
// user id and is never purged by favorite operations.
const ListingScope = "__listing__"

// Repository stores cache rows keyed by (user scope, name)
type Repository interface {
	// InsertOrReplaceAll upserts rows into one scope
	InsertOrReplaceAll(ctx context.Context, input *InsertOrReplaceAllInput) (*InsertOrReplaceAllOutput, error)

	// SelectAll returns every row of a scope ordered by name
	SelectAll(ctx context.Context, input *SelectAllInput) (*SelectAllOutput, error)

	// SelectFavorites returns the favorite rows of a user ordered by name
	SelectFavorites(ctx context.Context, input *SelectFavoritesInput) (*SelectFavoritesOutput, error)

	// SetFavorite upserts a favorite row, or deletes it when Favorite is false
	SetFavorite(ctx context.Context, input *SetFavoriteInput) (*SetFavoriteOutput, error)

	// ReplaceFavorites clears a user's favorites and inserts Rows atomically
	ReplaceFavorites(ctx context.Context, input *ReplaceFavoritesInput) (*ReplaceFavoritesOutput, error)

	// DeleteFavoritesForUser removes every favorite row of a user
	DeleteFavoritesForUser(ctx context.Context, input *DeleteFavoritesForUserInput) (*DeleteFavoritesForUserOutput, error)

	// ListFavoriteUsers returns the user scopes that hold favorite rows
	ListFavoriteUsers(ctx context.Context) ([]string, error)
}

// InsertOrReplaceAllInput contains rows to upsert
type InsertOrReplaceAllInput struct {
	UserID string
	Rows   []*entities.FavoriteEntity
}

// InsertOrReplaceAllOutput contains the result of an upsert
type InsertOrReplaceAllOutput struct {
	Written int
}

// SelectAllInput names the scope to read
type SelectAllInput struct {
	UserID string
}

// SelectAllOutput contains the rows of a scope
type SelectAllOutput struct {
	Rows []*entities.FavoriteEntity
}

// SelectFavoritesInput names the user to read
type SelectFavoritesInput struct {
	UserID string
}

// SelectFavoritesOutput contains a user's favorite rows
type SelectFavoritesOutput struct {
	Rows []*entities.FavoriteEntity
}

// SetFavoriteInput contains the toggled entity
type SetFavoriteInput struct {
	UserID   string
	Entity   *entities.Entity
	Favorite bool
}

// SetFavoriteOutput contains the result of a toggle write
type SetFavoriteOutput struct{}

// ReplaceFavoritesInput contains the user's complete favorite set
type ReplaceFavoritesInput struct {
	UserID string
	Rows   []*entities.FavoriteEntity
}

// ReplaceFavoritesOutput contains the result of a replace
type ReplaceFavoritesOutput struct {
	Removed  int
	Inserted int
}

// DeleteFavoritesForUserInput names the user to purge
type DeleteFavoritesForUserInput struct {
	UserID string
}

// DeleteFavoritesForUserOutput contains the number of purged rows
type DeleteFavoritesForUserOutput struct {
	Removed int
}

const (
	errUserIDEmpty = "user ID cannot be empty"
	errEntityNil   = "entity cannot be nil"
	errNameEmpty   = "entity name cannot be empty"
	errListingOnly = "listing scope does not hold favorites"
)

// scopeLocks serializes writes per user scope
type scopeLocks struct {
	locks sync.Map
}

func (s *scopeLocks) lock(scope string) func() {
	v, _ := s.locks.LoadOrStore(scope, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
