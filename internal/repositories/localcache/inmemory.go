package localcache

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu     sync.RWMutex
	scopes map[string]map[string]entities.FavoriteEntity
	locks  scopeLocks
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		scopes: make(map[string]map[string]entities.FavoriteEntity),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// InsertOrReplaceAll upserts rows into one scope
func (r *InMemoryRepository) InsertOrReplaceAll(_ context.Context, input *InsertOrReplaceAllInput) (*InsertOrReplaceAllOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	for _, e := range input.Rows {
		if e == nil || e.Name == "" {
			return nil, errors.InvalidArgument(errNameEmpty)
		}
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	scope := r.scope(input.UserID)
	for _, e := range input.Rows {
		stored := *e
		stored.UserID = input.UserID
		scope[e.Name] = stored
	}

	return &InsertOrReplaceAllOutput{Written: len(input.Rows)}, nil
}

// SelectAll returns every row of a scope ordered by name
func (r *InMemoryRepository) SelectAll(_ context.Context, input *SelectAllInput) (*SelectAllOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return &SelectAllOutput{Rows: r.collect(input.UserID, false)}, nil
}

// SelectFavorites returns a user's favorite rows ordered by name
func (r *InMemoryRepository) SelectFavorites(_ context.Context, input *SelectFavoritesInput) (*SelectFavoritesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return &SelectFavoritesOutput{Rows: r.collect(input.UserID, true)}, nil
}

// SetFavorite upserts or deletes one favorite row
func (r *InMemoryRepository) SetFavorite(_ context.Context, input *SetFavoriteInput) (*SetFavoriteOutput, error) {
	if err := validateSetFavorite(input); err != nil {
		return nil, err
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !input.Favorite {
		delete(r.scopes[input.UserID], input.Entity.Name)
		return &SetFavoriteOutput{}, nil
	}

	r.scope(input.UserID)[input.Entity.Name] = entities.FavoriteEntity{
		Name:       input.Entity.Name,
		UserID:     input.UserID,
		IsFavorite: true,
		Img:        input.Entity.Img,
		Level:      input.Entity.Level,
	}
	return &SetFavoriteOutput{}, nil
}

// ReplaceFavorites clears and refills a user's favorites
func (r *InMemoryRepository) ReplaceFavorites(_ context.Context, input *ReplaceFavoritesInput) (*ReplaceFavoritesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.UserID == ListingScope {
		return nil, errors.InvalidArgument(errListingOnly)
	}
	for _, e := range input.Rows {
		if e == nil || e.Name == "" {
			return nil, errors.InvalidArgument(errNameEmpty)
		}
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	scope := r.scope(input.UserID)
	output := &ReplaceFavoritesOutput{}
	for name, e := range scope {
		if e.IsFavorite {
			delete(scope, name)
			output.Removed++
		}
	}
	for _, e := range input.Rows {
		stored := *e
		stored.UserID = input.UserID
		stored.IsFavorite = true
		scope[e.Name] = stored
	}
	output.Inserted = len(input.Rows)

	return output, nil
}

// DeleteFavoritesForUser removes every row of a user scope
func (r *InMemoryRepository) DeleteFavoritesForUser(_ context.Context, input *DeleteFavoritesForUserInput) (*DeleteFavoritesForUserOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.UserID == ListingScope {
		return nil, errors.InvalidArgument(errListingOnly)
	}

	unlock := r.locks.lock(input.UserID)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := len(r.scopes[input.UserID])
	delete(r.scopes, input.UserID)

	return &DeleteFavoritesForUserOutput{Removed: removed}, nil
}

// ListFavoriteUsers returns user scopes holding favorites, sorted
func (r *InMemoryRepository) ListFavoriteUsers(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []string
	for userID, scope := range r.scopes {
		if userID == ListingScope {
			continue
		}
		for _, e := range scope {
			if e.IsFavorite {
				users = append(users, userID)
				break
			}
		}
	}
	sort.Strings(users)
	return users, nil
}

// scope returns the scope map, creating it. Callers hold mu.
func (r *InMemoryRepository) scope(userID string) map[string]entities.FavoriteEntity {
	scope, ok := r.scopes[userID]
	if !ok {
		scope = make(map[string]entities.FavoriteEntity)
		r.scopes[userID] = scope
	}
	return scope
}

func (r *InMemoryRepository) collect(userID string, favoritesOnly bool) []*entities.FavoriteEntity {
	scope := r.scopes[userID]
	out := make([]*entities.FavoriteEntity, 0, len(scope))
	for _, e := range scope {
		if favoritesOnly && !e.IsFavorite {
			continue
		}
		row := e
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
