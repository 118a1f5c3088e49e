package favorites

import (
	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/session"
)

// SortField names the column ListEntities orders by
type SortField string

// Sort fields
const (
	SortByName  SortField = "name"
	SortByLevel SortField = "level"
)

// LoginInput identifies the user signing in
type LoginInput struct {
	UserID string
}

// LoginOutput describes the synced session
type LoginOutput struct {
	UserID   string
	Entities []*entities.Entity
	// Favorites is the number of entities marked favorite
	Favorites int
	// Offline is set when the list came from the local cache
	Offline bool
	// SyncFailed is set when the remote pull failed and local favorites were kept
	SyncFailed bool
	// Skipped counts remote documents that were undecodable or missing fields
	Skipped int
	// Dropped counts remote documents naming entities absent from the list
	Dropped int
	// Purged counts local rows removed from other users' scopes
	Purged int
}

// ToggleInput names the entity to flip
type ToggleInput struct {
	Name string
}

// ToggleOutput contains the entity after the flip
type ToggleOutput struct {
	Entity *entities.Entity
	// PushID identifies the queued remote push, empty if it could not be queued
	PushID string
}

// LogoutInput is empty; the signed-in user is implied
type LogoutInput struct{}

// LogoutOutput describes the ended session
type LogoutOutput struct {
	UserID  string
	Removed int
}

// ListEntitiesInput filters and orders the entity list
type ListEntitiesInput struct {
	// Search is a case-insensitive substring of the name
	Search string
	// Level keeps only entities at this level; empty keeps all
	Level string
	// SortBy defaults to SortByName
	SortBy     SortField
	Descending bool
	// FavoritesOnly drops non-favorites
	FavoritesOnly bool
}

// ListEntitiesOutput contains the filtered entities, favorites first
type ListEntitiesOutput struct {
	Entities []*entities.Entity
	Levels   []string
}

// StatusOutput describes the current session
type StatusOutput struct {
	UserID string
	State  session.State
}
