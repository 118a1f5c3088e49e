package resolver

import (
	"github.com/KirkDiggler/digidex/internal/entities"
)

// Tier names the stage of the pipeline that produced a resolution
type Tier string

// Resolution tiers, in the order they are tried
const (
	TierNone           Tier = "none"
	TierOverride       Tier = "override"
	TierDirect         Tier = "direct"
	TierExact          Tier = "exact"
	TierHighConfidence Tier = "high_confidence"
	TierBestEffort     Tier = "best_effort"
)

// ResolveInput defines the request for resolving a listing name
type ResolveInput struct {
	Name string
}

// ResolveOutput defines the result of a resolution. A nil Record with
// TierNone means nothing in the catalog matched.
type ResolveOutput struct {
	Record *entities.CatalogRecord
	Tier   Tier
	// Candidate is the catalog name that was selected
	Candidate string
	// Similarity of the selected candidate, 1 for exact tiers
	Similarity  float64
	PagesWalked int
}

// Found reports whether a record was resolved
func (o *ResolveOutput) Found() bool {
	return o != nil && o.Record != nil
}
