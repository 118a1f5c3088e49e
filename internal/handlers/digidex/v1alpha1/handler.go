// Package v1alpha1 handles the grpc service interface
package v1alpha1

import (
	"context"
	"log/slog"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/identity"
	"github.com/KirkDiggler/digidex/internal/orchestrators/favorites"
	"github.com/KirkDiggler/digidex/internal/orchestrators/resolver"
	"github.com/KirkDiggler/digidex/internal/session"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	Resolver  resolver.Service
	Favorites favorites.Service
	Identity  identity.Provider
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Favorites == nil {
		vb.RequiredField("Favorites")
	}
	if c.Identity == nil {
		vb.RequiredField("Identity")
	}
	return vb.Build()
}

// Handler implements DigidexServiceServer
type Handler struct {
	resolver  resolver.Service
	favorites favorites.Service
	identity  identity.Provider
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		resolver:  cfg.Resolver,
		favorites: cfg.Favorites,
		identity:  cfg.Identity,
	}, nil
}

var _ DigidexServiceServer = (*Handler)(nil)

// ResolveEntity maps a listing name onto a catalog record. A miss is a
// successful response with found=false.
func (h *Handler) ResolveEntity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := stringField(req, "name")
	if name == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("name is required"))
	}

	output, err := h.resolver.Resolve(ctx, &resolver.ResolveInput{Name: name})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(resolveResponse(name, output))
}

// BeginSession authenticates the credential and syncs the user's favorites
func (h *Handler) BeginSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.identity.Authenticate(ctx, stringField(req, "credential"))
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.favorites.Login(ctx, &favorites.LoginInput{UserID: userID})
	if err != nil {
		slog.WarnContext(ctx, "begin session failed", "user_id", userID, "error", err)
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(map[string]interface{}{
		"user_id":      output.UserID,
		"state":        string(session.StateSynced),
		"entity_count": len(output.Entities),
		"favorites":    output.Favorites,
		"offline":      output.Offline,
		"sync_failed":  output.SyncFailed,
		"skipped":      output.Skipped,
		"dropped":      output.Dropped,
	})
}

// EndSession logs the current user out
func (h *Handler) EndSession(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	output, err := h.favorites.Logout(ctx, &favorites.LogoutInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(map[string]interface{}{
		"user_id": output.UserID,
		"removed": output.Removed,
	})
}

// ToggleFavorite flips the favorite flag of a named entity
func (h *Handler) ToggleFavorite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := stringField(req, "name")
	if name == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("name is required"))
	}

	output, err := h.favorites.Toggle(ctx, &favorites.ToggleInput{Name: name})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(map[string]interface{}{
		"entity":  entityMap(output.Entity),
		"push_id": output.PushID,
	})
}

// ListEntities returns the filtered and sorted entity list
func (h *Handler) ListEntities(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	output, err := h.favorites.ListEntities(ctx, &favorites.ListEntitiesInput{
		Search:        stringField(req, "search"),
		Level:         stringField(req, "level"),
		SortBy:        favorites.SortField(stringField(req, "sort_by")),
		Descending:    boolField(req, "descending"),
		FavoritesOnly: boolField(req, "favorites_only"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	list := make([]interface{}, 0, len(output.Entities))
	for _, e := range output.Entities {
		list = append(list, entityMap(e))
	}

	return toStruct(map[string]interface{}{
		"entities": list,
		"levels":   stringList(output.Levels),
	})
}
