// Package favorites keeps a user's favorites in sync between the in-memory
// entity list, the local cache and the remote store.
//
// Local state is authoritative while a session is open. Toggles write the
// local cache before returning and hand the remote write to the outbox.
package favorites

//go:generate mockgen -destination=mock/mock_service.go -package=favoritesmock github.com/KirkDiggler/digidex/internal/orchestrators/favorites Service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/digidex/internal/clients/listing"
	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/outbox"
	favoritesrepo "github.com/KirkDiggler/digidex/internal/repositories/favorites"
	"github.com/KirkDiggler/digidex/internal/repositories/localcache"
	"github.com/KirkDiggler/digidex/internal/session"
)

// Service manages a user session and its favorites
type Service interface {
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Toggle(ctx context.Context, input *ToggleInput) (*ToggleOutput, error)
	Logout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error)
	ListEntities(ctx context.Context, input *ListEntitiesInput) (*ListEntitiesOutput, error)
	Status(ctx context.Context) (*StatusOutput, error)
}

// Config holds the dependencies for the synchronizer
type Config struct {
	Listing listing.Client
	Cache   localcache.Repository
	Remote  favoritesrepo.Repository
	Outbox  *outbox.Outbox

	// Session defaults to a new logged out session
	Session *session.Session

	// DeliverInBackground runs the outbox worker as a session task
	DeliverInBackground bool
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Listing == nil {
		vb.RequiredField("Listing")
	}
	if c.Cache == nil {
		vb.RequiredField("Cache")
	}
	if c.Remote == nil {
		vb.RequiredField("Remote")
	}
	if c.Outbox == nil {
		vb.RequiredField("Outbox")
	}
	if c.Session == nil {
		c.Session = session.New()
	}

	return vb.Build()
}

type orchestrator struct {
	listing             listing.Client
	cache               localcache.Repository
	remote              favoritesrepo.Repository
	outbox              *outbox.Outbox
	session             *session.Session
	deliverInBackground bool

	// mu serializes login, toggle and logout
	mu sync.Mutex

	entMu    sync.RWMutex
	entities []*entities.Entity
}

// NewOrchestrator creates a new synchronizer with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		listing:             cfg.Listing,
		cache:               cfg.Cache,
		remote:              cfg.Remote,
		outbox:              cfg.Outbox,
		session:             cfg.Session,
		deliverInBackground: cfg.DeliverInBackground,
	}, nil
}

// Login ends any open session, then loads the list and the user's remote
// favorites concurrently and reconciles them into the local cache
func (o *orchestrator) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.Unauthenticated("user ID cannot be empty")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.Active() {
		slog.InfoContext(ctx, "ending previous session", "user_id", o.session.UserID())
		o.session.End()
	}

	if _, err := o.session.Begin(ctx, input.UserID); err != nil {
		return nil, err
	}

	output, err := o.sync(ctx, input.UserID)
	if err != nil {
		o.session.End()
		o.setEntities(nil)
		return nil, err
	}

	if err := o.session.Transition(session.StateLoading, session.StateSynced); err != nil {
		o.session.End()
		return nil, errors.Wrap(err, "session changed during login")
	}

	if o.deliverInBackground {
		if err := o.session.Go(func(ctx context.Context) {
			_ = o.outbox.Run(ctx)
		}); err != nil {
			slog.WarnContext(ctx, "failed to start push worker", "error", err)
		}
	}

	slog.InfoContext(ctx, "session synced",
		"user_id", input.UserID,
		"entities", len(output.Entities),
		"favorites", output.Favorites,
		"offline", output.Offline,
		"sync_failed", output.SyncFailed)

	return output, nil
}

func (o *orchestrator) sync(ctx context.Context, userID string) (*LoginOutput, error) {
	purged, err := o.purgeStaleScopes(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		list    []*entities.Entity
		offline bool
		pulled  *favoritesrepo.GetAllOutput
		pullErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, offline, err = o.loadList(gctx)
		return err
	})
	g.Go(func() error {
		// a failed pull keeps local favorites, so it never fails the group
		pulled, pullErr = o.remote.GetAll(gctx, &favoritesrepo.GetAllInput{UserID: userID})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	output := &LoginOutput{
		UserID:  userID,
		Offline: offline,
		Purged:  purged,
	}

	if pullErr != nil {
		output.SyncFailed = true
		slog.WarnContext(ctx, "favorites pull failed, keeping local favorites",
			"user_id", userID,
			"error", pullErr)
	} else {
		if err := o.reconcile(ctx, userID, list, pulled, output); err != nil {
			return nil, err
		}
	}

	favs, err := o.cache.SelectFavorites(ctx, &localcache.SelectFavoritesInput{UserID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read local favorites")
	}

	marked := make(map[string]bool, len(favs.Rows))
	for _, row := range favs.Rows {
		marked[row.Name] = true
	}
	for _, e := range list {
		e.IsFavorite = marked[e.Name]
		if e.IsFavorite {
			output.Favorites++
		}
	}

	o.setEntities(list)
	output.Entities = o.snapshot()
	return output, nil
}

// purgeStaleScopes removes favorite rows left behind by other users
func (o *orchestrator) purgeStaleScopes(ctx context.Context, userID string) (int, error) {
	users, err := o.cache.ListFavoriteUsers(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list cached users")
	}

	purged := 0
	for _, other := range users {
		if other == userID {
			continue
		}
		out, err := o.cache.DeleteFavoritesForUser(ctx, &localcache.DeleteFavoritesForUserInput{UserID: other})
		if err != nil {
			return purged, errors.Wrapf(err, "failed to purge stale favorites for %s", other)
		}
		slog.InfoContext(ctx, "purged stale favorites", "stale_user_id", other, "removed", out.Removed)
		purged += out.Removed
	}
	return purged, nil
}

// loadList fetches the listing, falling back to the cached snapshot
func (o *orchestrator) loadList(ctx context.Context) ([]*entities.Entity, bool, error) {
	fetched, err := o.listing.ListEntities(ctx)
	if err == nil {
		list := make([]*entities.Entity, 0, len(fetched))
		rows := make([]*entities.FavoriteEntity, 0, len(fetched))
		for _, e := range fetched {
			list = append(list, &entities.Entity{Name: e.Name, Img: e.Img, Level: e.Level})
			rows = append(rows, &entities.FavoriteEntity{
				Name:   e.Name,
				UserID: localcache.ListingScope,
				Img:    e.Img,
				Level:  e.Level,
			})
		}

		if _, werr := o.cache.InsertOrReplaceAll(ctx, &localcache.InsertOrReplaceAllInput{
			UserID: localcache.ListingScope,
			Rows:   rows,
		}); werr != nil {
			slog.WarnContext(ctx, "failed to refresh cached listing", "error", werr)
		}
		return list, false, nil
	}

	if ctx.Err() != nil {
		return nil, false, errors.Wrap(ctx.Err(), "listing load interrupted")
	}

	slog.WarnContext(ctx, "listing unavailable, using cached list", "error", err)
	cached, cerr := o.cache.SelectAll(ctx, &localcache.SelectAllInput{UserID: localcache.ListingScope})
	if cerr != nil {
		return nil, false, errors.Wrap(cerr, "failed to read cached listing")
	}
	if len(cached.Rows) == 0 {
		return nil, false, errors.WrapWithCode(err, errors.CodeUnavailable, "listing unavailable and nothing cached")
	}

	list := make([]*entities.Entity, 0, len(cached.Rows))
	for _, row := range cached.Rows {
		list = append(list, &entities.Entity{Name: row.Name, Img: row.Img, Level: row.Level})
	}
	return list, true, nil
}

// reconcile replaces the user's local favorites with the valid pulled
// documents that name an entity in the list
func (o *orchestrator) reconcile(ctx context.Context, userID string, list []*entities.Entity, pulled *favoritesrepo.GetAllOutput, output *LoginOutput) error {
	known := make(map[string]bool, len(list))
	for _, e := range list {
		known[e.Name] = true
	}

	output.Skipped = pulled.Skipped
	rows := make([]*entities.FavoriteEntity, 0, len(pulled.Documents))
	for _, doc := range pulled.Documents {
		if !doc.Valid() {
			output.Skipped++
			slog.WarnContext(ctx, "skipping incomplete favorite document",
				"user_id", userID,
				"document", doc)
			continue
		}
		if !known[doc.Name] {
			output.Dropped++
			slog.DebugContext(ctx, "dropping favorite absent from list",
				"user_id", userID,
				"name", doc.Name)
			continue
		}
		rows = append(rows, doc.ToFavorite(userID))
	}

	if _, err := o.cache.ReplaceFavorites(ctx, &localcache.ReplaceFavoritesInput{
		UserID: userID,
		Rows:   rows,
	}); err != nil {
		return errors.Wrap(err, "failed to store pulled favorites")
	}
	return nil
}

// Toggle flips an entity's favorite flag, persists it locally and queues the
// remote write
func (o *orchestrator) Toggle(ctx context.Context, input *ToggleInput) (*ToggleOutput, error) {
	if input == nil || input.Name == "" {
		return nil, errors.InvalidArgument("name cannot be empty")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.session.Transition(session.StateSynced, session.StateToggling); err != nil {
		return nil, err
	}
	defer func() {
		_ = o.session.Transition(session.StateToggling, session.StateSynced)
	}()
	userID := o.session.UserID()

	o.entMu.Lock()
	entity := o.find(input.Name)
	if entity == nil {
		o.entMu.Unlock()
		return nil, errors.NotFoundf("entity %q not in list", input.Name)
	}
	entity.IsFavorite = !entity.IsFavorite
	flipped := *entity
	o.entMu.Unlock()

	if _, err := o.cache.SetFavorite(ctx, &localcache.SetFavoriteInput{
		UserID:   userID,
		Entity:   &flipped,
		Favorite: flipped.IsFavorite,
	}); err != nil {
		o.entMu.Lock()
		entity.IsFavorite = !flipped.IsFavorite
		o.entMu.Unlock()
		return nil, errors.Wrap(err, "failed to save favorite")
	}

	op := outbox.OpDelete
	if flipped.IsFavorite {
		op = outbox.OpSet
	}

	output := &ToggleOutput{Entity: &flipped}
	entry, err := o.outbox.Enqueue(ctx, &outbox.EnqueueInput{
		UserID:   userID,
		Op:       op,
		Document: flipped.Document(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to queue favorite push",
			"user_id", userID,
			"name", flipped.Name,
			"error", err)
		return output, nil
	}
	output.PushID = entry.ID

	slog.DebugContext(ctx, "favorite toggled",
		"user_id", userID,
		"name", flipped.Name,
		"favorite", flipped.IsFavorite,
		"push_id", entry.ID)

	return output, nil
}

// Logout purges the user's local favorites and ends the session. Logging out
// without a session is a no-op. When the purge fails the session stays open
// so Logout can be retried.
func (o *orchestrator) Logout(ctx context.Context, _ *LogoutInput) (*LogoutOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.session.Active() {
		return &LogoutOutput{}, nil
	}
	userID := o.session.UserID()

	purged, err := o.cache.DeleteFavoritesForUser(ctx, &localcache.DeleteFavoritesForUserInput{UserID: userID})
	if err != nil {
		slog.WarnContext(ctx, "logout purge failed, session kept open", "user_id", userID, "error", err)
		return nil, errors.Wrap(err, "failed to purge local favorites")
	}

	o.entMu.Lock()
	for _, e := range o.entities {
		e.IsFavorite = false
	}
	o.entMu.Unlock()

	o.session.End()

	slog.InfoContext(ctx, "logged out", "user_id", userID, "removed", purged.Removed)
	return &LogoutOutput{UserID: userID, Removed: purged.Removed}, nil
}

// ListEntities filters and orders the in-memory list. Favorites always come
// first.
func (o *orchestrator) ListEntities(_ context.Context, input *ListEntitiesInput) (*ListEntitiesOutput, error) {
	if input == nil {
		input = &ListEntitiesInput{}
	}

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = SortByName
	}
	if sortBy != SortByName && sortBy != SortByLevel {
		return nil, errors.InvalidArgumentf("unknown sort field %q", input.SortBy)
	}

	all := o.snapshot()
	search := strings.ToLower(input.Search)

	levelSet := make(map[string]bool)
	out := make([]*entities.Entity, 0, len(all))
	for _, e := range all {
		levelSet[e.Level] = true
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		if input.Level != "" && !strings.EqualFold(e.Level, input.Level) {
			continue
		}
		if input.FavoritesOnly && !e.IsFavorite {
			continue
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b *entities.Entity) int {
		if a.IsFavorite != b.IsFavorite {
			if a.IsFavorite {
				return -1
			}
			return 1
		}

		var c int
		if sortBy == SortByLevel {
			c = strings.Compare(a.Level, b.Level)
		}
		if c == 0 {
			c = strings.Compare(a.Name, b.Name)
		}
		if input.Descending {
			c = -c
		}
		return c
	})

	levels := make([]string, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	slices.Sort(levels)

	return &ListEntitiesOutput{Entities: out, Levels: levels}, nil
}

// Status reports the signed-in user and session state
func (o *orchestrator) Status(_ context.Context) (*StatusOutput, error) {
	return &StatusOutput{
		UserID: o.session.UserID(),
		State:  o.session.State(),
	}, nil
}

// find returns the entity with the given name. Callers hold entMu.
func (o *orchestrator) find(name string) *entities.Entity {
	for _, e := range o.entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (o *orchestrator) setEntities(list []*entities.Entity) {
	o.entMu.Lock()
	defer o.entMu.Unlock()
	o.entities = list
}

// snapshot copies the list so callers never share entities with the
// synchronizer
func (o *orchestrator) snapshot() []*entities.Entity {
	o.entMu.RLock()
	defer o.entMu.RUnlock()

	out := make([]*entities.Entity, 0, len(o.entities))
	for _, e := range o.entities {
		c := *e
		out = append(out, &c)
	}
	return out
}
