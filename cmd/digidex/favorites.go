package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/digidex/internal/orchestrators/favorites"
)

var (
	favoritesUser         string
	favoritesDrainTimeout time.Duration

	listSearch        string
	listLevel         string
	listSortBy        string
	listDescending    bool
	listFavoritesOnly bool
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Work with a user's favorites",
	Long: `Each favorites command signs the user in, syncs their favorites and runs
the action. Pending remote pushes are delivered before the command exits.`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entities with the user's favorites first",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <name> [name...]",
	Short: "Flip the favorite flag of one or more entities",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesToggle,
}

func init() {
	favoritesCmd.PersistentFlags().StringVar(&favoritesUser, "user", "", "credential of the user to sign in (required)")
	favoritesCmd.PersistentFlags().DurationVar(&favoritesDrainTimeout, "drain-timeout", 30*time.Second, "time limit for delivering pending pushes")
	_ = favoritesCmd.MarkPersistentFlagRequired("user")

	flags := favoritesListCmd.Flags()
	flags.StringVar(&listSearch, "search", "", "case-insensitive name filter")
	flags.StringVar(&listLevel, "level", "", "only show this level")
	flags.StringVar(&listSortBy, "sort", string(favorites.SortByName), "sort by name or level")
	flags.BoolVar(&listDescending, "desc", false, "sort descending")
	flags.BoolVar(&listFavoritesOnly, "favorites-only", false, "only show favorites")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
}

// withSession signs the user in, runs fn and delivers pending pushes
func withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	userID, err := a.identity.Authenticate(ctx, favoritesUser)
	if err != nil {
		return err
	}

	login, err := a.favorites.Login(ctx, &favorites.LoginInput{UserID: userID})
	if err != nil {
		return err
	}
	if login.Offline {
		fmt.Fprintln(os.Stderr, "listing unavailable, showing cached list")
	}
	if login.SyncFailed {
		fmt.Fprintln(os.Stderr, "remote favorites unavailable, showing local favorites")
	}

	if err := fn(ctx, a); err != nil {
		return err
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), favoritesDrainTimeout)
	defer cancel()
	drainOutbox(drainCtx, a)
	return nil
}

func runFavoritesList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		out, err := a.favorites.ListEntities(ctx, &favorites.ListEntitiesInput{
			Search:        listSearch,
			Level:         listLevel,
			SortBy:        favorites.SortField(listSortBy),
			Descending:    listDescending,
			FavoritesOnly: listFavoritesOnly,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FAV\tNAME\tLEVEL")
		for _, e := range out.Entities {
			mark := ""
			if e.IsFavorite {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", mark, e.Name, e.Level)
		}
		return w.Flush()
	})
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		for _, name := range args {
			out, err := a.favorites.Toggle(ctx, &favorites.ToggleInput{Name: name})
			if err != nil {
				return err
			}
			state := "removed from"
			if out.Entity.IsFavorite {
				state = "added to"
			}
			fmt.Printf("%s %s favorites\n", out.Entity.Name, state)
		}
		return nil
	})
}

// drainOutbox delivers pending pushes, logging what could not be delivered
func drainOutbox(ctx context.Context, a *app) {
	out, err := a.outbox.Drain(ctx)
	if err != nil {
		slog.Warn("pending favorite pushes not delivered", "pending", a.outbox.Pending(), "error", err)
		return
	}
	if out.Failed > 0 {
		slog.Warn("some favorite pushes failed", "failed", out.Failed)
	}
	slog.Debug("favorite pushes delivered", "delivered", out.Delivered)
}
