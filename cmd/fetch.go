package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/bgg"
	"github.com/pable/go-bgg-stats/internal/metrics"
	"github.com/pable/go-bgg-stats/internal/storage"
)

// fetch command flags.
var (
	// fetchSince and fetchUntil bound the fetched dates (YYYY-MM-DD, optional).
	fetchSince string
	fetchUntil string
	// fetchSkipCollection skips the collection download.
	fetchSkipCollection bool
)

// fetchCmd downloads a user's plays from BGG and merges them into the database.
var fetchCmd = &cobra.Command{
	Use:   "fetch [user]",
	Short: "Download plays, games and collection from BoardGameGeek",
	Long: `Fetches the play log of a BGG user and merges it into the database.
Every date present in the download replaces the stored plays of that date;
dates not in the download are kept. Metadata of games not yet stored is
fetched afterwards, followed by the user's collection.

Examples:
  # Full history
  bggstats fetch alice

  # Only the last week, for a quick refresh
  bggstats fetch alice --since 2024-03-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchSince, "since", "", "only fetch plays on or after this date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchUntil, "until", "", "only fetch plays on or before this date (YYYY-MM-DD)")
	fetchCmd.Flags().BoolVar(&fetchSkipCollection, "skip-collection", false, "do not refresh the collection")
}

func runFetch(cmd *cobra.Command, args []string) error {
	user, err := userArg(args)
	if err != nil {
		return err
	}
	for _, d := range []string{fetchSince, fetchUntil} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", d)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = doFetch(ctx, db, user, fetchSince, fetchUntil, !fetchSkipCollection)
	if werr := metrics.WriteTextfile(metricsFile); werr != nil {
		logger.Warn("write metrics textfile", "path", metricsFile, "err", werr)
	}
	return err
}

func newBGGClient() *bgg.Client {
	client := bgg.NewClient(bgg.Options{
		BaseURL:           cfg.BGG.BaseURL,
		RequestsPerMinute: cfg.BGG.RequestsPerMinute,
		MaxRetries:        cfg.BGG.MaxRetries,
		RetryMinDelay:     cfg.BGG.RetryMinDelay,
		RetryMaxDelay:     cfg.BGG.RetryMaxDelay,
		Timeout:           cfg.BGG.Timeout,
	}, logger)
	client.OnRequest(metrics.ObserveRequest)
	return client
}

// doFetch is the shared implementation for the fetch and schedule commands.
func doFetch(ctx context.Context, db *storage.DB, user, since, until string, collection bool) error {
	client := newBGGClient()
	start := time.Now()

	plays, err := client.FetchPlays(ctx, user, since, until)
	if err != nil {
		return fmt.Errorf("fetch plays for %s: %w", user, err)
	}
	metrics.PlaysFetched.WithLabelValues(user).Add(float64(len(plays)))

	fetched := bgg.GroupByDate(plays)
	merged, err := db.MergeAndSavePlays(user, fetched)
	if err != nil {
		return fmt.Errorf("save plays: %w", err)
	}
	fmt.Printf("Plays: %d fetched over %d dates, %d stored over %d dates\n",
		len(plays), len(fetched), merged.Len(), len(merged))

	missing, err := db.MissingGameIDs(user)
	if err != nil {
		return fmt.Errorf("missing games: %w", err)
	}
	if len(missing) > 0 {
		logger.Info("fetching game metadata", "user", user, "games", len(missing))
		games, err := client.FetchGames(ctx, missing, cfg.BGG.GameConcurrency)
		if err != nil {
			return fmt.Errorf("fetch games: %w", err)
		}
		if err := db.SaveGames(games); err != nil {
			return fmt.Errorf("save games: %w", err)
		}
		fmt.Printf("Games: %d new\n", len(games))
	}

	if collection {
		entries, err := client.FetchCollection(ctx, user)
		switch {
		case errors.Is(err, bgg.ErrNotFound):
			logger.Warn("collection not found", "user", user)
		case err != nil:
			return fmt.Errorf("fetch collection: %w", err)
		default:
			if err := db.SaveCollection(user, entries); err != nil {
				return fmt.Errorf("save collection: %w", err)
			}
			fmt.Printf("Collection: %d items\n", len(entries))
		}
	}

	logger.Info("fetch done", "user", user, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
