package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/aggregator"
	"github.com/pable/go-bgg-stats/internal/metrics"
	"github.com/pable/go-bgg-stats/internal/model"
	"github.com/pable/go-bgg-stats/internal/report"
	"github.com/pable/go-bgg-stats/internal/storage"
)

var (
	statsPlayer string
	statsJSON   bool
	statsLimit  int
)

// statsCmd aggregates the stored plays of a user and persists the result.
var statsCmd = &cobra.Command{
	Use:   "stats [user]",
	Short: "Compute play statistics for every player in a user's log",
	Long: `Runs the aggregation engine over the stored plays of a user and saves the
result as a new stats run. Prints the per-player overview, and the per-game,
per-mechanism and leaderboard tables of --player when given.

Malformed plays (no players, no location or no duration) are listed but
still counted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsPlayer, "player", "", "print the detail tables of this player")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the full result as JSON instead of tables")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 20, "max rows in the per-game and per-mechanism tables (0 = all)")
}

func runStats(cmd *cobra.Command, args []string) error {
	user, err := userArg(args)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	run, stats, err := computeStats(db, user)
	if werr := metrics.WriteTextfile(metricsFile); werr != nil {
		logger.Warn("write metrics textfile", "path", metricsFile, "err", werr)
	}
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Fprintf(os.Stdout, "No plays stored for %s. Run 'bggstats fetch %s' first.\n", user, user)
		return nil
	}

	if statsJSON {
		return printJSON(stats)
	}
	printStats(user, run, stats, statsPlayer, statsLimit)
	return nil
}

// computeStats runs the engine over the stored plays of user and saves the
// result. It returns a nil run when the user has no plays.
func computeStats(db *storage.DB, user string) (*model.StatsRun, *model.Stats, error) {
	plays, err := db.LoadPlays(user)
	if err != nil {
		return nil, nil, fmt.Errorf("load plays: %w", err)
	}
	if len(plays) == 0 {
		return nil, nil, nil
	}
	games, err := db.LoadGamesForUser(user)
	if err != nil {
		return nil, nil, fmt.Errorf("load games: %w", err)
	}

	engine := aggregator.New(
		aggregator.WithAliases(cfg.Aliases),
		aggregator.WithLogger(logger.With("user", user)),
	)
	start := time.Now()
	stats, err := engine.Generate(plays, games)
	if err != nil {
		return nil, nil, fmt.Errorf("generate stats for %s (run 'bggstats fetch %s' to load missing games): %w", user, user, err)
	}
	elapsed := time.Since(start)

	runID := uuid.NewString()
	at := time.Now()
	if err := db.SaveStats(user, runID, at, stats); err != nil {
		return nil, nil, fmt.Errorf("save stats: %w", err)
	}
	metrics.ObserveRun(user, plays.Len(), stats, elapsed, at)
	logger.Info("stats run saved", "user", user, "run", runID,
		"players", len(stats.PlayerStats), "malformed", len(stats.MalformedPlays), "elapsed", elapsed)

	return &model.StatsRun{
		RunID:     runID,
		User:      user,
		CreatedAt: at.UTC().Format(time.RFC3339),
		Players:   len(stats.PlayerStats),
		Malformed: len(stats.MalformedPlays),
	}, stats, nil
}

// printStats renders a stats run as tables.
func printStats(user string, run *model.StatsRun, stats *model.Stats, player string, limit int) {
	report.PrintRunHeader(os.Stdout, user, run, stats)
	report.PrintPlayerTable(os.Stdout, stats, player)

	if player != "" {
		ps, ok := stats.PlayerStats[player]
		if !ok {
			fmt.Fprintf(os.Stderr, "\nNo player named %q in this log.\n", player)
		} else {
			fmt.Fprintf(os.Stdout, "\n--- Games: %s ---\n\n", player)
			report.PrintGameTable(os.Stdout, ps, limit)
			fmt.Fprintf(os.Stdout, "\n--- Mechanisms: %s ---\n\n", player)
			report.PrintMechanismTable(os.Stdout, ps, limit)
			fmt.Fprintf(os.Stdout, "\n--- Leaderboards: %s ---\n\n", player)
			report.PrintLeaderboards(os.Stdout, ps)
		}
	}

	if len(stats.MalformedPlays) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Malformed plays ---\n\n")
		report.PrintMalformedTable(os.Stdout, stats.MalformedPlays)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
