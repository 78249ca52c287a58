package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/report"
	"github.com/pable/go-bgg-stats/internal/storage"
)

var (
	weeklyFrom string
	weeklyTo   string
)

// weeklyCmd prints the BBCode weekly post of a user.
var weeklyCmd = &cobra.Command{
	Use:   "weekly [user]",
	Short: "Print a BBCode summary of one week of plays",
	Long: `Renders the plays of a date range as a BGG forum post: weekly totals
followed by one section per day with thumbnails, ratings and lifetime play
counts from the user's collection.

Without flags the range is the seven days ending today.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWeekly,
}

func init() {
	weeklyCmd.Flags().StringVar(&weeklyFrom, "from", "", "first date (YYYY-MM-DD)")
	weeklyCmd.Flags().StringVar(&weeklyTo, "to", "", "last date (YYYY-MM-DD)")
}

func runWeekly(cmd *cobra.Command, args []string) error {
	user, err := userArg(args)
	if err != nil {
		return err
	}
	from, to, err := weekRange(weeklyFrom, weeklyTo, time.Now())
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	plays, err := db.LoadPlays(user)
	if err != nil {
		return fmt.Errorf("load plays: %w", err)
	}
	games, err := db.LoadGamesForUser(user)
	if err != nil {
		return fmt.Errorf("load games: %w", err)
	}
	collection, err := db.LoadCollection(user)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}

	fmt.Fprint(os.Stdout, report.NewWeekly(user, games, collection, plays, from, to).String())
	return nil
}

// weekRange resolves the --from/--to flags. Missing bounds default to the
// seven days ending on now.
func weekRange(fromFlag, toFlag string, now time.Time) (time.Time, time.Time, error) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if toFlag != "" {
		t, err := time.Parse(time.DateOnly, toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q, want YYYY-MM-DD", toFlag)
		}
		to = t
	}
	from := to.AddDate(0, 0, -6)
	if fromFlag != "" {
		f, err := time.Parse(time.DateOnly, fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q, want YYYY-MM-DD", fromFlag)
		}
		from = f
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from %s is after --to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return from, to, nil
}
