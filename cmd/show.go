package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/storage"
)

var (
	showPlayer string
	showJSON   bool
	showLimit  int
)

var showCmd = &cobra.Command{
	Use:   "show [user]",
	Short: "Show the last stored stats run of a user",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "print the detail tables of this player")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the stored result as JSON")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "max rows in the per-game and per-mechanism tables (0 = all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	user, err := userArg(args)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	run, stats, err := db.LoadStats(user)
	if errors.Is(err, storage.ErrNoStats) {
		fmt.Fprintf(os.Stderr, "No stats stored for %s. Run 'bggstats stats %s' first.\n", user, user)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	if showJSON {
		return printJSON(stats)
	}
	printStats(user, run, stats, showPlayer, showLimit)
	return nil
}
