package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/report"
	"github.com/pable/go-bgg-stats/internal/storage"
)

var trendCmd = &cobra.Command{
	Use:   "trend <user> <player>",
	Short: "Per-run trend of one player's totals",
	Long: `Lists the stored stats runs of <user> oldest first with <player>'s total
plays, time played, distinct games and win percentage in each run.`,
	Args: cobra.ExactArgs(2),
	RunE: runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	user, player := args[0], args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	points, err := db.PlayerTrend(user, player)
	if err != nil {
		return fmt.Errorf("query trend: %w", err)
	}
	if len(points) == 0 {
		fmt.Printf("no stats runs for %s in %s's log\n", player, user)
		return nil
	}
	report.PrintTrendTable(os.Stdout, points)
	return nil
}
