package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level overview of one user.
var summaryCmd = &cobra.Command{
	Use:   "summary [user]",
	Short: "Show a high-level overview of a user's stored data",
	Long: `Display what is stored for a user: play and date counts, date range,
distinct players, collection size and the history of stats runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	user, err := userArg(args)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	u, err := db.GetUser(user)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		fmt.Fprintf(os.Stdout, "No plays stored for %s. Run 'bggstats fetch %s' to add some.\n", user, user)
		return nil
	}
	collection, err := db.LoadCollection(user)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	missing, err := db.MissingGameIDs(user)
	if err != nil {
		return fmt.Errorf("missing games: %w", err)
	}
	owned := 0
	for _, c := range collection {
		if c.Status.Own {
			owned++
		}
	}

	fmt.Fprintf(os.Stdout, "\n=== %s ===\n\n", user)
	fmt.Fprintf(os.Stdout, "  Plays stored     : %d\n", u.Plays)
	fmt.Fprintf(os.Stdout, "  Days with plays  : %d\n", u.Dates)
	fmt.Fprintf(os.Stdout, "  Date range       : %s → %s\n", u.FirstDate, u.LastDate)
	fmt.Fprintf(os.Stdout, "  Players seen     : %d\n", u.Players)
	fmt.Fprintf(os.Stdout, "  Collection       : %d items, %d owned\n", len(collection), owned)
	if len(missing) > 0 {
		fmt.Fprintf(os.Stdout, "  Missing games    : %d (run 'bggstats fetch %s')\n", len(missing), user)
	}

	runs, err := db.ListRuns(user)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n--- Stats runs ---\n\n")
	rt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	rt.Header("RUN", "CREATED", "PLAYERS", "MALFORMED")
	for _, r := range runs {
		rt.Append(shortID(r.RunID), r.CreatedAt, fmt.Sprintf("%d", r.Players), fmt.Sprintf("%d", r.Malformed))
	}
	rt.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
