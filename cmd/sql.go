package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  plays(user, date, date_pos, pos, play_id, game_id, name, quantity, length,
    location, incomplete, is_new)
  play_players(user, date, play_pos, pos, name, user_name, won, is_new)
  games(game_id, name, published, weight, thumbnail)
  game_tags(game_id, kind, pos, value)   -- kind: mechanism, category, family, designer
  collection(user, game_id, name, own, prevowned, fortrade, want, wanttoplay,
    wanttobuy, wishlist, preordered, rating, num_plays, thumbnail)
  stats_runs(run_id, user, created_at, players, malformed)
  player_stats(run_id, player, total_plays, total_time, unique_games,
    win_percentage, data)   -- data is the full JSON result
  malformed_plays(run_id, play_id, no_players, no_location, no_duration)

Example: bggstats sql "SELECT name, SUM(quantity) n FROM plays GROUP BY name ORDER BY n DESC LIMIT 10"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
