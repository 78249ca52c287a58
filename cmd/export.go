package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/dataset"
	"github.com/pable/go-bgg-stats/internal/storage"
)

// exportCmd writes everything stored for a user to a dataset file.
var exportCmd = &cobra.Command{
	Use:   "export <user> <file>",
	Short: "Export a user's plays, games and collection",
	Long: `Writes the stored plays (date order preserved), the referenced games and
the collection of <user> as one JSON document. A file name ending in .zst
is zstd-compressed.

Examples:
  bggstats export alice alice.json
  bggstats export alice backups/alice-2024-03.json.zst`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	user, path := args[0], args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	plays, err := db.LoadPlays(user)
	if err != nil {
		return fmt.Errorf("load plays: %w", err)
	}
	if len(plays) == 0 {
		fmt.Fprintf(os.Stderr, "No plays stored for %s. Run 'bggstats fetch %s' first.\n", user, user)
		return nil
	}
	games, err := db.LoadGamesForUser(user)
	if err != nil {
		return fmt.Errorf("load games: %w", err)
	}
	collection, err := db.LoadCollection(user)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}

	ds := &dataset.Dataset{
		User:       user,
		ExportedAt: time.Now().UTC(),
		Plays:      plays,
		Games:      games,
		Collection: collection,
	}
	if err := dataset.WriteFile(path, ds); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d plays, %d games, %d collection items to %s\n",
		plays.Len(), len(games), len(collection), path)
	return nil
}
