package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/dataset"
	"github.com/pable/go-bgg-stats/internal/storage"
)

// importCmd merges a dataset file into the database.
var importCmd = &cobra.Command{
	Use:   "import <user> <file>",
	Short: "Import a dataset file (.json or .json.zst)",
	Long: `Reads a dataset written by 'bggstats export' (or by hand) and merges it
into the stored data of <user>. Dates in the file replace stored dates;
games and collection entries are upserted.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	user, path := args[0], args[1]

	ds, err := dataset.ReadFile(path, user)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	merged, err := db.MergeAndSavePlays(user, ds.Plays)
	if err != nil {
		return fmt.Errorf("save plays: %w", err)
	}
	if len(ds.Games) > 0 {
		if err := db.SaveGames(ds.Games); err != nil {
			return fmt.Errorf("save games: %w", err)
		}
	}
	if len(ds.Collection) > 0 {
		if err := db.SaveCollection(user, ds.Collection); err != nil {
			return fmt.Errorf("save collection: %w", err)
		}
	}

	fmt.Fprintf(os.Stdout, "Imported %d plays, %d games, %d collection items for %s (%d plays stored)\n",
		ds.Plays.Len(), len(ds.Games), len(ds.Collection), user, merged.Len())

	missing, err := db.MissingGameIDs(user)
	if err != nil {
		return fmt.Errorf("missing games: %w", err)
	}
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "%d referenced games have no metadata; run 'bggstats fetch %s' before 'stats'.\n", len(missing), user)
	}
	return nil
}
