package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/storage"
)

var (
	dropForce bool
	dropUser  string
)

// dropCmd deletes one user's data or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete a user's data or the whole database",
	Long: `With --user, delete every play, collection entry and stats run stored for
that user. Without it, permanently delete the SQLite database file. Game
metadata is shared between users and only removed with the file.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropUser, "user", "", "only delete the data of this BGG user")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		target := dbPath
		if dropUser != "" {
			target = fmt.Sprintf("all data of %s in %s", dropUser, dbPath)
		}
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", target)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropUser != "" {
		db, err := storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
		if err := db.DropUser(dropUser); err != nil {
			return fmt.Errorf("drop user %s: %w", dropUser, err)
		}
		fmt.Fprintf(os.Stdout, "Deleted data of %s\n", dropUser)
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
