package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/report"
	"github.com/pable/go-bgg-stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("bggstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("bggstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show", "stats":
			user, player := shellUserArgs(args)
			if user == "" {
				cError.Fprintf(os.Stderr, "usage: %s <user> [--player <name>]\n", cmd)
				continue
			}
			if cmd == "stats" {
				shellStats(db, user, player)
			} else {
				shellShow(db, user, player)
			}
		case "weekly":
			user, _ := shellUserArgs(args)
			if user == "" {
				cError.Fprintln(os.Stderr, "usage: weekly <user> [<from> [<to>]]")
				continue
			}
			var from, to string
			if len(args) > 1 {
				from = args[1]
			}
			if len(args) > 2 {
				to = args[2]
			}
			shellWeekly(db, user, from, to)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

// shellUserArgs reads "<user> [--player <name>]", falling back to the
// configured user. Player names may contain spaces.
func shellUserArgs(args []string) (user, player string) {
	rest := args
	if len(rest) > 0 && rest[0] != "--player" {
		user, rest = rest[0], rest[1:]
	} else if cfg != nil {
		user = cfg.User
	}
	for i, a := range rest {
		if a == "--player" && i+1 < len(rest) {
			player = strings.Join(rest[i+1:], " ")
			break
		}
	}
	return user, player
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored users"},
		{"show <user>", "show the last stats run of a user"},
		{"show <user> --player <name>", "same, with one player's detail tables"},
		{"stats <user> [--player <name>]", "recompute and store stats"},
		{"weekly <user> [<from> [<to>]]", "BBCode weekly post (YYYY-MM-DD)"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	users, err := db.ListUsers()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(users) == 0 {
		cMuted.Println("No plays stored yet.")
		return
	}
	report.PrintUserTable(os.Stdout, users)
}

func shellShow(db *storage.DB, user, player string) {
	run, stats, err := db.LoadStats(user)
	if errors.Is(err, storage.ErrNoStats) {
		cWarn.Fprintf(os.Stderr, "no stats stored for %s, run 'stats %s'\n", user, user)
		return
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- %s ---\n", user)
	printStats(user, run, stats, player, 20)
}

func shellStats(db *storage.DB, user, player string) {
	run, stats, err := computeStats(db, user)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if run == nil {
		cMuted.Printf("No plays stored for %s.\n", user)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- %s ---\n", user)
	printStats(user, run, stats, player, 20)
}

func shellWeekly(db *storage.DB, user, fromFlag, toFlag string) {
	from, to, err := weekRange(fromFlag, toFlag, time.Now())
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	plays, err := db.LoadPlays(user)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	games, err := db.LoadGamesForUser(user)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	collection, err := db.LoadCollection(user)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fmt.Fprint(os.Stdout, report.NewWeekly(user, games, collection, plays, from, to).String())
}
