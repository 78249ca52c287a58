package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-bgg-stats/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintRunHeader prints a one-line summary of a stats run.
func PrintRunHeader(w io.Writer, user string, run *model.StatsRun, stats *model.Stats) {
	id := ""
	if run != nil && len(run.RunID) >= 8 {
		id = "  |  Run: " + run.RunID[:8]
	}
	fmt.Fprintf(w, "\nUser: %s  |  Players: %d  |  Malformed plays: %d%s\n\n",
		user, len(stats.PlayerStats), len(stats.MalformedPlays), id)
}

// PrintPlayerTable prints one Basic row per player, most active first.
// If focus is non-empty, that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, stats *model.Stats, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "PLAYS", "TIME", "AVG_TIME", "GAMES", "MECHS", "LOCS",
		"WITH", "AVG_PLAYERS", "CPLX/TIME", "CPLX/PLAY", "WINS", "DECIDED", "WIN%")

	for _, name := range stats.PlayerNames() {
		b := stats.PlayerStats[name].Basic
		marker := " "
		if name == focus {
			marker = ">"
		}
		table.Append(
			marker,
			name,
			strconv.Itoa(b.TotalPlays),
			formatMinutes(b.TotalTimePlayed),
			fmt.Sprintf("%.0f", b.AveragePlayTime),
			strconv.Itoa(b.UniqueGamesPlayed),
			strconv.Itoa(b.UniqueMechanisms),
			strconv.Itoa(b.UniqueLocations),
			strconv.Itoa(b.PlayedWith),
			fmt.Sprintf("%.2f", b.AverageNumberOfPlayers),
			fmt.Sprintf("%.2f", b.AverageComplexityOverTimePlayed),
			fmt.Sprintf("%.2f", b.AverageComplexityOverNumberOfPlays),
			strconv.Itoa(b.Wins),
			strconv.Itoa(b.PlaysWithAWinner),
			fmt.Sprintf("%.0f%%", b.WinPercentage),
		)
	}
	table.Render()
}

// PrintGameTable prints the per-game breakdown of one player in first-played
// order, limited to the first limit rows when limit > 0.
func PrintGameTable(w io.Writer, ps *model.PlayerStats, limit int) {
	table := newTable(w)
	table.Header("GAME", "PLAYS", "TIME", "AVG_TIME", "AVG_PLAYERS", "LOCS", "TOP_LOCATION", "WITH", "WIN%")

	for i, g := range ps.ByGame {
		if limit > 0 && i >= limit {
			break
		}
		top := "—"
		if len(g.MostPlayedLocation.Locations) > 0 {
			top = fmt.Sprintf("%s (%d)", joinOrDash(g.MostPlayedLocation.Locations), g.MostPlayedLocation.Plays)
		}
		win := "—"
		if g.PlaysWithAWinner > 0 {
			win = fmt.Sprintf("%.0f%%", g.WinPercentage)
		}
		table.Append(
			g.Name,
			strconv.Itoa(g.TotalPlays),
			formatMinutes(g.TotalDuration),
			fmt.Sprintf("%.0f", g.AveragePlayTime),
			fmt.Sprintf("%.2f", g.AverageNumberOfPlayers),
			strconv.Itoa(g.PlayedAtLocations),
			top,
			strconv.Itoa(g.PlayedWith),
			win,
		)
	}
	table.Render()
}

// PrintMechanismTable prints the mechanism ranking of one player.
func PrintMechanismTable(w io.Writer, ps *model.PlayerStats, limit int) {
	table := newTable(w)
	table.Header("#", "MECHANISM", "PLAYS", "GAMES", "TITLES")

	for i, m := range ps.ByMechanism {
		if limit > 0 && i >= limit {
			break
		}
		table.Append(
			strconv.Itoa(i+1),
			m.Mechanism,
			strconv.Itoa(m.Plays),
			strconv.Itoa(m.NumberOfGames),
			truncate(strings.Join(m.Games, ", "), 60),
		)
	}
	table.Render()
}

// PrintLeaderboards prints the superlatives of one player.
func PrintLeaderboards(w io.Writer, ps *model.PlayerStats) {
	m := ps.Most
	table := newTable(w)
	table.Header("BOARD", "VALUE", "LEADERS")

	games := func(label, format string, b model.GameBoard) {
		table.Append(label, fmt.Sprintf(format, b.Value), joinOrDash(b.Games))
	}
	mechs := func(label string, b model.MechanismBoard) {
		table.Append(label, fmt.Sprintf("%.0f", b.Value), joinOrDash(b.Mechanisms))
	}

	games("Most complex game", "%.2f", m.MostComplexGamePlayed)

	longest := make([]string, 0, len(m.LongestPlay.Plays))
	for _, p := range m.LongestPlay.Plays {
		longest = append(longest, p.Name+" @ "+p.Date)
	}
	table.Append("Longest play", fmt.Sprintf("%.0f min", m.LongestPlay.Value), joinOrDash(longest))

	games("Longest average play", "%.0f min", m.LongestAveragePlay)
	games("Most time played", "%.0f min", m.MostPlayedByDuration)
	games("Most plays", "%.0f", m.MostPlayedByNumberOfPlays)
	games("Highest avg player count", "%.2f", m.HighestAveragePlayerCount)
	games("Most locations", "%.0f", m.GamePlayedAtMostLocations)
	games("Highest win %", "%.0f%%", m.MostWonGame)
	mechs("Top mechanism by plays", m.MostPlayedMechanismByPlays)
	mechs("Top mechanism by games", m.MostPlayedMechanismByGames)
	games("Most mechanisms", "%.0f", m.GameWithMostMechanisms)
	table.Render()
}

// PrintMalformedTable lists the plays flagged by the malformed-play check.
func PrintMalformedTable(w io.Writer, malformed []model.MalformedPlay) {
	if len(malformed) == 0 {
		fmt.Fprintln(w, "No malformed plays.")
		return
	}
	table := newTable(w)
	table.Header("PLAY_ID", "NO_PLAYERS", "NO_LOCATION", "NO_DURATION")
	for _, m := range malformed {
		table.Append(strconv.Itoa(m.PlayID), flag(m.NoPlayers), flag(m.NoLocation), flag(m.NoDuration))
	}
	table.Render()
}

// PrintUserTable lists stored datasets.
func PrintUserTable(w io.Writer, users []model.UserSummary) {
	table := newTable(w)
	table.Header("USER", "PLAYS", "DAYS", "FIRST", "LAST", "PLAYERS", "LAST_STATS")
	for _, u := range users {
		last := "—"
		if u.LastStatsAt != "" {
			last = u.LastStatsAt
		}
		table.Append(u.User, strconv.Itoa(u.Plays), strconv.Itoa(u.Dates),
			u.FirstDate, u.LastDate, strconv.Itoa(u.Players), last)
	}
	table.Render()
}

// PrintTrendTable prints one player's headline numbers per stats run, with
// the change in plays since the previous run.
func PrintTrendTable(w io.Writer, points []model.PlayerTrendPoint) {
	table := newTable(w)
	table.Header("RUN", "CREATED", "PLAYS", "+PLAYS", "TIME", "GAMES", "WIN%")
	prev := 0
	for i, p := range points {
		delta := "—"
		if i > 0 {
			delta = fmt.Sprintf("%+d", p.TotalPlays-prev)
		}
		prev = p.TotalPlays
		id := p.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		table.Append(id, p.CreatedAt, strconv.Itoa(p.TotalPlays), delta,
			formatMinutes(p.TotalTime), strconv.Itoa(p.UniqueGames), fmt.Sprintf("%.0f%%", p.WinPercentage))
	}
	table.Render()
}

func flag(b bool) string {
	if b {
		return "x"
	}
	return ""
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "—"
	}
	return truncate(strings.Join(s, ", "), 80)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatMinutes renders minutes as "12h05m" or "45m".
func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
