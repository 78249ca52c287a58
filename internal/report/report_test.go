package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-bgg-stats/internal/model"
)

func weeklyFixture() *Weekly {
	games := []model.Game{
		{GameID: 13, Name: "Catan", Weight: 2, Thumbnail: "https://cf.geekdo-images.com/x/pic111.jpg"},
		{GameID: 5, Name: "Azul", Weight: 1, Thumbnail: "https://cf.geekdo-images.com/y/pic222.png"},
	}
	collection := []model.CollectionEntry{
		{GameID: 13, Name: "Catan", Status: model.CollectionStatus{Own: true}, Rating: 7.6, Plays: 10},
	}
	plays := model.PlayLog{
		{Date: "2024-03-04", Plays: []model.Play{{
			ID: 1, Name: "Catan", GameID: 13, Quantity: 1, Length: 60, New: true,
			Players: []model.Player{{Name: "Me", UserName: "me", Won: true}, {Name: "Bob"}},
		}}},
		{Date: "2024-03-02", Plays: []model.Play{{
			ID: 2, Name: "Azul", GameID: 5, Quantity: 2, Length: 40,
			Players: []model.Player{{Name: "Me", UserName: "me"}},
		}}},
		{Date: "2024-02-20", Plays: []model.Play{{ID: 3, Name: "Azul", GameID: 5, Quantity: 1, Length: 30}}},
	}
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	return NewWeekly("me", games, collection, plays, from, to)
}

func TestWeeklyStats(t *testing.T) {
	s := weeklyFixture().Stats()
	if s.TotalPlays != 3 {
		t.Errorf("TotalPlays: want 3, got %d", s.TotalPlays)
	}
	if s.UniqueTitles != 2 || s.NewGames != 1 {
		t.Errorf("titles/new: want 2/1, got %d/%d", s.UniqueTitles, s.NewGames)
	}
	// (60 + 40) / 3
	if s.AveragePlayTime < 33.3 || s.AveragePlayTime > 33.4 {
		t.Errorf("AveragePlayTime: want ~33.3, got %f", s.AveragePlayTime)
	}
	// (2×60 + 1×40) / 100
	if s.AverageComplexity != 1.6 {
		t.Errorf("AverageComplexity: want 1.6, got %f", s.AverageComplexity)
	}
	if s.OwnGamesPct != 50 {
		t.Errorf("OwnGamesPct: want 50, got %f", s.OwnGamesPct)
	}
	// Azul had no winner, so only Catan counts.
	if s.WinPct != 100 {
		t.Errorf("WinPct: want 100, got %f", s.WinPct)
	}
}

func TestWeeklyEmptyWeekHasZeroRatios(t *testing.T) {
	w := NewWeekly("me", nil, nil, nil, time.Now(), time.Now())
	s := w.Stats()
	if s.AveragePlayTime != 0 || s.OwnGamesPct != 0 || s.WinPct != 0 || s.AverageComplexity != 0 {
		t.Errorf("empty week: want zero ratios, got %+v", s)
	}
}

func TestWeeklyString(t *testing.T) {
	out := weeklyFixture().String()
	for _, want := range []string{
		"Weekly stats 1.3.2024 - 7.3.2024",
		"[b][u]Saturday[/u][/b]",
		"[b][u]Monday[/u][/b]",
		"[imageid=111 small inline]",
		"[imageid=222 small inline]",
		"[BGCOLOR=#66ff99][b] 8 [/b][/BGCOLOR] [thing=13]Catan[/thing] ([size=7]all time plays: 10[/size]) - 2 players, [color=#ff5100][size=9]new[/size][/color]",
		"[BGCOLOR=#ffffff][b] N/A [/b][/BGCOLOR] [thing=5]Azul[/thing] - solo, 2 plays",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "Saturday") > strings.Index(out, "Monday") {
		t.Error("days should be in date order")
	}
	if strings.Contains(out, "2024-02-20") || strings.Count(out, "[thing=5]") != 1 {
		t.Error("plays outside the week should be skipped")
	}
}

func TestPrintTables(t *testing.T) {
	stats := &model.Stats{
		PlayerStats: map[string]*model.PlayerStats{
			"Alice": {
				Basic:       model.BasicStats{TotalPlays: 4, TotalTimePlayed: 125, WinPercentage: 50},
				ByGame:      []model.GameStats{{Name: "Catan", TotalPlays: 4, MostPlayedLocation: model.LocationTie{Locations: []string{"Home"}, Plays: 4}}},
				ByMechanism: []model.MechanismStats{{Mechanism: "Trading", Plays: 4, NumberOfGames: 1, Games: []string{"Catan"}}},
				Most:        model.MostStats{MostPlayedByNumberOfPlays: model.GameBoard{Value: 4, Games: []string{"Catan"}}},
			},
		},
		MalformedPlays: []model.MalformedPlay{{PlayID: 42, NoDuration: true}},
	}
	var buf bytes.Buffer
	PrintPlayerTable(&buf, stats, "Alice")
	PrintGameTable(&buf, stats.PlayerStats["Alice"], 0)
	PrintMechanismTable(&buf, stats.PlayerStats["Alice"], 10)
	PrintLeaderboards(&buf, stats.PlayerStats["Alice"])
	PrintMalformedTable(&buf, stats.MalformedPlays)

	out := buf.String()
	for _, want := range []string{"Alice", "2h05m", "Home", "Trading", "Catan", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestPrintTrendTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTrendTable(&buf, []model.PlayerTrendPoint{
		{RunID: "0123456789abcdef", CreatedAt: "2024-03-01T10:00:00Z", TotalPlays: 10, TotalTime: 300, UniqueGames: 4, WinPercentage: 40},
		{RunID: "fedcba9876543210", CreatedAt: "2024-03-08T10:00:00Z", TotalPlays: 13, TotalTime: 390, UniqueGames: 5, WinPercentage: 50},
	})
	out := buf.String()
	for _, want := range []string{"01234567", "fedcba98", "+3", "6h30m"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestRatingBadgeAndImageID(t *testing.T) {
	if got := ratingBadge(0); !strings.Contains(got, "N/A") {
		t.Errorf("unrated badge: got %q", got)
	}
	if got := ratingBadge(10.4); !strings.Contains(got, "#00cc00") {
		t.Errorf("10 badge: got %q", got)
	}
	if got := imageID("https://cf.geekdo-images.com/abc/pic987654.webp"); got != "987654" {
		t.Errorf("imageID: got %q", got)
	}
	if got := imageID(""); got != "" {
		t.Errorf("imageID empty: got %q", got)
	}
}
