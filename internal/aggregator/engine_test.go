package aggregator

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-bgg-stats/internal/model"
)

// Game ids used by the fixtures.
const (
	catanID    = 13
	azulID     = 230802
	pandemicID = 30549
)

func testGames() []model.Game {
	return []model.Game{
		{GameID: catanID, Name: "Catan", Weight: 2.3, Mechanisms: []string{"Dice Rolling", "Trading", "Network Building"}},
		{GameID: azulID, Name: "Azul", Weight: 1.8, Mechanisms: []string{"Pattern Building", "Tile Placement"}},
		{GameID: pandemicID, Name: "Pandemic", Weight: 2.4, Mechanisms: []string{"Cooperative Game", "Hand Management", "Trading"}},
	}
}

// makePlay builds a quantity-1 play at "Home". Player names ending in '*' won.
func makePlay(id, gameID int, name, date string, length int, players ...string) model.Play {
	p := model.Play{
		ID:       id,
		Name:     name,
		GameID:   gameID,
		Quantity: 1,
		Date:     date,
		Length:   length,
		Location: "Home",
	}
	for _, n := range players {
		won := false
		if n[len(n)-1] == '*' {
			n = n[:len(n)-1]
			won = true
		}
		p.Players = append(p.Players, model.Player{Name: n, Won: won})
	}
	return p
}

// makeLog groups plays by date in the order given.
func makeLog(plays ...model.Play) model.PlayLog {
	var log model.PlayLog
	for _, p := range plays {
		i := log.Index(p.Date)
		if i < 0 {
			log = append(log, model.DayPlays{Date: p.Date})
			i = len(log) - 1
		}
		log[i].Plays = append(log[i].Plays, p)
	}
	return log
}

func mustGenerate(t *testing.T, log model.PlayLog, games []model.Game, opts ...Option) *model.Stats {
	t.Helper()
	stats, err := New(opts...).Generate(log, games)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return stats
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ---- End-to-end ----

func TestCatanTwoPlaysAndAMalformedOne(t *testing.T) {
	p1 := makePlay(1, catanID, "Catan", "2024-03-01", 60, "A*", "B")
	p2 := makePlay(2, catanID, "Catan", "2024-03-02", 90, "A", "B*")
	p3 := makePlay(3, catanID, "Catan", "2024-03-03", 45)

	stats := mustGenerate(t, makeLog(p1, p2, p3), testGames())

	a, ok := stats.PlayerStats["A"]
	if !ok {
		t.Fatal("expected stats for player A")
	}
	if a.Basic.TotalPlays != 2 {
		t.Errorf("TotalPlays: want 2, got %d", a.Basic.TotalPlays)
	}
	if a.Basic.TotalTimePlayed != 150 {
		t.Errorf("TotalTimePlayed: want 150, got %d", a.Basic.TotalTimePlayed)
	}
	if !almostEqual(a.Basic.WinPercentage, 50) {
		t.Errorf("WinPercentage: want 50, got %f", a.Basic.WinPercentage)
	}
	if !almostEqual(a.Basic.AveragePlayTime, 75) {
		t.Errorf("AveragePlayTime: want 75, got %f", a.Basic.AveragePlayTime)
	}

	if len(stats.MalformedPlays) != 1 {
		t.Fatalf("MalformedPlays: want 1, got %d", len(stats.MalformedPlays))
	}
	want := model.MalformedPlay{PlayID: 3, NoPlayers: true}
	if stats.MalformedPlays[0] != want {
		t.Errorf("MalformedPlays[0]: want %+v, got %+v", want, stats.MalformedPlays[0])
	}
	if len(stats.PlayerStats) != 2 {
		t.Errorf("players: want 2, got %d", len(stats.PlayerStats))
	}
}

func TestByGameTotalsMatchBasic(t *testing.T) {
	log := makeLog(
		makePlay(1, catanID, "Catan", "2024-01-01", 60, "A*", "B"),
		makePlay(2, azulID, "Azul", "2024-01-01", 30, "A", "C*"),
		makePlay(3, pandemicID, "Pandemic", "2024-01-02", 45, "A", "B", "C"),
		makePlay(4, azulID, "Azul", "2024-01-03", 35, "B*", "C"),
	)
	multi := makePlay(5, catanID, "Catan", "2024-01-04", 150, "A", "C*")
	multi.Quantity = 3
	log = append(log, makeLog(multi)...)

	stats := mustGenerate(t, log, testGames())
	for name, ps := range stats.PlayerStats {
		sum := 0
		for _, g := range ps.ByGame {
			sum += g.TotalPlays
		}
		if sum != ps.Basic.TotalPlays {
			t.Errorf("%s: ByGame plays sum %d != Basic.TotalPlays %d", name, sum, ps.Basic.TotalPlays)
		}
	}
	if got := stats.PlayerStats["A"].Basic.TotalPlays; got != 6 {
		t.Errorf("A TotalPlays: want 6, got %d", got)
	}
}

func TestWinPercentageWithoutWinnersIsZero(t *testing.T) {
	log := makeLog(
		makePlay(1, pandemicID, "Pandemic", "2024-01-01", 45, "A", "B"),
		makePlay(2, pandemicID, "Pandemic", "2024-01-02", 50, "A", "B"),
	)
	stats := mustGenerate(t, log, testGames())
	a := stats.PlayerStats["A"]
	if a.Basic.WinPercentage != 0 || math.IsNaN(a.Basic.WinPercentage) {
		t.Errorf("Basic.WinPercentage: want 0, got %f", a.Basic.WinPercentage)
	}
	if a.Basic.PlaysWithAWinner != 0 {
		t.Errorf("PlaysWithAWinner: want 0, got %d", a.Basic.PlaysWithAWinner)
	}
	g := a.Game("Pandemic")
	if g == nil {
		t.Fatal("expected Pandemic entry")
	}
	if g.WinPercentage != 0 {
		t.Errorf("ByGame.WinPercentage: want 0, got %f", g.WinPercentage)
	}
}

func TestUndecidedPlaysLeaveDenominator(t *testing.T) {
	log := makeLog(
		makePlay(1, catanID, "Catan", "2024-01-01", 60, "A*", "B"),
		makePlay(2, pandemicID, "Pandemic", "2024-01-02", 50, "A", "B"),
		makePlay(3, catanID, "Catan", "2024-01-03", 60, "A", "B*"),
		makePlay(4, catanID, "Catan", "2024-01-04", 60, "A*", "B"),
	)
	stats := mustGenerate(t, log, testGames())
	a := stats.PlayerStats["A"].Basic
	if a.PlaysWithAWinner != 3 {
		t.Errorf("PlaysWithAWinner: want 3, got %d", a.PlaysWithAWinner)
	}
	if !almostEqual(a.WinPercentage, 200.0/3) {
		t.Errorf("WinPercentage: want %f, got %f", 200.0/3, a.WinPercentage)
	}
	for name, ps := range stats.PlayerStats {
		if ps.Basic.WinPercentage < 0 || ps.Basic.WinPercentage > 100 {
			t.Errorf("%s: WinPercentage %f out of range", name, ps.Basic.WinPercentage)
		}
	}
}

func TestEmptyLogProducesNoPlayers(t *testing.T) {
	stats := mustGenerate(t, nil, testGames())
	if len(stats.PlayerStats) != 0 {
		t.Errorf("players: want 0, got %d", len(stats.PlayerStats))
	}
	if stats.MalformedPlays == nil {
		t.Error("MalformedPlays should be an empty list, not nil")
	}
}

func TestUnknownGameFailsFast(t *testing.T) {
	log := makeLog(
		makePlay(1, catanID, "Catan", "2024-01-01", 60, "A"),
		makePlay(7, 999, "Mystery", "2024-01-02", 60, "A"),
	)
	stats, err := GenerateStats(log, testGames())
	if err == nil {
		t.Fatal("expected error for unknown game id")
	}
	if stats != nil {
		t.Error("expected no partial stats on lookup failure")
	}
	if !errors.Is(err, ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LookupError, got %T", err)
	}
	if le.GameID != 999 || le.PlayID != 7 {
		t.Errorf("LookupError: want play 7 game 999, got play %d game %d", le.PlayID, le.GameID)
	}
}

func TestAliasesMergeIntoOneBuffer(t *testing.T) {
	log := makeLog(
		makePlay(1, catanID, "Catan", "2024-01-01", 60, "Sande*", "B"),
		makePlay(2, catanID, "Catan", "2024-01-02", 60, "Shu_bot", "B*"),
	)
	stats := mustGenerate(t, log, testGames(), WithAliases(map[string]string{"Sande": "Shu_bot"}))

	if _, ok := stats.PlayerStats["Sande"]; ok {
		t.Error("aliased name should not get its own entry")
	}
	s, ok := stats.PlayerStats["Shu_bot"]
	if !ok {
		t.Fatal("expected canonical entry Shu_bot")
	}
	if s.Basic.TotalPlays != 2 {
		t.Errorf("TotalPlays: want 2, got %d", s.Basic.TotalPlays)
	}
	if s.Basic.Wins != 1 {
		t.Errorf("Wins: want 1, got %d", s.Basic.Wins)
	}
	b := stats.PlayerStats["B"].Basic
	if len(b.PlayedWithList) != 1 || b.PlayedWithList[0] != "Shu_bot" {
		t.Errorf("B PlayedWithList: want [Shu_bot], got %v", b.PlayedWithList)
	}
	// Input plays must not be rewritten.
	if log[0].Plays[0].Players[0].Name != "Sande" {
		t.Error("alias normalization mutated the input play")
	}
}

func TestSeparateRunsDoNotShareState(t *testing.T) {
	e := New()
	log := makeLog(makePlay(1, catanID, "Catan", "2024-01-01", 60, "A*", "B"))
	first, err := e.Generate(log, testGames())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := e.Generate(log, testGames())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first.PlayerStats["A"].Basic.TotalPlays != 1 || second.PlayerStats["A"].Basic.TotalPlays != 1 {
		t.Errorf("runs leaked state: first %d, second %d",
			first.PlayerStats["A"].Basic.TotalPlays, second.PlayerStats["A"].Basic.TotalPlays)
	}
}

// ---- Malformed detector ----

func TestDetectMalformed(t *testing.T) {
	ok := makePlay(1, catanID, "Catan", "2024-01-01", 60, "A")
	noLoc := makePlay(2, catanID, "Catan", "2024-01-01", 60, "A")
	noLoc.Location = ""
	noDur := makePlay(3, catanID, "Catan", "2024-01-02", 0, "A")
	all := makePlay(4, catanID, "Catan", "2024-01-02", -5)
	all.Location = ""

	got := DetectMalformed(makeLog(ok, noLoc, noDur, all))
	want := []model.MalformedPlay{
		{PlayID: 2, NoLocation: true},
		{PlayID: 3, NoDuration: true},
		{PlayID: 4, NoPlayers: true, NoLocation: true, NoDuration: true},
	}
	if len(got) != len(want) {
		t.Fatalf("want %d malformed, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d]: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestMalformedPlaysAreStillAggregated(t *testing.T) {
	p := makePlay(1, catanID, "Catan", "2024-01-01", 0, "A")
	p.Location = ""
	stats := mustGenerate(t, makeLog(p), testGames())
	if len(stats.MalformedPlays) != 1 {
		t.Fatalf("MalformedPlays: want 1, got %d", len(stats.MalformedPlays))
	}
	a := stats.PlayerStats["A"].Basic
	if a.TotalPlays != 1 {
		t.Errorf("TotalPlays: want 1, got %d", a.TotalPlays)
	}
	if a.AveragePlayTime != 0 || a.AverageComplexityOverTimePlayed != 0 {
		t.Errorf("zero-length play: want 0 averages, got %f / %f", a.AveragePlayTime, a.AverageComplexityOverTimePlayed)
	}
}

// ---- Winner determination ----

func TestDetermineWinner(t *testing.T) {
	p := makePlay(1, catanID, "Catan", "2024-01-01", 60, "A*", "B", "C*")
	w := DetermineWinner(&p)
	if len(w) != 2 || !wonBy(w, "A") || !wonBy(w, "C") {
		t.Errorf("want winners {A, C}, got %v", w)
	}
	coop := makePlay(2, pandemicID, "Pandemic", "2024-01-01", 60, "A", "B")
	if len(DetermineWinner(&coop)) != 0 {
		t.Error("expected empty winner set")
	}
}
