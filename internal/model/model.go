package model

import "sort"

// ---- Input records produced by the BGG client or a dataset import ----

// Player is one participant of a play.
type Player struct {
	Name     string `json:"name"`
	UserName string `json:"userName,omitempty"` // BGG account, empty for guests
	Won      bool   `json:"won"`
	New      bool   `json:"new"` // first time this participant played the game
}

// Play is one logged session of a game. Quantity > 1 means the same
// participants played it several times in a row under one log entry.
type Play struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	GameID     int      `json:"gameId"`
	Quantity   int      `json:"quantity"`
	Date       string   `json:"date"`   // YYYY-MM-DD
	Length     int      `json:"length"` // minutes, whole entry
	Players    []Player `json:"players"`
	Location   string   `json:"location"`
	Incomplete bool     `json:"incomplete"`
	New        bool     `json:"new"` // the owner logged this as a first play
}

// Game is the metadata of a board game referenced by plays.
type Game struct {
	GameID     int      `json:"gameId"`
	Name       string   `json:"name"`
	Published  int      `json:"published"`
	Weight     float64  `json:"weight"`
	Mechanisms []string `json:"mechanisms"`
	Categories []string `json:"categories"`
	Families   []string `json:"families"`
	Designers  []string `json:"designers"`
	Thumbnail  string   `json:"thumbnail"`
}

// CollectionStatus mirrors the status flags BGG keeps per collection item.
type CollectionStatus struct {
	Own        bool `json:"own"`
	PrevOwned  bool `json:"prevowned"`
	ForTrade   bool `json:"fortrade"`
	Want       bool `json:"want"`
	WantToPlay bool `json:"wanttoplay"`
	WantToBuy  bool `json:"wanttobuy"`
	Wishlist   bool `json:"wishlist"`
	Preordered bool `json:"preordered"`
}

// CollectionEntry is one game in a user's collection.
type CollectionEntry struct {
	GameID    int              `json:"gameId"`
	Name      string           `json:"name"`
	Status    CollectionStatus `json:"status"`
	Rating    float64          `json:"rating"` // 0 = not rated
	Plays     int              `json:"plays"`  // lifetime play count
	Thumbnail string           `json:"thumbnail"`
}

// DayPlays holds every play logged on one date.
type DayPlays struct {
	Date  string
	Plays []Play
}

// PlayLog is a play history grouped by date. Dates appear in the order they
// were first recorded; consumers must not re-sort it.
type PlayLog []DayPlays

// Len returns the total number of play entries across all dates.
func (l PlayLog) Len() int {
	n := 0
	for _, d := range l {
		n += len(d.Plays)
	}
	return n
}

// Index returns the position of date in the log, or -1.
func (l PlayLog) Index(date string) int {
	for i, d := range l {
		if d.Date == date {
			return i
		}
	}
	return -1
}

// Each calls fn for every play in log order.
func (l PlayLog) Each(fn func(p *Play)) {
	for i := range l {
		for j := range l[i].Plays {
			fn(&l[i].Plays[j])
		}
	}
}

// GameIDs returns the distinct game ids referenced by the log, first-seen order.
func (l PlayLog) GameIDs() []int {
	seen := make(map[int]bool)
	var ids []int
	l.Each(func(p *Play) {
		if !seen[p.GameID] {
			seen[p.GameID] = true
			ids = append(ids, p.GameID)
		}
	})
	return ids
}

// ---- Engine output ----

// MalformedPlay flags a structurally incomplete play. It is advisory only.
type MalformedPlay struct {
	PlayID     int  `json:"playId"`
	NoPlayers  bool `json:"noPlayers"`
	NoLocation bool `json:"noLocation"`
	NoDuration bool `json:"noDuration"`
}

// BasicStats is the player's overall summary.
type BasicStats struct {
	TotalPlays                         int      `json:"totalPlays"`
	TotalTimePlayed                    int      `json:"totalTimePlayed"`
	UniqueGamesPlayed                  int      `json:"uniqueGamesPlayed"`
	UniqueMechanisms                   int      `json:"uniqueMechanisms"`
	UniqueLocations                    int      `json:"uniqueLocations"`
	PlayedWith                         int      `json:"playedWith"`
	PlayedWithList                     []string `json:"playedWithList"`
	AveragePlayTime                    float64  `json:"averagePlayTime"`
	AverageNumberOfPlayers             float64  `json:"averageNumberOfPlayers"`
	AverageComplexityOverTimePlayed    float64  `json:"averageComplexityOverTimePlayed"`
	AverageComplexityOverNumberOfPlays float64  `json:"averageComplexityOverNumberOfPlays"`
	Wins                               int      `json:"wins"`
	PlaysWithAWinner                   int      `json:"playsWithAWinner"`
	WinPercentage                      float64  `json:"winPercentage"`
}

// LocationCount is the number of plays logged at one location.
type LocationCount struct {
	Location string `json:"location"`
	Plays    int    `json:"plays"`
}

// LocationTie lists every location sharing the highest play count.
type LocationTie struct {
	Locations []string `json:"locations"`
	Plays     int      `json:"plays"`
}

// GameStats is the player's summary for one game.
type GameStats struct {
	Name                   string          `json:"name"`
	TotalPlays             int             `json:"totalPlays"`
	TotalDuration          int             `json:"totalDuration"`
	AveragePlayTime        float64         `json:"averagePlayTime"`
	AverageNumberOfPlayers float64         `json:"averageNumberOfPlayers"`
	ByLocation             []LocationCount `json:"byLocation"`
	PlayedAtLocations      int             `json:"playedAtLocations"`
	MostPlayedLocation     LocationTie     `json:"mostPlayedLocation"`
	PlayedWith             int             `json:"playedWith"`
	PlayedWithList         []string        `json:"playedWithList"`
	Wins                   int             `json:"wins"`
	PlaysWithAWinner       int             `json:"playsWithAWinner"`
	WinPercentage          float64         `json:"winPercentage"`
}

// MechanismStats is the player's summary for one mechanism tag.
type MechanismStats struct {
	Mechanism     string   `json:"mechanism"`
	NumberOfGames int      `json:"numberOfGames"`
	Games         []string `json:"games"`
	Plays         int      `json:"plays"`
}

// PlayRef identifies a single play in a leaderboard.
type PlayRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// GameBoard is a leaderboard of game names sharing the top value.
type GameBoard struct {
	Value float64  `json:"value"`
	Games []string `json:"games"`
}

// PlayBoard is a leaderboard of single plays sharing the top value.
type PlayBoard struct {
	Value float64   `json:"value"`
	Plays []PlayRef `json:"plays"`
}

// MechanismBoard is a leaderboard of mechanisms sharing the top value.
type MechanismBoard struct {
	Value      float64  `json:"value"`
	Mechanisms []string `json:"mechanisms"`
}

// MostStats holds the player's superlatives. Every board keeps all co-leaders.
type MostStats struct {
	MostComplexGamePlayed      GameBoard      `json:"mostComplexGamePlayed"`
	LongestPlay                PlayBoard      `json:"longestPlay"`
	LongestAveragePlay         GameBoard      `json:"longestAveragePlay"`
	MostPlayedByDuration       GameBoard      `json:"mostPlayedByDuration"`
	MostPlayedByNumberOfPlays  GameBoard      `json:"mostPlayedByNumberOfPlays"`
	HighestAveragePlayerCount  GameBoard      `json:"highestAveragePlayerCount"`
	GamePlayedAtMostLocations  GameBoard      `json:"gamePlayedAtMostLocations"`
	MostWonGame                GameBoard      `json:"mostWonGame"`
	MostPlayedMechanismByPlays MechanismBoard `json:"mostPlayedMechanismByPlays"`
	MostPlayedMechanismByGames MechanismBoard `json:"mostPlayedMechanismByGames"`
	GameWithMostMechanisms     GameBoard      `json:"gameWithMostMechanisms"`
}

// PlayerStats is the full result for one player, one field per collector.
type PlayerStats struct {
	Basic       BasicStats       `json:"basic"`
	ByGame      []GameStats      `json:"byGame"`
	ByMechanism []MechanismStats `json:"byMechanism"`
	Most        MostStats        `json:"most"`
}

// Game returns the per-game entry for name, or nil.
func (s *PlayerStats) Game(name string) *GameStats {
	for i := range s.ByGame {
		if s.ByGame[i].Name == name {
			return &s.ByGame[i]
		}
	}
	return nil
}

// Stats is the output of one aggregation run.
type Stats struct {
	PlayerStats    map[string]*PlayerStats `json:"playerStats"`
	MalformedPlays []MalformedPlay         `json:"malformedPlays"`
}

// PlayerNames returns player names ordered by total plays desc, then name.
func (s *Stats) PlayerNames() []string {
	names := make([]string, 0, len(s.PlayerStats))
	for n := range s.PlayerStats {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.PlayerStats[names[i]], s.PlayerStats[names[j]]
		if a.Basic.TotalPlays != b.Basic.TotalPlays {
			return a.Basic.TotalPlays > b.Basic.TotalPlays
		}
		return names[i] < names[j]
	})
	return names
}

// ---- Storage-side summaries ----

// UserSummary describes one stored dataset.
type UserSummary struct {
	User        string
	Plays       int
	Dates       int
	FirstDate   string
	LastDate    string
	Players     int
	LastStatsAt string
	LastRunID   string
}

// StatsRun records one persisted aggregation run.
type StatsRun struct {
	RunID     string
	User      string
	CreatedAt string
	Players   int
	Malformed int
}

// PlayerTrendPoint is one player's headline numbers in one stats run.
type PlayerTrendPoint struct {
	RunID         string
	CreatedAt     string
	TotalPlays    int
	TotalTime     int
	UniqueGames   int
	WinPercentage float64
}
