package report

import (
	"fmt"
	"math"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pable/go-bgg-stats/internal/model"
)

// ratingColors are the BGG forum background colours per rounded rating.
var ratingColors = map[int]string{
	1:  "#ff0000",
	2:  "#ff3366",
	3:  "#ff6699",
	4:  "#ff66cc",
	5:  "#cc99ff",
	6:  "#9999ff",
	7:  "#99ffff",
	8:  "#66ff99",
	9:  "#33cc99",
	10: "#00cc00",
}

// WeeklyStats are the totals of the weekly post.
type WeeklyStats struct {
	TotalPlays        int
	UniqueTitles      int
	NewGames          int
	AveragePlayTime   float64
	AveragePlayers    float64
	AverageComplexity float64
	OwnGamesPct       float64
	WinPct            float64
}

// Weekly builds the BBCode weekly post of user for the plays dated from..to
// (inclusive).
type Weekly struct {
	User       string
	From, To   time.Time
	games      map[string]model.Game
	collection map[string]model.CollectionEntry
	days       model.PlayLog
}

// NewWeekly selects the days of plays within from..to in date order.
func NewWeekly(user string, games []model.Game, collection []model.CollectionEntry, plays model.PlayLog, from, to time.Time) *Weekly {
	w := &Weekly{
		User:       user,
		From:       from,
		To:         to,
		games:      make(map[string]model.Game, len(games)),
		collection: make(map[string]model.CollectionEntry, len(collection)),
	}
	for _, g := range games {
		w.games[g.Name] = g
	}
	for _, c := range collection {
		w.collection[c.Name] = c
	}
	for _, d := range plays {
		t, err := time.Parse(time.DateOnly, d.Date)
		if err != nil || t.Before(from) || t.After(to) {
			continue
		}
		w.days = append(w.days, d)
	}
	sort.SliceStable(w.days, func(i, j int) bool { return w.days[i].Date < w.days[j].Date })
	return w
}

// Stats computes the weekly totals. Every ratio is 0 on an empty week.
func (w *Weekly) Stats() WeeklyStats {
	var (
		plays, totalTime, totalPlayers, newGames int
		wins, decided                            int
		complexity                               float64
		titles                                   = make(map[string]bool)
		own                                      = make(map[string]bool)
	)
	for _, d := range w.days {
		for _, p := range d.Plays {
			plays += p.Quantity
			totalTime += p.Length
			totalPlayers += len(p.Players) * p.Quantity
			titles[p.Name] = true
			complexity += w.games[p.Name].Weight * float64(p.Length)
			if c, ok := w.collection[p.Name]; ok && c.Status.Own {
				own[p.Name] = true
			}
			if p.New {
				newGames++
			}

			hasWinner, ownerWon := false, false
			for _, pl := range p.Players {
				if pl.Won {
					hasWinner = true
					if pl.UserName == w.User {
						ownerWon = true
					}
				}
			}
			if hasWinner {
				decided++
				if ownerWon {
					wins++
				}
			}
		}
	}
	return WeeklyStats{
		TotalPlays:        plays,
		UniqueTitles:      len(titles),
		NewGames:          newGames,
		AveragePlayTime:   ratio(float64(totalTime), float64(plays)),
		AveragePlayers:    ratio(float64(totalPlayers), float64(plays)),
		AverageComplexity: ratio(complexity, float64(totalTime)),
		OwnGamesPct:       ratio(float64(len(own)), float64(len(titles))) * 100,
		WinPct:            ratio(float64(wins), float64(decided)) * 100,
	}
}

// String renders the whole post.
func (w *Weekly) String() string {
	var b strings.Builder
	s := w.Stats()
	fmt.Fprintf(&b, "[u][b]Weekly stats %s - %s[/b][/u]\n", w.From.Format("2.1.2006"), w.To.Format("2.1.2006"))
	fmt.Fprintf(&b, "Total plays: %d\n", s.TotalPlays)
	fmt.Fprintf(&b, "Unique titles: %d\n", s.UniqueTitles)
	fmt.Fprintf(&b, "New games: %d\n", s.NewGames)
	fmt.Fprintf(&b, "Average play duration: %.0f min\n", math.Round(s.AveragePlayTime))
	fmt.Fprintf(&b, "Average number of players: %.2f\n", s.AveragePlayers)
	fmt.Fprintf(&b, "Average complexity: %.2f\n", s.AverageComplexity)
	fmt.Fprintf(&b, "Own games played: %.2f%%\n", s.OwnGamesPct)
	fmt.Fprintf(&b, "My weekly win percentage: %.2f%%\n", s.WinPct)
	b.WriteString("\n")

	for _, d := range w.days {
		t, _ := time.Parse(time.DateOnly, d.Date)
		fmt.Fprintf(&b, "[b][u]%s[/u][/b]\n", t.Weekday())
		b.WriteString(w.images(d.Plays))
		b.WriteString("\n")
		for _, p := range d.Plays {
			b.WriteString(w.playLine(p))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// images renders one inline thumbnail per distinct game of the day.
func (w *Weekly) images(plays []model.Play) string {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, p := range plays {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		thumb := w.collection[p.Name].Thumbnail
		if thumb == "" {
			thumb = w.games[p.Name].Thumbnail
		}
		if id := imageID(thumb); id != "" {
			fmt.Fprintf(&b, "[imageid=%s small inline]", id)
		}
	}
	return b.String()
}

func (w *Weekly) playLine(p model.Play) string {
	c, inCollection := w.collection[p.Name]

	game := p.Name
	switch {
	case inCollection:
		game = fmt.Sprintf("[thing=%d]%s[/thing]", c.GameID, p.Name)
	case w.games[p.Name].GameID != 0:
		game = fmt.Sprintf("[thing=%d]%s[/thing]", w.games[p.Name].GameID, p.Name)
	}

	players := "solo"
	if len(p.Players) != 1 {
		players = fmt.Sprintf("%d players", len(p.Players))
	}
	quantity := ""
	if p.Quantity != 1 {
		quantity = fmt.Sprintf(", %d plays", p.Quantity)
	}

	lifetime, isNew := "", ""
	if inCollection {
		lifetime = fmt.Sprintf(" ([size=7]all time plays: %d[/size])", c.Plays)
		if p.New {
			isNew = ", [color=#ff5100][size=9]new[/size][/color]"
		}
	}
	return fmt.Sprintf("%s %s%s - %s%s%s", ratingBadge(c.Rating), game, lifetime, players, quantity, isNew)
}

// ratingBadge renders a rating (0 = unrated) as a coloured BBCode badge.
func ratingBadge(r float64) string {
	if r <= 0 {
		return "[BGCOLOR=#ffffff][b] N/A [/b][/BGCOLOR]"
	}
	n := int(math.Round(r))
	n = max(1, min(10, n))
	return fmt.Sprintf("[BGCOLOR=%s][b] %d [/b][/BGCOLOR]", ratingColors[n], n)
}

// imageID extracts the numeric id from a thumbnail URL like .../pic123456.jpg.
func imageID(thumb string) string {
	i := strings.LastIndex(thumb, "/pic")
	if i < 0 {
		return ""
	}
	name := thumb[i+len("/pic"):]
	return strings.TrimSuffix(name, path.Ext(name))
}

// ratio divides num by den, returning 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
