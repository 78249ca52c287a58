package aggregator

import "github.com/pable/go-bgg-stats/internal/model"

type gameBuffer struct {
	totalDuration        int
	totalPlays           int
	totalNumberOfPlayers int
	byLocation           *counter[string]
	playedWith           *orderedSet[string]
	wins                 int
	playsWithAWinner     int
}

func (g *gameBuffer) averagePlayTime() float64 {
	return ratio(float64(g.totalDuration), float64(g.totalPlays))
}

func (g *gameBuffer) averageNumberOfPlayers() float64 {
	return ratio(float64(g.totalNumberOfPlayers), float64(g.totalPlays))
}

func (g *gameBuffer) winPercentage() float64 {
	return percent(g.wins, g.playsWithAWinner)
}

// byGameBuffer is keyed by game name in first-played order.
type byGameBuffer struct {
	games *orderedMap[string, *gameBuffer]
}

// byGameCollector computes per-game summaries.
type byGameCollector struct{}

func (byGameCollector) Init(s *session) {
	s.byGame = &byGameBuffer{games: newOrderedMap[string, *gameBuffer]()}
}

func (byGameCollector) Track(ctx Context, s *session, play *model.Play) {
	g := s.byGame.games.GetOrCreate(play.Name, func() *gameBuffer {
		return &gameBuffer{
			byLocation: newCounter[string](),
			playedWith: newOrderedSet[string](),
		}
	})

	g.totalDuration += play.Length
	g.totalPlays += play.Quantity
	g.totalNumberOfPlayers += len(play.Players) * play.Quantity
	g.byLocation.Add(play.Location, play.Quantity)
	for _, p := range play.Players {
		if p.Name != ctx.PlayerName {
			g.playedWith.Add(p.Name)
		}
	}

	winners := DetermineWinner(play)
	if len(winners) > 0 {
		g.playsWithAWinner++
		if wonBy(winners, ctx.PlayerName) {
			g.wins++
		}
	}
}

func (byGameCollector) Aggregate(s *session, out *model.PlayerStats) {
	out.ByGame = make([]model.GameStats, 0, s.byGame.games.Len())
	s.byGame.games.Each(func(name string, g *gameBuffer) {
		var top Leaderboard[int, string]
		byLocation := make([]model.LocationCount, 0, g.byLocation.Len())
		g.byLocation.Each(func(loc string, n int) {
			byLocation = append(byLocation, model.LocationCount{Location: loc, Plays: n})
			top.Offer(n, loc)
		})
		out.ByGame = append(out.ByGame, model.GameStats{
			Name:                   name,
			TotalPlays:             g.totalPlays,
			TotalDuration:          g.totalDuration,
			AveragePlayTime:        g.averagePlayTime(),
			AverageNumberOfPlayers: g.averageNumberOfPlayers(),
			ByLocation:             byLocation,
			PlayedAtLocations:      g.byLocation.Len(),
			MostPlayedLocation:     model.LocationTie{Locations: top.List(), Plays: top.Value},
			PlayedWith:             g.playedWith.Len(),
			PlayedWithList:         g.playedWith.Items(),
			Wins:                   g.wins,
			PlaysWithAWinner:       g.playsWithAWinner,
			WinPercentage:          g.winPercentage(),
		})
	})
}
