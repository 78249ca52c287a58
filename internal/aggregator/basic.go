package aggregator

import "github.com/pable/go-bgg-stats/internal/model"

type basicBuffer struct {
	totalTimePlayed      int
	totalPlays           int
	totalNumberOfPlayers int
	games                *orderedSet[string]
	mechanisms           *orderedSet[string]
	locations            *orderedSet[string]
	playedWith           *orderedSet[string]
	wins                 int
	playsWithAWinner     int
	complexitySumTime    float64 // Σ weight × length
	complexitySumPlays   float64 // Σ weight × quantity
}

// basicCollector computes the player's overall summary.
type basicCollector struct{}

func (basicCollector) Init(s *session) {
	s.basic = &basicBuffer{
		games:      newOrderedSet[string](),
		mechanisms: newOrderedSet[string](),
		locations:  newOrderedSet[string](),
		playedWith: newOrderedSet[string](),
	}
}

func (basicCollector) Track(ctx Context, s *session, play *model.Play) {
	b := s.basic
	game := ctx.Game(play)

	b.totalTimePlayed += play.Length
	b.totalPlays += play.Quantity
	// Weighted by quantity like the per-game average, so both agree.
	b.totalNumberOfPlayers += len(play.Players) * play.Quantity

	b.games.Add(play.Name)
	for _, m := range game.Mechanisms {
		b.mechanisms.Add(m)
	}
	b.locations.Add(play.Location)
	for _, p := range play.Players {
		if p.Name != ctx.PlayerName {
			b.playedWith.Add(p.Name)
		}
	}

	winners := DetermineWinner(play)
	if len(winners) > 0 {
		b.playsWithAWinner++
		if wonBy(winners, ctx.PlayerName) {
			b.wins++
		}
	}

	b.complexitySumTime += game.Weight * float64(play.Length)
	b.complexitySumPlays += game.Weight * float64(play.Quantity)
}

func (basicCollector) Aggregate(s *session, out *model.PlayerStats) {
	b := s.basic
	out.Basic = model.BasicStats{
		TotalPlays:                         b.totalPlays,
		TotalTimePlayed:                    b.totalTimePlayed,
		UniqueGamesPlayed:                  b.games.Len(),
		UniqueMechanisms:                   b.mechanisms.Len(),
		UniqueLocations:                    b.locations.Len(),
		PlayedWith:                         b.playedWith.Len(),
		PlayedWithList:                     b.playedWith.Items(),
		AveragePlayTime:                    ratio(float64(b.totalTimePlayed), float64(b.totalPlays)),
		AverageNumberOfPlayers:             ratio(float64(b.totalNumberOfPlayers), float64(b.totalPlays)),
		AverageComplexityOverTimePlayed:    ratio(b.complexitySumTime, float64(b.totalTimePlayed)),
		AverageComplexityOverNumberOfPlays: ratio(b.complexitySumPlays, float64(b.totalPlays)),
		Wins:                               b.wins,
		PlaysWithAWinner:                   b.playsWithAWinner,
		WinPercentage:                      percent(b.wins, b.playsWithAWinner),
	}
}
