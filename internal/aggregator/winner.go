package aggregator

import "github.com/pable/go-bgg-stats/internal/model"

// DetermineWinner returns the names of every player marked as a winner.
// An empty set means the play had no winner (co-op loss, unscored) and is
// left out of every win percentage.
func DetermineWinner(play *model.Play) map[string]struct{} {
	winners := make(map[string]struct{})
	for _, p := range play.Players {
		if p.Won {
			winners[p.Name] = struct{}{}
		}
	}
	return winners
}

// wonBy reports whether name is in the winner set.
func wonBy(winners map[string]struct{}, name string) bool {
	_, ok := winners[name]
	return ok
}
