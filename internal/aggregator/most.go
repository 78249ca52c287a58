package aggregator

import "github.com/pable/go-bgg-stats/internal/model"

// mostBuffer holds the boards that can only be fed per play. The per-game and
// per-mechanism boards are derived from the sibling buffers at Aggregate time.
type mostBuffer struct {
	mostComplexGamePlayed  Leaderboard[float64, string]
	longestPlay            Leaderboard[float64, model.PlayRef]
	gameWithMostMechanisms Leaderboard[int, string]
}

// mostCollector computes the player's superlatives.
type mostCollector struct{}

func (mostCollector) Init(s *session) {
	s.most = &mostBuffer{}
}

func (mostCollector) Track(ctx Context, s *session, play *model.Play) {
	m := s.most
	game := ctx.Game(play)

	m.mostComplexGamePlayed.OfferDistinct(game.Weight, play.Name)
	// A multi-quantity entry logs the total; compare per repetition.
	m.longestPlay.Offer(
		ratio(float64(play.Length), float64(play.Quantity)),
		model.PlayRef{ID: play.ID, Name: play.Name, Date: play.Date},
	)
	m.gameWithMostMechanisms.OfferDistinct(len(game.Mechanisms), play.Name)
}

func (mostCollector) Aggregate(s *session, out *model.PlayerStats) {
	m := s.most
	res := model.MostStats{
		MostComplexGamePlayed:  gameBoard(&m.mostComplexGamePlayed),
		LongestPlay:            model.PlayBoard{Value: m.longestPlay.Value, Plays: m.longestPlay.List()},
		GameWithMostMechanisms: gameBoard(&m.gameWithMostMechanisms),
	}

	if s.byGame != nil {
		var (
			byPlays     Leaderboard[int, string]
			byDuration  Leaderboard[int, string]
			avgPlay     Leaderboard[float64, string]
			avgPlayers  Leaderboard[float64, string]
			byLocations Leaderboard[int, string]
			mostWon     Leaderboard[float64, string]
		)
		s.byGame.games.Each(func(name string, g *gameBuffer) {
			byPlays.Offer(g.totalPlays, name)
			byDuration.Offer(g.totalDuration, name)
			avgPlay.Offer(g.averagePlayTime(), name)
			avgPlayers.Offer(g.averageNumberOfPlayers(), name)
			byLocations.Offer(g.byLocation.Len(), name)
			mostWon.Offer(g.winPercentage(), name)
		})
		res.MostPlayedByNumberOfPlays = gameBoard(&byPlays)
		res.MostPlayedByDuration = gameBoard(&byDuration)
		res.LongestAveragePlay = gameBoard(&avgPlay)
		res.HighestAveragePlayerCount = gameBoard(&avgPlayers)
		res.GamePlayedAtMostLocations = gameBoard(&byLocations)
		res.MostWonGame = gameBoard(&mostWon)
	}

	if s.byMechanism != nil {
		var byPlays, byGames Leaderboard[int, string]
		s.byMechanism.mechanisms.Each(func(name string, mb *mechanismBuffer) {
			byPlays.Offer(mb.plays, name)
			byGames.Offer(mb.games.Len(), name)
		})
		res.MostPlayedMechanismByPlays = mechanismBoard(&byPlays)
		res.MostPlayedMechanismByGames = mechanismBoard(&byGames)
	}

	out.Most = res
}

func gameBoard[V int | float64](b *Leaderboard[V, string]) model.GameBoard {
	return model.GameBoard{Value: float64(b.Value), Games: b.List()}
}

func mechanismBoard(b *Leaderboard[int, string]) model.MechanismBoard {
	return model.MechanismBoard{Value: float64(b.Value), Mechanisms: b.List()}
}
