package aggregator

import "github.com/pable/go-bgg-stats/internal/model"

// Context is what a collector knows about the (player, play) pair it is tracking.
type Context struct {
	PlayerName string
	Games      map[int]*model.Game
}

// Game returns the metadata of play's game. Generate guarantees it exists.
func (c Context) Game(play *model.Play) *model.Game {
	return c.Games[play.GameID]
}

// Collector produces one slice of a player's statistics from the play stream.
// Track runs once per (play, participant) in log order; Aggregate runs once
// per player after every play has been tracked.
type Collector interface {
	Init(s *session)
	Track(ctx Context, s *session, play *model.Play)
	Aggregate(s *session, out *model.PlayerStats)
}

// collectors is the fixed registry, run in this order.
var collectors = []Collector{
	basicCollector{},
	byGameCollector{},
	byMechanismCollector{},
	mostCollector{},
}

// session holds one player's accumulation buffers for a single Generate call.
type session struct {
	player      string
	basic       *basicBuffer
	byGame      *byGameBuffer
	byMechanism *byMechanismBuffer
	most        *mostBuffer
}

func newSession(player string) *session {
	s := &session{player: player}
	for _, c := range collectors {
		c.Init(s)
	}
	return s
}
