package aggregator

import (
	"sort"

	"github.com/pable/go-bgg-stats/internal/model"
)

type mechanismBuffer struct {
	games *orderedSet[string]
	plays int // logged entries, not quantity
}

type byMechanismBuffer struct {
	mechanisms *orderedMap[string, *mechanismBuffer]
}

// byMechanismCollector ranks the mechanisms of every game the player played.
type byMechanismCollector struct{}

func (byMechanismCollector) Init(s *session) {
	s.byMechanism = &byMechanismBuffer{mechanisms: newOrderedMap[string, *mechanismBuffer]()}
}

func (byMechanismCollector) Track(ctx Context, s *session, play *model.Play) {
	game := ctx.Game(play)
	for _, mech := range game.Mechanisms {
		m := s.byMechanism.mechanisms.GetOrCreate(mech, func() *mechanismBuffer {
			return &mechanismBuffer{games: newOrderedSet[string]()}
		})
		m.games.Add(game.Name)
		m.plays++
	}
}

func (byMechanismCollector) Aggregate(s *session, out *model.PlayerStats) {
	out.ByMechanism = make([]model.MechanismStats, 0, s.byMechanism.mechanisms.Len())
	s.byMechanism.mechanisms.Each(func(name string, m *mechanismBuffer) {
		out.ByMechanism = append(out.ByMechanism, model.MechanismStats{
			Mechanism:     name,
			NumberOfGames: m.games.Len(),
			Games:         m.games.Items(),
			Plays:         m.plays,
		})
	})
	// Stable: equal counts keep first-encountered order.
	sort.SliceStable(out.ByMechanism, func(i, j int) bool {
		return out.ByMechanism[i].Plays > out.ByMechanism[j].Plays
	})
}
