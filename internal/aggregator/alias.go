package aggregator

import "github.com/pable/go-bgg-stats/internal/model"

// AliasTable maps historical player names to their canonical spelling.
type AliasTable map[string]string

// Normalize returns the canonical name for name.
func (a AliasTable) Normalize(name string) string {
	if canon, ok := a[name]; ok {
		return canon
	}
	return name
}

// apply returns play with every participant name normalized. The input play
// is left untouched; a copy is made only when a name actually changes.
func (a AliasTable) apply(play *model.Play) *model.Play {
	if len(a) == 0 {
		return play
	}
	var players []model.Player
	for i, p := range play.Players {
		canon := a.Normalize(p.Name)
		if canon == p.Name {
			continue
		}
		if players == nil {
			players = make([]model.Player, len(play.Players))
			copy(players, play.Players)
		}
		players[i].Name = canon
	}
	if players == nil {
		return play
	}
	cp := *play
	cp.Players = players
	return &cp
}
