package aggregator

import "github.com/pable/go-bgg-stats/internal/model"

// DetectMalformed flags plays without players, without a location or without
// a positive duration. It never alters how those plays are aggregated.
func DetectMalformed(plays model.PlayLog) []model.MalformedPlay {
	out := []model.MalformedPlay{}
	plays.Each(func(p *model.Play) {
		m := model.MalformedPlay{
			PlayID:     p.ID,
			NoPlayers:  len(p.Players) == 0,
			NoLocation: p.Location == "",
			NoDuration: p.Length <= 0,
		}
		if m.NoPlayers || m.NoLocation || m.NoDuration {
			out = append(out, m)
		}
	})
	return out
}
