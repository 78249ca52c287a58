package storage

import "github.com/pable/go-bgg-stats/internal/model"

// MergePlays merges a newly fetched play log into a stored one. A date present
// in fetched replaces the stored entry for that date in place; dates only in
// fetched are appended in fetch order; every other stored date is kept.
// Neither input is modified.
func MergePlays(stored, fetched model.PlayLog) model.PlayLog {
	if len(fetched) == 0 {
		return stored
	}
	out := make(model.PlayLog, len(stored), len(stored)+len(fetched))
	copy(out, stored)

	pos := make(map[string]int, len(out))
	for i, d := range out {
		pos[d.Date] = i
	}
	for _, d := range fetched {
		if i, ok := pos[d.Date]; ok {
			out[i] = d
			continue
		}
		pos[d.Date] = len(out)
		out = append(out, d)
	}
	return out
}
