package aggregator

import "cmp"

// Leaderboard keeps every entry sharing the highest value offered so far.
// It starts at the zero value of V, so entries offered with a zero value are
// kept until something strictly greater arrives.
type Leaderboard[V cmp.Ordered, E comparable] struct {
	Value   V
	Entries []E
}

// Offer applies the tie-break rule: a greater value replaces the board with a
// singleton, an equal value appends, a lesser value is ignored.
func (b *Leaderboard[V, E]) Offer(v V, e E) {
	switch {
	case v > b.Value:
		b.Value = v
		b.Entries = []E{e}
	case v == b.Value:
		b.Entries = append(b.Entries, e)
	}
}

// OfferDistinct is Offer for boards fed once per play rather than once per
// key: an entry already on the board at an equal value is not added twice.
func (b *Leaderboard[V, E]) OfferDistinct(v V, e E) {
	if v == b.Value {
		for _, have := range b.Entries {
			if have == e {
				return
			}
		}
	}
	b.Offer(v, e)
}

// List returns a copy of the entries, never nil.
func (b *Leaderboard[V, E]) List() []E {
	out := make([]E, len(b.Entries))
	copy(out, b.Entries)
	return out
}
