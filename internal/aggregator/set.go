package aggregator

// orderedSet is a set that remembers insertion order.
type orderedSet[T comparable] struct {
	index map[T]struct{}
	items []T
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{index: make(map[T]struct{})}
}

// Add inserts v and reports whether it was new.
func (s *orderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet[T]) Len() int { return len(s.items) }

// Items returns a copy in insertion order, never nil.
func (s *orderedSet[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// orderedMap is a map that remembers the order keys were first inserted.
type orderedMap[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{index: make(map[K]int)}
}

// GetOrCreate returns the value for k, creating it with mk on first use.
func (m *orderedMap[K, V]) GetOrCreate(k K, mk func() V) V {
	if i, ok := m.index[k]; ok {
		return m.vals[i]
	}
	v := mk()
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return v
}

func (m *orderedMap[K, V]) Len() int { return len(m.keys) }

// Each visits entries in first-inserted order.
func (m *orderedMap[K, V]) Each(fn func(k K, v V)) {
	for i, k := range m.keys {
		fn(k, m.vals[i])
	}
}

// ratio divides num by den, returning 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// percent is ratio scaled to 0..100.
func percent(num, den int) float64 {
	return ratio(float64(num), float64(den)) * 100
}

// counter tallies keys in first-seen order.
type counter[K comparable] struct {
	index  map[K]int
	keys   []K
	counts []int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{index: make(map[K]int)}
}

func (c *counter[K]) Add(k K, n int) {
	i, ok := c.index[k]
	if !ok {
		i = len(c.keys)
		c.index[k] = i
		c.keys = append(c.keys, k)
		c.counts = append(c.counts, 0)
	}
	c.counts[i] += n
}

func (c *counter[K]) Len() int { return len(c.keys) }

func (c *counter[K]) Each(fn func(k K, n int)) {
	for i, k := range c.keys {
		fn(k, c.counts[i])
	}
}
