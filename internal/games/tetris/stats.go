package tetris

import "github.com/kamstrup/intmap"

// Stats counts how many pieces of each kind have been drawn.
type Stats struct {
	counts *intmap.Map[Kind, int]
	total  int
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{counts: intmap.New[Kind, int](KindCount)}
}

// Record counts one draw of kind k.
func (s *Stats) Record(k Kind) {
	n, _ := s.counts.Get(k)
	s.counts.Put(k, n+1)
	s.total++
}

// Count returns how many pieces of kind k were drawn.
func (s *Stats) Count(k Kind) int {
	n, _ := s.counts.Get(k)
	return n
}

// Total returns the number of draws recorded.
func (s *Stats) Total() int {
	return s.total
}

// Counts returns per-kind draw counts indexed by kind (index 0 unused).
func (s *Stats) Counts() [KindCount + 1]int {
	var out [KindCount + 1]int
	for k := KindI; k <= KindZ; k++ {
		out[k] = s.Count(k)
	}
	return out
}
