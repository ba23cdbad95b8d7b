// Package tstamp implements the time primitives: Period, PeriodSet,
// TimestampSet, and the bound-aware comparison that lets [a,b) and (a,b]
// order distinctly.
package tstamp

import "time"

// Bound is one endpoint of a Period: a timestamp, whether it is the lower
// or the upper bound, and whether it is inclusive. Comparing two Bounds
// with Less implements a (timestamp, is_lower, inclusive) lex order so
// half-open and half-closed periods sharing an endpoint compare
// distinctly.
type Bound struct {
	T         time.Time
	IsLower   bool
	Inclusive bool
}

// rank breaks ties at equal timestamps by effective position: an exclusive
// upper bound sits just before T (rank 0), an inclusive lower or upper
// bound sits at T (ranks 1 and 2 — lower before upper, so [a,T] and [T,b]
// are detected as overlapping at the single point T rather than merely
// adjacent), and an exclusive lower bound sits just after T (rank 3). This
// makes [a,b) followed by [b,c] compare as truly adjacent (no gap, no
// overlap) and [a,b] followed by [b,c] compare as overlapping at {b}.
func (b Bound) rank() int {
	switch {
	case !b.IsLower && !b.Inclusive:
		return 0
	case b.IsLower && b.Inclusive:
		return 1
	case !b.IsLower && b.Inclusive:
		return 2
	default: // lower, exclusive
		return 3
	}
}

// Less implements the bound lex order.
func (b Bound) Less(o Bound) bool {
	if !b.T.Equal(o.T) {
		return b.T.Before(o.T)
	}
	return b.rank() < o.rank()
}

// Equal reports whether b and o denote the identical bound.
func (b Bound) Equal(o Bound) bool {
	return b.T.Equal(o.T) && b.IsLower == o.IsLower && b.Inclusive == o.Inclusive
}
