package tstamp

import (
	"sort"

	"github.com/rob-gra/tempora/terrors"
)

// PeriodSet is a finite union of pairwise non-overlapping, non-adjacent
// periods, kept sorted by lower bound.
type PeriodSet struct {
	periods []Period
}

// Normalize sorts periods and merges every pair that overlaps or touches
// into the minimal covering set.
func Normalize(periods []Period) []Period {
	if len(periods) == 0 {
		return nil
	}
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Cmp(sorted[j]) < 0 })

	out := make([]Period, 0, len(sorted))
	cur := sorted[0]
	for _, p := range sorted[1:] {
		if cur.Overlaps(p) || cur.Adjacent(p) {
			cur = cur.Union(p)
			continue
		}
		out = append(out, cur)
		cur = p
	}
	out = append(out, cur)
	return out
}

// NewPeriodSet builds a PeriodSet, normalizing the input.
func NewPeriodSet(periods ...Period) (PeriodSet, error) {
	for _, p := range periods {
		if err := p.Valid(); err != nil {
			return PeriodSet{}, terrors.New("tstamp.NewPeriodSet", terrors.ShapeViolation, err)
		}
	}
	return PeriodSet{periods: Normalize(periods)}, nil
}

// Periods returns the set's normalized, sorted components. The returned
// slice must not be mutated by the caller.
func (ps PeriodSet) Periods() []Period { return ps.periods }

// Len returns the number of component periods.
func (ps PeriodSet) Len() int { return len(ps.periods) }

// Span returns the overall [min lower, max upper] period, or false if ps
// is empty.
func (ps PeriodSet) Span() (Period, bool) {
	if len(ps.periods) == 0 {
		return Period{}, false
	}
	first, last := ps.periods[0], ps.periods[len(ps.periods)-1]
	return Period{Lower: first.Lower, Upper: last.Upper, LowerInc: first.LowerInc, UpperInc: last.UpperInc}, true
}

// Contains reports whether t falls in any component period.
func (ps PeriodSet) Contains(t Period) bool {
	for _, p := range ps.periods {
		if p.ContainsPeriod(t) {
			return true
		}
	}
	return false
}

// Overlaps reports whether p intersects any component period.
func (ps PeriodSet) Overlaps(p Period) bool {
	for _, q := range ps.periods {
		if p.Overlaps(q) {
			return true
		}
	}
	return false
}

// Intersection restricts ps to the portions covered by p.
func (ps PeriodSet) Intersection(p Period) PeriodSet {
	var out []Period
	for _, q := range ps.periods {
		if inter, ok := q.Intersection(p); ok {
			out = append(out, inter)
		}
	}
	return PeriodSet{periods: out}
}

// Union merges ps with another PeriodSet.
func (ps PeriodSet) Union(other PeriodSet) PeriodSet {
	merged := make([]Period, 0, len(ps.periods)+len(other.periods))
	merged = append(merged, ps.periods...)
	merged = append(merged, other.periods...)
	return PeriodSet{periods: Normalize(merged)}
}

// Difference removes every instant covered by other from ps.
func (ps PeriodSet) Difference(other PeriodSet) PeriodSet {
	result := ps.periods
	for _, sub := range other.periods {
		var next []Period
		for _, p := range result {
			next = append(next, periodMinus(p, sub)...)
		}
		result = next
	}
	return PeriodSet{periods: Normalize(result)}
}

// periodMinus returns p with sub's coverage removed, as 0, 1 or 2 periods.
func periodMinus(p, sub Period) []Period {
	inter, ok := p.Intersection(sub)
	if !ok {
		return []Period{p}
	}
	var out []Period
	if p.Lower.Before(inter.Lower) || (p.Lower.Equal(inter.Lower) && p.LowerInc && !inter.LowerInc) {
		out = append(out, Period{Lower: p.Lower, Upper: inter.Lower, LowerInc: p.LowerInc, UpperInc: !inter.LowerInc})
	}
	if p.Upper.After(inter.Upper) || (p.Upper.Equal(inter.Upper) && p.UpperInc && !inter.UpperInc) {
		out = append(out, Period{Lower: inter.Upper, Upper: p.Upper, LowerInc: !inter.UpperInc, UpperInc: p.UpperInc})
	}
	return out
}
