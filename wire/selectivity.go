package wire

import (
	"sort"
	"time"

	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/tstamp"
)

// Operator names one of the period comparison operators a query planner
// would ask a selectivity estimate for.
type Operator string

const (
	OpEqual          Operator = "="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpStrictlyBefore Operator = "<<#"
	OpNotAfter       Operator = "&<#"
	OpStrictlyAfter  Operator = "#>>"
	OpNotBefore      Operator = "#&>"
	OpOverlaps       Operator = "&&"
	OpContains       Operator = "@>"
	OpContainedBy    Operator = "<@"
	OpAdjacent       Operator = "-|-"
)

// Stats summarizes a temporal column's periods the way a planner's catalog
// entry would: sorted samples of lower bounds and sorted samples of upper
// bounds. A nil *Stats means no
// statistics were ever collected for the column.
type Stats struct {
	LowerBounds []time.Time
	UpperBounds []time.Time
}

func newStats(lower, upper []time.Time) *Stats {
	s := &Stats{LowerBounds: append([]time.Time(nil), lower...), UpperBounds: append([]time.Time(nil), upper...)}
	sort.Slice(s.LowerBounds, func(i, j int) bool { return s.LowerBounds[i].Before(s.LowerBounds[j]) })
	sort.Slice(s.UpperBounds, func(i, j int) bool { return s.UpperBounds[i].Before(s.UpperBounds[j]) })
	return s
}

// StatsFromPeriods builds a Stats histogram from a sample of periods, the
// way a planner's ANALYZE pass would populate the catalog entry consumed by
// Estimate.
func StatsFromPeriods(periods []tstamp.Period) *Stats {
	if len(periods) == 0 {
		return nil
	}
	lower := make([]time.Time, len(periods))
	upper := make([]time.Time, len(periods))
	for i, p := range periods {
		lower[i] = p.Lower
		upper[i] = p.Upper
	}
	return newStats(lower, upper)
}

// cdf estimates the fraction of a sorted histogram's values that fall at or
// before t, linearly interpolating within the bracketing bucket the way a
// planner's ineq_histogram_selectivity walk does for a scalar histogram.
func cdf(histogram []time.Time, t time.Time) float64 {
	n := len(histogram)
	if n == 0 {
		return 0.5
	}
	i := sort.Search(n, func(i int) bool { return histogram[i].After(t) })
	if i == 0 {
		return 0
	}
	if i == n {
		return 1
	}
	lo, hi := histogram[i-1], histogram[i]
	span := hi.Sub(lo)
	if span <= 0 {
		return float64(i) / float64(n)
	}
	frac := float64(t.Sub(lo)) / float64(span)
	return (float64(i-1) + clamp01(frac)) / float64(n)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Estimate returns the probability in [0,1] that a column summarized by
// stats satisfies op against the constant period c, the core's
// period_selectivity(var, op, const). When stats is nil (no statistics
// collected), Estimate returns policy.DefaultSelectivity for every operator,
// per the documented fallback.
func Estimate(stats *Stats, op Operator, c tstamp.Period, policy config.Policy) float64 {
	if stats == nil || len(stats.LowerBounds) == 0 {
		return policy.DefaultSelectivity
	}
	n := float64(len(stats.LowerBounds))

	switch op {
	case OpStrictlyBefore:
		// var.upper < c.lower
		return clamp01(cdf(stats.UpperBounds, c.Lower))
	case OpNotAfter:
		// var.upper <= c.upper
		return clamp01(cdf(stats.UpperBounds, c.Upper))
	case OpStrictlyAfter:
		// var.lower > c.upper
		return clamp01(1 - cdf(stats.LowerBounds, c.Upper))
	case OpNotBefore:
		// var.lower >= c.lower
		return clamp01(1 - cdf(stats.LowerBounds, c.Lower))
	case OpOverlaps:
		// 1 - P(strictly before) - P(strictly after)
		before := cdf(stats.UpperBounds, c.Lower)
		after := 1 - cdf(stats.LowerBounds, c.Upper)
		return clamp01(1 - before - after)
	case OpContains:
		// var.lower <= c.lower AND var.upper >= c.upper, bounds treated as
		// independent (no cross-correlation statistics collected).
		pLower := cdf(stats.LowerBounds, c.Lower)
		pUpper := 1 - cdf(stats.UpperBounds, c.Upper)
		return clamp01(pLower * pUpper)
	case OpContainedBy:
		pLower := 1 - cdf(stats.LowerBounds, c.Lower)
		pUpper := cdf(stats.UpperBounds, c.Upper)
		return clamp01(pLower * pUpper)
	case OpAdjacent:
		// a rare, near-point event: estimate via the density around the two
		// candidate touching bounds rather than a full interval mass.
		eps := time.Microsecond
		density := cdf(stats.UpperBounds, c.Lower.Add(eps)) - cdf(stats.UpperBounds, c.Lower.Add(-eps))
		density += cdf(stats.LowerBounds, c.Upper.Add(eps)) - cdf(stats.LowerBounds, c.Upper.Add(-eps))
		if density <= 0 {
			return clamp01(1 / n)
		}
		return clamp01(density)
	case OpEqual:
		// equality on a continuous-valued column: approximate by the
		// density of one histogram bucket.
		return clamp01(1 / n)
	case OpLess, OpLessOrEqual:
		// B-tree ordering compares lower bound first, then upper.
		return clamp01(cdf(stats.LowerBounds, c.Lower))
	case OpGreater, OpGreaterOrEqual:
		return clamp01(1 - cdf(stats.LowerBounds, c.Lower))
	default:
		return policy.DefaultSelectivity
	}
}

// EstimateRows converts a selectivity fraction into an expected row count.
func EstimateRows(frac float64, rowCount int64) int64 {
	return int64(clamp01(frac) * float64(rowCount))
}
