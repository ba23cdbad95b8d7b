// Package simplify implements the Douglas-Peucker line simplification:
// dropping interior instants whose perpendicular deviation from the
// chord between their neighbors falls under a tolerance, for both plain
// value sequences and the speed-aware variant that also bounds the implied
// velocity change.
package simplify

import (
	"math"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/terrors"
	"gonum.org/v1/gonum/floats"
)

// Value runs Douglas-Peucker over a numeric Sequence's samples, treating
// each (timestamp, value) pair as a 2-D point with time normalized to
// seconds-since-start so the tolerance is comparable to the value's own
// units. minKeep is a floor on the number of instants retained: a split
// that tolerance alone would reject is still taken while fewer than
// minKeep instants have been kept.
func Value(s temporal.Sequence, tolerance float64, minKeep int) (temporal.Sequence, error) {
	const op = "simplify.Value"
	adapter, ok := basetype.Default().Adapter(s.Header().BaseType)
	if !ok {
		return temporal.Sequence{}, terrors.New(op, terrors.Unsupported, nil)
	}
	insts := s.Insts()
	if len(insts) < 3 {
		return s, nil
	}
	xs := make([]float64, len(insts))
	ys := make([]float64, len(insts))
	t0 := insts[0].T
	for i, in := range insts {
		xs[i] = in.T.Sub(t0).Seconds()
		d, ok := adapter.ToDouble(in.V)
		if !ok {
			return temporal.Sequence{}, terrors.New(op, terrors.Unsupported, nil)
		}
		ys[i] = d
	}
	keep := make([]bool, len(insts))
	keep[0], keep[len(insts)-1] = true, true
	kept := 2
	dpValue(xs, ys, 0, len(insts)-1, tolerance, minKeep, &kept, keep)

	out := make([]temporal.Inst, 0, len(insts))
	for i, k := range keep {
		if k {
			out = append(out, insts[i])
		}
	}
	return temporal.NewSequence(s.Header().BaseType, s.Period, s.Interp, out)
}

func dpValue(xs, ys []float64, lo, hi int, tolerance float64, minKeep int, kept *int, keep []bool) {
	if hi <= lo+1 {
		return
	}
	maxDist := -1.0
	split := -1
	for i := lo + 1; i < hi; i++ {
		d := perpDistance(xs[lo], ys[lo], xs[hi], ys[hi], xs[i], ys[i])
		if d > maxDist {
			maxDist, split = d, i
		}
	}
	if maxDist > tolerance || *kept < minKeep {
		keep[split] = true
		*kept++
		dpValue(xs, ys, lo, split, tolerance, minKeep, kept, keep)
		dpValue(xs, ys, split, hi, tolerance, minKeep, kept, keep)
	}
}

// perpDistance computes the perpendicular distance from (px,py) to the
// line through (ax,ay)-(bx,by), using gonum's vector helpers for the
// dot-product/normalization arithmetic rather than hand-rolled scalar math.
func perpDistance(ax, ay, bx, by, px, py float64) float64 {
	seg := []float64{bx - ax, by - ay}
	segLen := floats.Norm(seg, 2)
	if segLen == 0 {
		return floats.Norm([]float64{px - ax, py - ay}, 2)
	}
	toPoint := []float64{px - ax, py - ay}
	cross := seg[0]*toPoint[1] - seg[1]*toPoint[0]
	if cross < 0 {
		cross = -cross
	}
	return cross / segLen
}

// Speed runs the speed-aware Douglas-Peucker variant: a point is also
// kept if dropping it would imply a pointwise speed change (between the
// prior kept point and its successor) exceeding speedTolerance,
// independent of how small its spatial deviation from the chord is.
// minKeep is the same retention floor as Value's.
func Speed(s temporal.Sequence, tolerance, speedTolerance float64, minKeep int) (temporal.Sequence, error) {
	const op = "simplify.Speed"
	adapter, ok := basetype.Default().Adapter(s.Header().BaseType)
	if !ok {
		return temporal.Sequence{}, terrors.New(op, terrors.Unsupported, nil)
	}
	sp, ok := basetype.AsSpatial(adapter)
	if !ok {
		return temporal.Sequence{}, terrors.New(op, terrors.Unsupported, nil)
	}
	insts := s.Insts()
	if len(insts) < 3 {
		return s, nil
	}
	keep := make([]bool, len(insts))
	keep[0], keep[len(insts)-1] = true, true
	kept := 2
	dpSpeed(insts, sp, 0, len(insts)-1, tolerance, speedTolerance, minKeep, &kept, keep)

	out := make([]temporal.Inst, 0, len(insts))
	for i, k := range keep {
		if k {
			out = append(out, insts[i])
		}
	}
	return temporal.NewSequence(s.Header().BaseType, s.Period, s.Interp, out)
}

func dpSpeed(insts []temporal.Inst, sp basetype.SpatialAdapter, lo, hi int, tolerance, speedTolerance float64, minKeep int, kept *int, keep []bool) {
	if hi <= lo+1 {
		return
	}
	a, b := insts[lo], insts[hi]
	maxDev := -1.0
	split := -1
	speedViolated := false
	for i := lo + 1; i < hi; i++ {
		dev := pointToChordDistance(sp, a, b, insts[i])
		if dev > maxDev {
			maxDev, split = dev, i
		}
		if speedBetween(sp, insts[i-1], insts[i]) > 0 &&
			absf(speedBetween(sp, a, insts[i])-speedBetween(sp, insts[i], b)) > speedTolerance {
			speedViolated = true
		}
	}
	if maxDev > tolerance || speedViolated || *kept < minKeep {
		keep[split] = true
		*kept++
		dpSpeed(insts, sp, lo, split, tolerance, speedTolerance, minKeep, kept, keep)
		dpSpeed(insts, sp, split, hi, tolerance, speedTolerance, minKeep, kept, keep)
	}
}

func pointToChordDistance(sp basetype.SpatialAdapter, a, b, p temporal.Inst) float64 {
	ab := sp.Distance2D(a.V, b.V)
	if ab == 0 {
		return sp.Distance2D(a.V, p.V)
	}
	ap := sp.Distance2D(a.V, p.V)
	bp := sp.Distance2D(b.V, p.V)
	// Heron's formula for the triangle's area, then height = 2*area/base,
	// avoids needing the points' raw coordinates (the adapter only
	// promises a Distance2D hook, not coordinate extraction).
	s := (ab + ap + bp) / 2
	areaSq := s * (s - ab) * (s - ap) * (s - bp)
	if areaSq < 0 {
		areaSq = 0
	}
	area := math.Sqrt(areaSq)
	return 2 * area / ab
}

func speedBetween(sp basetype.SpatialAdapter, a, b temporal.Inst) float64 {
	dt := b.T.Sub(a.T).Seconds()
	if dt <= 0 {
		return 0
	}
	return sp.Distance2D(a.V, b.V) / dt
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

