// Package sync implements pairwise synchronization of temporal values:
// merging two sequences' instant timestamps onto a shared grid, so that
// lifted binary operators can be evaluated pointwise.
package sync

import (
	"sort"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/interp"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/terrors"
)

// Mode selects whether Synchronize introduces crossing instants: the
// timestamps at which two Linear sequences' interpolated values would
// cross between samples.
type Mode uint8

const (
	// NoCrossings merges only the two inputs' own timestamps.
	NoCrossings Mode = iota
	// WithCrossings additionally inserts the timestamp of every value
	// crossing between consecutive shared samples, when both sides are
	// Linear over a continuous numeric base type.
	WithCrossings
)

// Synchronize walks a and b's instants in timestamp order and returns,
// for every timestamp where both are defined, the pair of Insts at that
// timestamp. Only the overlapping portion of a.TimeSpan() and
// b.TimeSpan() is considered.
func Synchronize(a, b temporal.Sequence, mode Mode) ([]time.Time, []any, []any, error) {
	const op = "sync.Synchronize"
	overlap, ok := a.Period.Intersection(b.Period)
	if !ok {
		return nil, nil, nil, terrors.New(op, terrors.DomainError, nil)
	}

	times := mergeTimestamps(a, b, overlap)

	if mode == WithCrossings && a.Interp == temporal.Linear && b.Interp == temporal.Linear {
		adapterA, okA := basetype.Default().Adapter(a.Header().BaseType)
		adapterB, okB := basetype.Default().Adapter(b.Header().BaseType)
		if okA && okB {
			times = append(times, crossings(a, b, times, adapterA, adapterB)...)
			times = dedupeSorted(times)
		}
	}

	va := make([]any, len(times))
	vb := make([]any, len(times))
	for i, t := range times {
		v, ok := a.ValueAt(t)
		if !ok {
			return nil, nil, nil, terrors.New(op, terrors.DomainError, nil)
		}
		va[i] = v
		v, ok = b.ValueAt(t)
		if !ok {
			return nil, nil, nil, terrors.New(op, terrors.DomainError, nil)
		}
		vb[i] = v
	}
	return times, va, vb, nil
}

func mergeTimestamps(a, b temporal.Sequence, overlap interface {
	Contains(time.Time) bool
}) []time.Time {
	set := make(map[int64]time.Time)
	collect := func(s temporal.Sequence) {
		for i := 0; i < s.NumInstants(); i++ {
			t := s.InstantAt(i).T
			if overlap.Contains(t) {
				set[t.UnixNano()] = t
			}
		}
	}
	collect(a)
	collect(b)
	out := make([]time.Time, 0, len(set))
	for _, t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// crossings computes, for each consecutive pair of merged timestamps, the
// timestamp at which a's and b's interpolated values are equal, if the
// sign of (a-b) flips across the pair.
func crossings(a, b temporal.Sequence, times []time.Time, adapterA, adapterB basetype.Adapter) []time.Time {
	var out []time.Time
	for i := 1; i < len(times); i++ {
		t1, t2 := times[i-1], times[i]
		va1, ok1 := a.ValueAt(t1)
		va2, ok2 := a.ValueAt(t2)
		vb1, ok3 := b.ValueAt(t1)
		vb2, ok4 := b.ValueAt(t2)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		da1, ok5 := adapterA.ToDouble(va1)
		da2, ok6 := adapterA.ToDouble(va2)
		db1, ok7 := adapterB.ToDouble(vb1)
		db2, ok8 := adapterB.ToDouble(vb2)
		if !ok5 || !ok6 || !ok7 || !ok8 {
			continue
		}
		d1, d2 := da1-db1, da2-db2
		if d1 == 0 || d2 == 0 || (d1 > 0) == (d2 > 0) {
			continue
		}
		ratio, ok := interp.FindRatioForValue(d1, d2, 0, 1e-9, true)
		if !ok {
			continue
		}
		dur := t2.Sub(t1)
		out = append(out, t1.Add(time.Duration(float64(dur)*ratio)))
	}
	return out
}

func dedupeSorted(times []time.Time) []time.Time {
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	out := times[:0]
	var prev time.Time
	first := true
	for _, t := range times {
		if first || !t.Equal(prev) {
			out = append(out, t)
			prev = t
			first = false
		}
	}
	return out
}
