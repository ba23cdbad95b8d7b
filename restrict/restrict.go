// Package restrict implements the restriction kernel: computing the
// sub-portion of a temporal value matching (at) or excluding (minus) a
// value, a range of values, a timestamp, a timestamp set, a period, or a
// period set.
package restrict

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/interp"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/terrors"
	"github.com/rob-gra/tempora/tstamp"
)

// Mode selects the AT or MINUS branch of restrict_segment: AT keeps the
// portion matching the predicate, MINUS keeps its complement. The kernel
// obeys at(x,S) ∪ minus(x,S) ≡ x for every x and S.
type Mode uint8

const (
	AT Mode = iota
	MINUS
)

// ValueRange is a closed or half-open numeric range the range-restriction
// family matches against, mirroring the bound-inclusivity style of
// tstamp.Period but over float64 rather than time.Time.
type ValueRange struct {
	Min, Max       float64
	MinInc, MaxInc bool
}

func (r ValueRange) contains(v float64, eps float64) bool {
	if v < r.Min-eps || (v == r.Min && !r.MinInc) {
		return false
	}
	if v > r.Max+eps || (v == r.Max && !r.MaxInc) {
		return false
	}
	return true
}

// AtTimestamp restricts v to its value at exactly t: returns an Instant,
// or ok=false if v is undefined at t.
func AtTimestamp(v temporal.Value, t time.Time) (temporal.Instant, bool) {
	switch val := v.(type) {
	case temporal.Instant:
		if val.T.Equal(t) {
			return val, true
		}
	case temporal.InstantSet:
		if vv, ok := val.ValueAt(t); ok {
			return temporal.NewInstant(val.Header().BaseType, vv, t), true
		}
	case temporal.Sequence:
		if vv, ok := val.ValueAt(t); ok {
			return temporal.NewInstant(val.Header().BaseType, vv, t), true
		}
	case temporal.SequenceSet:
		if vv, ok := val.ValueAt(t); ok {
			return temporal.NewInstant(val.Header().BaseType, vv, t), true
		}
	}
	return temporal.Instant{}, false
}

// MinusTimestamp restricts v to every instant/segment not at t. For
// Instant it is all-or-nothing; for the set subtypes it drops the single
// matching sample (InstantSet) or splits a Sequence/SequenceSet around it.
func MinusTimestamp(v temporal.Value, t time.Time) (temporal.Value, error) {
	const op = "restrict.MinusTimestamp"
	switch val := v.(type) {
	case temporal.Instant:
		if val.T.Equal(t) {
			return nil, terrors.New(op, terrors.NotFound, nil)
		}
		return val, nil
	case temporal.InstantSet:
		kept := make([]temporal.Inst, 0, val.NumInstants())
		for i := 0; i < val.NumInstants(); i++ {
			in := val.InstantAt(i)
			if !in.T.Equal(t) {
				kept = append(kept, in)
			}
		}
		if len(kept) == 0 {
			return nil, terrors.New(op, terrors.NotFound, nil)
		}
		return temporal.NewInstantSet(val.Header().BaseType, kept)
	case temporal.Sequence:
		return minusTimestampFromSequence(val, t)
	case temporal.SequenceSet:
		return minusTimestampFromSequenceSet(val, t)
	default:
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
}

func minusTimestampFromSequence(s temporal.Sequence, t time.Time) (temporal.Value, error) {
	if !s.Period.Contains(t) {
		return s, nil
	}
	left, leftOK := segmentBefore(s, t)
	right, rightOK := segmentAfter(s, t)
	switch {
	case leftOK && rightOK:
		seqs := []temporal.Sequence{left, right}
		return temporal.NewSequenceSet(s.Header().BaseType, s.Interp, seqs)
	case leftOK:
		return left, nil
	case rightOK:
		return right, nil
	default:
		return nil, terrors.New("restrict.minusTimestampFromSequence", terrors.NotFound, nil)
	}
}

// minusTimestampFromSequenceSet drops t from whichever component sequence
// (if any) covers it; since the set's periods are pairwise disjoint, at
// most one component is affected.
func minusTimestampFromSequenceSet(s temporal.SequenceSet, t time.Time) (temporal.Value, error) {
	const op = "restrict.minusTimestampFromSequenceSet"
	var out []temporal.Sequence
	for _, sq := range s.Sequences() {
		if !sq.Period.Contains(t) {
			out = append(out, sq)
			continue
		}
		res, err := minusTimestampFromSequence(sq, t)
		if err != nil {
			continue // the whole component was removed
		}
		out = appendResult(out, res)
	}
	return wrapSequences(s.Header().BaseType, s.Sequences()[0].Interp, out, op)
}

func appendResult(out []temporal.Sequence, v temporal.Value) []temporal.Sequence {
	switch r := v.(type) {
	case temporal.Sequence:
		return append(out, r)
	case temporal.SequenceSet:
		return append(out, r.Sequences()...)
	default:
		return out
	}
}

func wrapSequences(bt basetype.TypeTag, mode temporal.Interp, seqs []temporal.Sequence, op string) (temporal.Value, error) {
	if len(seqs) == 0 {
		return nil, terrors.New(op, terrors.NotFound, nil)
	}
	if len(seqs) == 1 {
		return seqs[0], nil
	}
	return temporal.NewSequenceSet(bt, mode, seqs)
}

func segmentBefore(s temporal.Sequence, t time.Time) (temporal.Sequence, bool) {
	if !s.Period.Lower.Before(t) {
		return temporal.Sequence{}, false
	}
	period, err := tstamp.NewPeriod(s.Period.Lower, t, s.Period.LowerInc, false)
	if err != nil {
		return temporal.Sequence{}, false
	}
	insts := instantsInPeriod(s, period)
	if len(insts) == 0 {
		return temporal.Sequence{}, false
	}
	out, err := temporal.NewSequence(s.Header().BaseType, period, s.Interp, insts)
	return out, err == nil
}

func segmentAfter(s temporal.Sequence, t time.Time) (temporal.Sequence, bool) {
	if !s.Period.Upper.After(t) {
		return temporal.Sequence{}, false
	}
	period, err := tstamp.NewPeriod(t, s.Period.Upper, false, s.Period.UpperInc)
	if err != nil {
		return temporal.Sequence{}, false
	}
	insts := instantsInPeriod(s, period)
	if len(insts) == 0 {
		return temporal.Sequence{}, false
	}
	out, err := temporal.NewSequence(s.Header().BaseType, period, s.Interp, insts)
	return out, err == nil
}

// instantsInPeriod collects s's own samples strictly inside period and adds
// a sample at each endpoint of period, open or closed, taken from s.ValueAt
// (an endpoint where s itself is undefined gets none). At an exclusive upper
// endpoint of a Step sequence the added sample repeats the held value, so
// the resulting sub-sequence is still well-formed.
func instantsInPeriod(s temporal.Sequence, period tstamp.Period) []temporal.Inst {
	var out []temporal.Inst
	if v, ok := s.ValueAt(period.Lower); ok {
		out = append(out, temporal.Inst{V: v, T: period.Lower})
	}
	for i := 0; i < s.NumInstants(); i++ {
		in := s.InstantAt(i)
		if period.Contains(in.T) && !in.T.Equal(period.Lower) && !in.T.Equal(period.Upper) {
			out = append(out, in)
		}
	}
	if v, ok := s.ValueAt(period.Upper); ok && period.Upper.After(period.Lower) {
		if s.Interp == temporal.Step && !period.UpperInc && len(out) > 0 {
			v = out[len(out)-1].V
		}
		out = append(out, temporal.Inst{V: v, T: period.Upper})
	}
	return out
}

// AtPeriod restricts s to its overlap with p: interpolating fresh
// boundary samples at p's endpoints when s has no sample exactly there.
func AtPeriod(s temporal.Sequence, p tstamp.Period) (temporal.Sequence, bool) {
	overlap, ok := s.Period.Intersection(p)
	if !ok {
		return temporal.Sequence{}, false
	}
	insts := instantsInPeriod(s, overlap)
	if len(insts) == 0 {
		return temporal.Sequence{}, false
	}
	out, err := temporal.NewSequence(s.Header().BaseType, overlap, s.Interp, insts)
	return out, err == nil
}

// MinusPeriod restricts s to the portion(s) outside p: the complement of
// AtPeriod, which may split s into two sequences either side of p.
func MinusPeriod(s temporal.Sequence, p tstamp.Period) (temporal.Value, error) {
	const op = "restrict.MinusPeriod"
	overlap, ok := s.Period.Intersection(p)
	if !ok {
		return s, nil
	}
	left, leftOK := segmentBefore(s, overlap.Lower)
	right, rightOK := segmentAfter(s, overlap.Upper)
	switch {
	case leftOK && rightOK:
		return temporal.NewSequenceSet(s.Header().BaseType, s.Interp, []temporal.Sequence{left, right})
	case leftOK:
		return left, nil
	case rightOK:
		return right, nil
	default:
		return nil, terrors.New(op, terrors.NotFound, nil)
	}
}

// AtTimestampSet restricts v to its defined values at exactly the members
// of ts, producing an InstantSet.
func AtTimestampSet(v temporal.Value, ts tstamp.TimestampSet) (temporal.Value, error) {
	const op = "restrict.AtTimestampSet"
	var insts []temporal.Inst
	for _, t := range ts.Timestamps() {
		if inst, ok := AtTimestamp(v, t); ok {
			insts = append(insts, temporal.Inst{V: inst.V, T: inst.T})
		}
	}
	if len(insts) == 0 {
		return nil, terrors.New(op, terrors.NotFound, nil)
	}
	return temporal.NewInstantSet(v.Header().BaseType, insts)
}

// MinusTimestampSet restricts v to everywhere except ts's members, folding
// MinusTimestamp across each member in turn.
func MinusTimestampSet(v temporal.Value, ts tstamp.TimestampSet) (temporal.Value, error) {
	cur := v
	for _, t := range ts.Timestamps() {
		next, err := MinusTimestamp(cur, t)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// AtPeriodSet restricts v to its overlap with every member period of ps,
// concatenating the per-period fragments.
func AtPeriodSet(v temporal.Value, ps tstamp.PeriodSet) (temporal.Value, error) {
	const op = "restrict.AtPeriodSet"
	var seqs []temporal.Sequence
	for _, p := range ps.Periods() {
		switch val := v.(type) {
		case temporal.Sequence:
			if out, ok := AtPeriod(val, p); ok {
				seqs = append(seqs, out)
			}
		case temporal.SequenceSet:
			for _, sq := range val.Sequences() {
				if out, ok := AtPeriod(sq, p); ok {
					seqs = append(seqs, out)
				}
			}
		default:
			return nil, terrors.New(op, terrors.Unsupported, nil)
		}
	}
	mode, ok := interpModeOf(v)
	if !ok {
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
	return wrapSequences(v.Header().BaseType, mode, seqs, op)
}

// interpModeOf returns the Interp mode of a Sequence or SequenceSet; ok is
// false for any other subtype.
func interpModeOf(v temporal.Value) (temporal.Interp, bool) {
	switch val := v.(type) {
	case temporal.Sequence:
		return val.Interp, true
	case temporal.SequenceSet:
		return val.Sequences()[0].Interp, true
	default:
		return temporal.InterpNone, false
	}
}

// MinusPeriodSet restricts v to the portion outside every member period of
// ps, folding MinusPeriod across each member in turn.
func MinusPeriodSet(v temporal.Value, ps tstamp.PeriodSet) (temporal.Value, error) {
	const op = "restrict.MinusPeriodSet"
	cur := v
	for _, p := range ps.Periods() {
		switch val := cur.(type) {
		case temporal.Sequence:
			next, err := MinusPeriod(val, p)
			if err != nil {
				return nil, err
			}
			cur = next
		case temporal.SequenceSet:
			var out []temporal.Sequence
			for _, sq := range val.Sequences() {
				next, err := MinusPeriod(sq, p)
				if err != nil {
					continue
				}
				out = appendResult(out, next)
			}
			wrapped, err := wrapSequences(val.Header().BaseType, val.Sequences()[0].Interp, out, op)
			if err != nil {
				return nil, err
			}
			cur = wrapped
		default:
			return nil, terrors.New(op, terrors.Unsupported, nil)
		}
	}
	return cur, nil
}

// AtValue restricts a Sequence to the portion(s) equal to value, per the
// restrictSegment case table below.
func AtValue(s temporal.Sequence, value any, policy config.Policy) (temporal.Value, error) {
	return restrictByValue(s, value, policy, AT)
}

// MinusValue restricts a Sequence to the portion(s) not equal to value.
func MinusValue(s temporal.Sequence, value any, policy config.Policy) (temporal.Value, error) {
	return restrictByValue(s, value, policy, MINUS)
}

func restrictByValue(s temporal.Sequence, value any, policy config.Policy, mode Mode) (temporal.Value, error) {
	const op = "restrict.restrictByValue"
	adapter, ok := basetype.Default().Adapter(s.Header().BaseType)
	if !ok {
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
	insts := s.Insts()
	if len(insts) == 1 {
		eq := adapter.Eq(insts[0].V, value)
		if eq != (mode == AT) {
			return nil, terrors.New(op, terrors.NotFound, nil)
		}
		return temporal.NewInstant(s.Header().BaseType, insts[0].V, insts[0].T), nil
	}
	var runs [][]temporal.Inst
	for i := 1; i < len(insts); i++ {
		runs = appendRuns(runs, restrictSegment(insts[i-1], insts[i], s.Interp, value, adapter, policy, mode))
	}
	return stitchRuns(s.Header().BaseType, s.Interp, runs, op)
}

// restrictSegment is the segment-level AT/MINUS primitive: given
// one segment (a, b) under interp and a scalar value, it returns between
// 0 and 3 contiguous instant runs according to the case table:
//
//	constant segment equal to value        -> AT: whole; MINUS: none
//	constant segment != value              -> AT: none; MINUS: whole
//	step, one endpoint equals value        -> AT: that endpoint; MINUS: rest
//	linear, interior root                  -> AT: root instant;
//	                                           MINUS: two sub-runs around it
//	linear, endpoint(s) equal value only   -> AT: endpoint; MINUS: rest
//
// Each returned run shares its first/last instant's timestamp with its
// neighbor in the segment so appendRuns can stitch adjoining runs across
// segment boundaries without double-counting the shared instant.
func restrictSegment(a, b temporal.Inst, mode temporal.Interp, value any, adapter basetype.Adapter, policy config.Policy, fn Mode) [][]temporal.Inst {
	aEq, bEq := adapter.Eq(a.V, value), adapter.Eq(b.V, value)
	switch {
	case aEq && bEq:
		if fn == AT {
			return [][]temporal.Inst{{a, b}}
		}
		return nil
	case !aEq && !bEq:
		if mode == temporal.Linear {
			if root, ok := linearRoot(a, b, value, adapter, policy); ok {
				if fn == AT {
					return [][]temporal.Inst{{root}}
				}
				return [][]temporal.Inst{{a, root}, {root, b}}
			}
		}
		if fn == AT {
			return nil
		}
		return [][]temporal.Inst{{a, b}}
	default:
		matchIsA := aEq
		if fn == AT {
			if matchIsA {
				return [][]temporal.Inst{{a}}
			}
			return [][]temporal.Inst{{b}}
		}
		// MINUS keeps the rest of the segment as one sub-sequence; the
		// excluded endpoint still bounds the kept run's timestamp.
		return [][]temporal.Inst{{a, b}}
	}
}

func linearRoot(a, b temporal.Inst, value any, adapter basetype.Adapter, policy config.Policy) (temporal.Inst, bool) {
	target, ok := adapter.ToDouble(value)
	if !ok {
		return temporal.Inst{}, false
	}
	av, ok := adapter.ToDouble(a.V)
	if !ok {
		return temporal.Inst{}, false
	}
	bv, ok := adapter.ToDouble(b.V)
	if !ok {
		return temporal.Inst{}, false
	}
	ratio, ok := interp.FindRatioForValue(av, bv, target, policy.Epsilon, policy.RoundoffSnap)
	if !ok || ratio <= policy.Epsilon || ratio >= 1-policy.Epsilon {
		return temporal.Inst{}, false
	}
	dur := b.T.Sub(a.T)
	t := a.T.Add(time.Duration(float64(dur) * ratio))
	return temporal.Inst{V: value, T: t}, true
}

// appendRuns merges a segment's runs into the accumulated run list,
// concatenating with the previous run when they share a boundary instant.
func appendRuns(runs [][]temporal.Inst, segRuns [][]temporal.Inst) [][]temporal.Inst {
	for _, r := range segRuns {
		if len(runs) > 0 {
			last := runs[len(runs)-1]
			if last[len(last)-1].T.Equal(r[0].T) {
				merged := append(append([]temporal.Inst{}, last...), r[1:]...)
				runs[len(runs)-1] = merged
				continue
			}
		}
		runs = append(runs, append([]temporal.Inst{}, r...))
	}
	return runs
}

func stitchRuns(bt basetype.TypeTag, mode temporal.Interp, runs [][]temporal.Inst, op string) (temporal.Value, error) {
	if len(runs) == 0 {
		return nil, terrors.New(op, terrors.NotFound, nil)
	}
	var seqs []temporal.Sequence
	for _, run := range runs {
		if len(run) == 1 {
			seqs = append(seqs, mustInstantSequence(bt, mode, run[0]))
			continue
		}
		period, err := tstamp.NewPeriod(run[0].T, run[len(run)-1].T, true, true)
		if err != nil {
			return nil, err
		}
		seq, err := temporal.NewSequence(bt, period, mode, run)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, seq)
	}
	if len(seqs) == 1 {
		if seqs[0].NumInstants() == 1 {
			in := seqs[0].InstantAt(0)
			return temporal.NewInstant(bt, in.V, in.T), nil
		}
		return seqs[0], nil
	}
	return temporal.NewSequenceSet(bt, mode, seqs)
}

func mustInstantSequence(bt basetype.TypeTag, mode temporal.Interp, in temporal.Inst) temporal.Sequence {
	seq, _ := temporal.NewSequence(bt, tstamp.Instant(in.T), mode, []temporal.Inst{in})
	return seq
}

// AtRange restricts a numeric Sequence to the sub-portion(s) whose value
// falls within r, root-finding the crossing points at segment boundaries
// where the sequence enters/exits the range.
func AtRange(s temporal.Sequence, r ValueRange, policy config.Policy) ([]temporal.Sequence, error) {
	return rangeRestrict(s, r, policy, AT)
}

// MinusRange restricts a numeric Sequence to the sub-portion(s) whose
// value falls outside r: AtRange's complement.
func MinusRange(s temporal.Sequence, r ValueRange, policy config.Policy) ([]temporal.Sequence, error) {
	return rangeRestrict(s, r, policy, MINUS)
}

func rangeRestrict(s temporal.Sequence, r ValueRange, policy config.Policy, fn Mode) ([]temporal.Sequence, error) {
	const op = "restrict.rangeRestrict"
	adapter, ok := basetype.Default().Adapter(s.Header().BaseType)
	if !ok {
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
	keep := func(d float64) bool { return r.contains(d, policy.Epsilon) == (fn == AT) }
	var segs []temporal.Sequence
	var curr []temporal.Inst
	insts := s.Insts()
	flush := func() {
		if len(curr) == 0 {
			return
		}
		period, err := tstamp.NewPeriod(curr[0].T, curr[len(curr)-1].T, true, true)
		if err == nil {
			if seq, err := temporal.NewSequence(s.Header().BaseType, period, s.Interp, curr); err == nil {
				segs = append(segs, seq)
			}
		}
		curr = nil
	}
	for i := 0; i < len(insts); i++ {
		d, ok := adapter.ToDouble(insts[i].V)
		if !ok {
			return nil, terrors.New(op, terrors.Unsupported, nil)
		}
		if keep(d) {
			if i > 0 {
				prevD, _ := adapter.ToDouble(insts[i-1].V)
				if !keep(prevD) && s.Interp == temporal.Linear {
					if entry, ok := crossAtBoundary(insts[i-1], insts[i], prevD, d, r, policy); ok {
						curr = append(curr, entry)
					}
				} else if fn == MINUS && s.Interp == temporal.Linear {
					// both samples lie outside r, yet the segment between
					// them may cross all of r: cut that piece out
					if entry, ok := crossAtBoundary(insts[i-1], insts[i], prevD, d, r, policy); ok {
						if exit, ok := crossAtBoundary(entry, insts[i], entry.V.(float64), d, r, policy); ok {
							curr = append(curr, entry)
							flush()
							curr = append(curr, exit)
						}
					}
				}
			}
			curr = append(curr, insts[i])
		} else {
			if len(curr) > 0 && s.Interp == temporal.Linear {
				prevD, _ := adapter.ToDouble(insts[i-1].V)
				if exit, ok := crossAtBoundary(insts[i-1], insts[i], prevD, d, r, policy); ok {
					curr = append(curr, exit)
				}
			} else if fn == AT && i > 0 && s.Interp == temporal.Linear {
				// both samples lie outside r, yet the segment between them
				// may cross all of r: keep the piece between the crossings
				prevD, _ := adapter.ToDouble(insts[i-1].V)
				if entry, ok := crossAtBoundary(insts[i-1], insts[i], prevD, d, r, policy); ok {
					if exit, ok := crossAtBoundary(entry, insts[i], entry.V.(float64), d, r, policy); ok {
						curr = append(curr, entry, exit)
					}
				}
			}
			flush()
		}
	}
	flush()
	return segs, nil
}

// crossAtBoundary locates the timestamp at which the linear segment (a,b)
// crosses whichever of r's two boundaries lies between av and bv.
func crossAtBoundary(a, b temporal.Inst, av, bv float64, r ValueRange, policy config.Policy) (temporal.Inst, bool) {
	target := r.Min
	if bv > av {
		if av >= r.Min {
			target = r.Max
		}
	} else if av > r.Max {
		target = r.Max
	}
	ratio, ok := interp.FindRatioForValue(av, bv, target, policy.Epsilon, policy.RoundoffSnap)
	if !ok || ratio <= policy.Epsilon || ratio >= 1-policy.Epsilon {
		return temporal.Inst{}, false
	}
	dur := b.T.Sub(a.T)
	t := a.T.Add(time.Duration(float64(dur) * ratio))
	v := av + ratio*(bv-av)
	return temporal.Inst{V: v, T: t}, true
}
