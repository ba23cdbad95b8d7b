// Package lift implements the generic function-lifting engine: applying
// a scalar function pointwise across one, two or three temporal values,
// synchronizing their time grids first and materializing a discontinuity
// when the lifted function's result type cannot hold a smooth transition
// between two pointwise results.
package lift

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/sync"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/terrors"
	"github.com/rob-gra/tempora/tstamp"
)

// Unary1 lifts f pointwise across every instant of v, reusing v's
// timestamps, period and interpolation mode. The result base type is
// resultBT; if resultBT is not continuous the output is forced to Step
// interpolation: a lifted comparison or boolean test has no meaningful
// linear interpolation, so the result can only ever hold discretely.
func Unary1(v temporal.Value, resultBT basetype.TypeTag, f func(any) any) (temporal.Value, error) {
	const op = "lift.Unary1"
	switch val := v.(type) {
	case temporal.Instant:
		return temporal.NewInstant(resultBT, f(val.V), val.T), nil
	case temporal.InstantSet:
		insts := make([]temporal.Inst, val.NumInstants())
		for i := 0; i < val.NumInstants(); i++ {
			in := val.InstantAt(i)
			insts[i] = temporal.Inst{V: f(in.V), T: in.T}
		}
		return temporal.NewInstantSet(resultBT, insts)
	case temporal.Sequence:
		mode := val.Interp
		if !resultBT.Continuous() {
			mode = temporal.Step
		}
		insts := make([]temporal.Inst, val.NumInstants())
		for i := 0; i < val.NumInstants(); i++ {
			in := val.InstantAt(i)
			insts[i] = temporal.Inst{V: f(in.V), T: in.T}
		}
		return temporal.NewSequence(resultBT, val.Period, mode, insts)
	case temporal.SequenceSet:
		seqs := make([]temporal.Sequence, val.NumSequences())
		for i, s := range val.Sequences() {
			lifted, err := Unary1(s, resultBT, f)
			if err != nil {
				return nil, err
			}
			seqs[i] = lifted.(temporal.Sequence)
		}
		mode := temporal.Step
		if resultBT.Continuous() {
			mode = seqs[0].Interp
		}
		return temporal.NewSequenceSet(resultBT, mode, seqs)
	default:
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
}

// Options carries the lifting engine's per-call hints beyond arity and
// base types.
type Options struct {
	// Invert commutes the arguments before f is applied: set when the
	// caller invoked the binary form with the temporal operand on the
	// right (e.g. 5 - tfloat rather than tfloat - 5).
	Invert bool
	// Discontinuous requests midpoint probing: f's result is treated as
	// possibly jumping instantaneously between samples (comparisons,
	// boolean tests, text concatenation), rather than interpolating
	// smoothly alongside the inputs.
	Discontinuous bool
}

// Binary2 lifts a two-argument function across a and b: Instant x
// Instant requires equal timestamps; Sequence x Sequence synchronizes
// first via sync.Synchronize, optionally inserting crossing instants when
// crossMode requests it and both sides are Linear. opts.Invert swaps the
// argument order before f is ever called; opts.Discontinuous routes
// Sequence x Sequence through liftDiscontinuous instead of the smooth
// pointwise path.
func Binary2(a, b temporal.Value, resultBT basetype.TypeTag, f func(x, y any) any, crossMode sync.Mode, opts Options) (temporal.Value, error) {
	const op = "lift.Binary2"
	if opts.Invert {
		a, b = b, a
	}
	switch av := a.(type) {
	case temporal.Instant:
		bv, ok := b.(temporal.Instant)
		if !ok || !av.T.Equal(bv.T) {
			return nil, terrors.New(op, terrors.ShapeViolation, nil)
		}
		return temporal.NewInstant(resultBT, f(av.V, bv.V), av.T), nil
	case temporal.Sequence:
		bv, ok := b.(temporal.Sequence)
		if !ok {
			return nil, terrors.New(op, terrors.TypeMismatch, nil)
		}
		if opts.Discontinuous {
			return liftDiscontinuous(av, bv, resultBT, f)
		}
		times, va, vb, err := sync.Synchronize(av, bv, crossMode)
		if err != nil {
			return nil, err
		}
		if len(times) == 0 {
			return nil, terrors.New(op, terrors.DomainError, nil)
		}
		insts := make([]temporal.Inst, len(times))
		for i, t := range times {
			insts[i] = temporal.Inst{V: f(va[i], vb[i]), T: t}
		}
		mode := temporal.Step
		if resultBT.Continuous() && av.Interp == temporal.Linear && bv.Interp == temporal.Linear {
			mode = temporal.Linear
		}
		period, err := tstamp.NewPeriod(times[0], times[len(times)-1], true, true)
		if err != nil {
			return nil, err
		}
		return temporal.NewSequence(resultBT, period, mode, insts)
	default:
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
}

// liftDiscontinuous implements the discontinuity pipeline: synchronize
// with crossings, then for every pair of consecutive synchronized
// instants probe f at the segment midpoint. If the midpoint result
// differs from both endpoints' results, f jumps somewhere strictly
// inside the segment; rather than literally splitting into three
// sub-sequences (the endpoint-held value, a single-instant sub-sequence
// at the crossing, and the new held value — spec's worded form), this
// folds the same information into one Step sequence with an extra
// instant materialized at the probed crossing timestamp, since Step's
// "hold until next sample" semantics already reproduce the held portions
// either side of the jump.
func liftDiscontinuous(a, b temporal.Sequence, resultBT basetype.TypeTag, f func(x, y any) any) (temporal.Value, error) {
	const op = "lift.liftDiscontinuous"
	times, va, vb, err := sync.Synchronize(a, b, sync.WithCrossings)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, terrors.New(op, terrors.DomainError, nil)
	}
	var insts []temporal.Inst
	insts = append(insts, temporal.Inst{V: f(va[0], vb[0]), T: times[0]})
	for i := 1; i < len(times); i++ {
		left := f(va[i-1], vb[i-1])
		right := f(va[i], vb[i])
		mid := times[i-1].Add(times[i].Sub(times[i-1]) / 2)
		av, aok := a.ValueAt(mid)
		bv, bok := b.ValueAt(mid)
		if aok && bok {
			midVal := f(av, bv)
			if midVal != left && midVal != right {
				insts = append(insts, temporal.Inst{V: midVal, T: mid})
			}
		}
		insts = append(insts, temporal.Inst{V: right, T: times[i]})
	}
	period, err := tstamp.NewPeriod(times[0], times[len(times)-1], true, true)
	if err != nil {
		return nil, err
	}
	return temporal.NewSequence(resultBT, period, temporal.Step, insts)
}

// Ternary3 lifts a three-argument function across a, b and c by pairwise
// synchronizing (a,b) then (ab,c): only the Sequence case is meaningful in
// practice (e.g. a windowed blend of three series).
func Ternary3(a, b, c temporal.Value, resultBT basetype.TypeTag, f func(x, y, z any) any, crossMode sync.Mode, opts Options) (temporal.Value, error) {
	pairBT := resultBT
	ab, err := Binary2(a, b, pairBT, func(x, y any) any { return [2]any{x, y} }, crossMode, Options{})
	if err != nil {
		return nil, err
	}
	return Binary2(ab, c, resultBT, func(xy, z any) any {
		pair := xy.([2]any)
		return f(pair[0], pair[1], z)
	}, crossMode, opts)
}

// AtInstant evaluates a two-argument lift between a Sequence and a single
// external instant value applied uniformly across the sequence's own
// timestamps: used by comparison-against-constant style lifts where the
// second operand has no time dimension of its own.
func AtInstant(v temporal.Value, t time.Time, constVal any, resultBT basetype.TypeTag, f func(x, y any) any) (temporal.Value, error) {
	return Unary1(v, resultBT, func(x any) any { return f(x, constVal) })
}
