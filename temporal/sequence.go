package temporal

import (
	"sync"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/bbox"
	"github.com/rob-gra/tempora/interp"
	"github.com/rob-gra/tempora/terrors"
	"github.com/rob-gra/tempora/tstamp"
)

// Sequence is a continuous-time value over a Period, interpolated between
// its composing instants according to its Interp mode.
//
// Invariants enforced by NewSequence:
//   - n >= 1 composing instants, strictly increasing timestamps.
//   - the instant timestamps must equal the period's own endpoints where
//     the period is inclusive there (a sequence carries no value outside
//     [Period.Lower, Period.Upper]).
//   - if n == 1, the period must be the degenerate instant period.
//   - Linear requires a continuous base type.
//   - if Step and the upper bound is exclusive, the last two values must
//     be equal — the open end never actually takes the final sample, so
//     that sample must restate the held value rather than introduce a new
//     one the sequence never attains.
type Sequence struct {
	hdr    Header
	Period tstamp.Period
	Interp Interp
	insts  []Inst

	trajOnce sync.Once
	traj     any // *geom.LineString, built lazily; see trajectory.go
}

// NewSequence builds a Sequence, validating the invariants above.
func NewSequence(bt basetype.TypeTag, period tstamp.Period, mode Interp, insts []Inst) (Sequence, error) {
	const op = "temporal.NewSequence"
	if len(insts) == 0 {
		return Sequence{}, terrors.New(op, terrors.ShapeViolation, nil)
	}
	sorted := make([]Inst, len(insts))
	copy(sorted, insts)
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].T.After(sorted[i-1].T) {
			return Sequence{}, terrors.New(op, terrors.ShapeViolation, nil)
		}
	}
	if err := period.Valid(); err != nil {
		return Sequence{}, err
	}
	first, last := sorted[0].T, sorted[len(sorted)-1].T
	if first.Before(period.Lower) || last.After(period.Upper) ||
		(period.LowerInc && !first.Equal(period.Lower)) || (period.UpperInc && !last.Equal(period.Upper)) {
		return Sequence{}, terrors.New(op, terrors.ShapeViolation, nil)
	}
	if len(sorted) == 1 && !period.IsInstant() {
		return Sequence{}, terrors.New(op, terrors.ShapeViolation, nil)
	}
	if mode == Linear && !bt.Continuous() {
		return Sequence{}, terrors.Newf(op, terrors.TypeMismatch, "base type %s has no linear interpolation", bt)
	}
	if mode == Step && !period.UpperInc && len(sorted) >= 2 {
		adapter, ok := basetype.Default().Adapter(bt)
		if ok && !adapter.Eq(sorted[len(sorted)-1].V, sorted[len(sorted)-2].V) {
			return Sequence{}, terrors.New(op, terrors.ShapeViolation, nil)
		}
	}
	return Sequence{
		hdr:    Header{BaseType: bt, Subtype: SubtypeSequence, Flags: flagsFor(bt, mode)},
		Period: period,
		Interp: mode,
		insts:  sorted,
	}, nil
}

func (s Sequence) Header() Header { return s.hdr }

func (s Sequence) TimeSpan() tstamp.Period { return s.Period }

func (s Sequence) BBox() bbox.Box {
	box := computeBox(s.hdr.BaseType, s.hdr, s.insts)
	box.Period = s.Period
	return box
}

func (s Sequence) NumInstants() int { return len(s.insts) }

func (s Sequence) InstantAt(i int) Inst { return s.insts[i] }

// Insts returns the composing instants in temporal order. Must not be
// mutated.
func (s Sequence) Insts() []Inst { return s.insts }

// segmentFor returns the bracketing pair of instants whose closed segment
// contains t, along with ok=false if t falls outside the sequence's span.
func (s Sequence) segmentFor(t time.Time) (a, b Inst, ok bool) {
	if !s.Period.Contains(t) {
		return Inst{}, Inst{}, false
	}
	if len(s.insts) == 1 {
		return s.insts[0], s.insts[0], true
	}
	for i := 1; i < len(s.insts); i++ {
		if !t.After(s.insts[i].T) {
			return s.insts[i-1], s.insts[i], true
		}
	}
	return s.insts[len(s.insts)-2], s.insts[len(s.insts)-1], true
}

// ValueAt returns the sequence's value at t, interpolating between the
// bracketing instants per the sequence's Interp mode.
func (s Sequence) ValueAt(t time.Time) (any, bool) {
	a, b, ok := s.segmentFor(t)
	if !ok {
		return nil, false
	}
	adapter, ok := basetype.Default().Adapter(s.hdr.BaseType)
	if !ok {
		return nil, false
	}
	if a.T.Equal(b.T) {
		return adapter.Copy(a.V), true
	}
	v, err := interp.ValueAt(a.V, b.V, a.T, b.T, t, s.Interp == Linear, adapter)
	if err != nil {
		return nil, false
	}
	return v, true
}
