package temporal

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/bbox"
	"github.com/rob-gra/tempora/terrors"
	"github.com/rob-gra/tempora/tstamp"
)

// InstantSet is a set of instants with strictly increasing, distinct
// timestamps: the value is defined only at those timestamps.
type InstantSet struct {
	hdr   Header
	insts []Inst
}

// NewInstantSet builds an InstantSet, validating n >= 1 and strictly
// increasing timestamps.
func NewInstantSet(bt basetype.TypeTag, insts []Inst) (InstantSet, error) {
	if len(insts) == 0 {
		return InstantSet{}, terrors.New("temporal.NewInstantSet", terrors.ShapeViolation, nil)
	}
	sorted := make([]Inst, len(insts))
	copy(sorted, insts)
	sortInsts(sorted)
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].T.After(sorted[i-1].T) {
			return InstantSet{}, terrors.New("temporal.NewInstantSet", terrors.ShapeViolation, nil)
		}
	}
	return InstantSet{hdr: Header{BaseType: bt, Subtype: SubtypeInstantSet, Flags: flagsFor(bt, InterpNone)}, insts: sorted}, nil
}

func (s InstantSet) Header() Header { return s.hdr }

func (s InstantSet) TimeSpan() tstamp.Period {
	span, _ := spanOf(s.insts)
	return span
}

func (s InstantSet) BBox() bbox.Box { return computeBox(s.hdr.BaseType, s.hdr, s.insts) }

func (s InstantSet) NumInstants() int { return len(s.insts) }

func (s InstantSet) InstantAt(i int) Inst { return s.insts[i] }

// Insts returns the sorted composing instants. The slice must not be
// mutated.
func (s InstantSet) Insts() []Inst { return s.insts }

// ValueAt returns the value held at exactly t, if t is one of the set's
// timestamps.
func (s InstantSet) ValueAt(t time.Time) (any, bool) {
	for _, in := range s.insts {
		if in.T.Equal(t) {
			return in.V, true
		}
		if in.T.After(t) {
			break
		}
	}
	return nil, false
}
