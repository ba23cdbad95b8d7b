package temporal

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/bbox"
	"github.com/rob-gra/tempora/terrors"
	"github.com/rob-gra/tempora/tstamp"
)

// SequenceSet is an ordered, pairwise-disjoint (and, under the stricter
// merge rule, non-adjacent) collection of Sequences sharing one base type
// and interpolation mode.
type SequenceSet struct {
	hdr  Header
	seqs []Sequence
}

// NewSequenceSet builds a SequenceSet, validating that every component
// shares the set's base type and Interp mode, that components are ordered
// by period, and that no two components overlap or touch. The stricter
// "no shared instant at all, not even a touching endpoint" rule (decided
// in the normalizer's merge step) is enforced here too: callers that want
// two adjacent sequences folded into one must run Normalize first.
func NewSequenceSet(bt basetype.TypeTag, mode Interp, seqs []Sequence) (SequenceSet, error) {
	const op = "temporal.NewSequenceSet"
	if len(seqs) == 0 {
		return SequenceSet{}, terrors.New(op, terrors.ShapeViolation, nil)
	}
	sorted := make([]Sequence, len(seqs))
	copy(sorted, seqs)
	sortSeqs(sorted)
	for i, s := range sorted {
		if s.hdr.BaseType != bt {
			return SequenceSet{}, terrors.New(op, terrors.TypeMismatch, nil)
		}
		if s.Interp != mode {
			return SequenceSet{}, terrors.New(op, terrors.TypeMismatch, nil)
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.Period.Overlaps(s.Period) || prev.Period.Adjacent(s.Period) {
				return SequenceSet{}, terrors.New(op, terrors.ShapeViolation, nil)
			}
		}
	}
	return SequenceSet{hdr: Header{BaseType: bt, Subtype: SubtypeSequenceSet, Flags: flagsFor(bt, mode)}, seqs: sorted}, nil
}

func (s SequenceSet) Header() Header { return s.hdr }

func (s SequenceSet) TimeSpan() tstamp.Period {
	span := s.seqs[0].Period
	for _, seq := range s.seqs[1:] {
		span = span.Union(seq.Period)
	}
	return span
}

func (s SequenceSet) BBox() bbox.Box {
	box := s.seqs[0].BBox()
	for _, seq := range s.seqs[1:] {
		box.Expand(seq.BBox())
	}
	return box
}

func (s SequenceSet) NumInstants() int {
	n := 0
	for _, seq := range s.seqs {
		n += seq.NumInstants()
	}
	return n
}

func (s SequenceSet) InstantAt(i int) Inst {
	for _, seq := range s.seqs {
		if i < seq.NumInstants() {
			return seq.InstantAt(i)
		}
		i -= seq.NumInstants()
	}
	panic("temporal.SequenceSet.InstantAt: index out of range")
}

// Sequences returns the composing sequences in period order. Must not be
// mutated.
func (s SequenceSet) Sequences() []Sequence { return s.seqs }

// NumSequences returns the component count.
func (s SequenceSet) NumSequences() int { return len(s.seqs) }

// ValueAt returns the value at t if t falls within one of the composing
// sequences' periods.
func (s SequenceSet) ValueAt(t time.Time) (any, bool) {
	lo, hi := 0, len(s.seqs)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.seqs[mid].Period.Upper.Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.seqs) && s.seqs[lo].Period.Contains(t) {
		return s.seqs[lo].ValueAt(t)
	}
	if lo > 0 && s.seqs[lo-1].Period.Contains(t) {
		return s.seqs[lo-1].ValueAt(t)
	}
	return nil, false
}

func sortSeqs(seqs []Sequence) {
	// insertion sort: sequence sets are small in practice and this avoids
	// pulling in sort.Slice's reflection-based comparator for a type that
	// already has a Cmp.
	for i := 1; i < len(seqs); i++ {
		for j := i; j > 0 && seqs[j].Period.Cmp(seqs[j-1].Period) < 0; j-- {
			seqs[j], seqs[j-1] = seqs[j-1], seqs[j]
		}
	}
}
