package temporal

import (
	"sync"

	"github.com/rob-gra/tempora/basetype"
)

// DefaultEpsilon is a collinearity/equality tolerance for callers of
// Normalize that have none of their own (e.g. an exact-valued numeric type
// where 0 is the correct tolerance). Normalize itself uses the eps it is
// given.
const DefaultEpsilon = 0.0

// Normalize returns the minimal-form equivalent of seq: an interior
// instant is dropped when
//
//   - the sequence is Step and the instant equals its predecessor
//     (step-equal-drop: the step never actually changes value there), or
//   - the sequence is Linear and the instant is collinear with its
//     neighbors within eps (linear-collinear-drop: removing it changes no
//     interpolated value).
//
// The first and last instants are never dropped; if fewer than three
// instants remain, Normalize is a no-op.
func Normalize(seq Sequence, eps float64) Sequence {
	if len(seq.insts) < 3 {
		return seq
	}
	adapter, ok := basetype.Default().Adapter(seq.hdr.BaseType)
	if !ok {
		return seq
	}
	kept := make([]Inst, 0, len(seq.insts))
	kept = append(kept, seq.insts[0])
	for i := 1; i < len(seq.insts)-1; i++ {
		prev, cur, next := kept[len(kept)-1], seq.insts[i], seq.insts[i+1]
		if seq.Interp == Step {
			if adapter.Eq(cur.V, prev.V) {
				continue
			}
		} else if seq.Interp == Linear {
			if interp, ok := basetype.AsInterpolator(adapter); ok {
				ratio := ratioBetween(prev, next, cur)
				if interp.Collinear(prev.V, cur.V, next.V, ratio, eps) {
					continue
				}
			}
		}
		kept = append(kept, cur)
	}
	kept = append(kept, seq.insts[len(seq.insts)-1])
	out := seq
	out.insts = kept
	return out
}

func ratioBetween(a, c, mid Inst) float64 {
	total := c.T.Sub(a.T)
	if total <= 0 {
		return 0
	}
	return float64(mid.T.Sub(a.T)) / float64(total)
}

// NormalizeSet returns the minimal-form equivalent of a SequenceSet: every
// component is first normalized, then adjacent components whose shared
// boundary values agree are merged into one sequence. This is the
// "stricter" variant decided for the sequence-set invariant: two
// components that only overlap at a single shared instant with equal
// values are folded together rather than left as two touching sequences,
// since the set invariant forbids any shared instant between
// components, touching or not.
func NormalizeSet(set SequenceSet, eps float64) (SequenceSet, error) {
	normalized := make([]Sequence, len(set.seqs))
	for i, s := range set.seqs {
		normalized[i] = Normalize(s, eps)
	}
	sortSeqs(normalized)

	merged := make([]Sequence, 0, len(normalized))
	merged = append(merged, normalized[0])
	adapter, _ := basetype.Default().Adapter(set.hdr.BaseType)
	for _, s := range normalized[1:] {
		last := merged[len(merged)-1]
		if mergeable(last, s, adapter) {
			merged[len(merged)-1] = mergeSeqs(last, s)
			continue
		}
		merged = append(merged, s)
	}
	return NewSequenceSet(set.hdr.BaseType, set.hdr.interpMode(), merged)
}

// interpMode recovers the Interp a Header was built from; every component
// of a valid set shares one, so the flag round-trips losslessly.
func (h Header) interpMode() Interp {
	if h.Flags.Linear {
		return Linear
	}
	return Step
}

func mergeable(a, b Sequence, adapter basetype.Adapter) bool {
	if !a.Period.Adjacent(b.Period) && !a.Period.Overlaps(b.Period) {
		return false
	}
	if adapter == nil || len(a.insts) == 0 || len(b.insts) == 0 {
		return false
	}
	av := a.insts[len(a.insts)-1]
	bv := b.insts[0]
	if !av.T.Equal(bv.T) {
		// touching-but-not-sharing-a-sample periods (e.g. [a,b) and [b,c])
		// have no instant to compare values at; the boundary always
		// agrees by construction, so these are always merged.
		return a.Period.Upper.Equal(b.Period.Lower)
	}
	return adapter.Eq(av.V, bv.V)
}

func mergeSeqs(a, b Sequence) Sequence {
	insts := make([]Inst, 0, len(a.insts)+len(b.insts))
	insts = append(insts, a.insts...)
	start := 0
	if len(a.insts) > 0 && len(b.insts) > 0 && a.insts[len(a.insts)-1].T.Equal(b.insts[0].T) {
		start = 1
	}
	insts = append(insts, b.insts[start:]...)
	period := a.Period.Union(b.Period)
	return Sequence{
		hdr:    a.hdr,
		Period: period,
		Interp: a.Interp,
		insts:  insts,
		trajOnce: sync.Once{},
	}
}
