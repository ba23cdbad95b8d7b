// Package tempora implements temporal-value types over arbitrary base
// types: Instant, InstantSet, Sequence, and SequenceSet, plus the
// synchronization, lifting, interpolation, restriction, simplification,
// aggregation, tiling, and wire-serialization primitives built on them.
//
// The subpackages are the library's real surface (temporal, restrict,
// lift, sync, interp, simplify, aggregate, tile, wire, basetype, tstamp,
// bbox, config); this package only re-exports the four subtype
// constructors so a caller building a value doesn't need to import
// tempora/temporal directly for the common case.
package tempora

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/tstamp"
)

// Instant, InstantSet, Sequence and SequenceSet are the four temporal-value
// subtypes; re-exported so callers only need one import for the common
// construction path.
type (
	Instant     = temporal.Instant
	InstantSet  = temporal.InstantSet
	Sequence    = temporal.Sequence
	SequenceSet = temporal.SequenceSet
	Inst        = temporal.Inst
	Value       = temporal.Value
)

// NewInstant builds an Instant fixed at one timestamp.
func NewInstant(bt basetype.TypeTag, v any, t time.Time) Instant {
	return temporal.NewInstant(bt, v, t)
}

// NewInstantSet builds an InstantSet from its composing instants.
func NewInstantSet(bt basetype.TypeTag, insts []Inst) (InstantSet, error) {
	return temporal.NewInstantSet(bt, insts)
}

// NewSequence builds a Sequence over a period, interpolated per mode.
func NewSequence(bt basetype.TypeTag, period tstamp.Period, mode temporal.Interp, insts []Inst) (Sequence, error) {
	return temporal.NewSequence(bt, period, mode, insts)
}

// NewSequenceSet builds a SequenceSet from its composing sequences.
func NewSequenceSet(bt basetype.TypeTag, mode temporal.Interp, seqs []Sequence) (SequenceSet, error) {
	return temporal.NewSequenceSet(bt, mode, seqs)
}
