// Package temporal implements the tagged union of temporal-value subtypes:
// Instant, InstantSet, Sequence, SequenceSet, their invariants, and the
// normalizer that keeps sequences and sequence sets in minimal form.
package temporal

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/bbox"
	"github.com/rob-gra/tempora/tstamp"
)

// Subtype tags which of the four representations a Value holds, the enum
// the core dispatches on.
type Subtype uint8

const (
	SubtypeInstant Subtype = iota
	SubtypeInstantSet
	SubtypeSequence
	SubtypeSequenceSet
)

func (s Subtype) String() string {
	switch s {
	case SubtypeInstant:
		return "Instant"
	case SubtypeInstantSet:
		return "InstantSet"
	case SubtypeSequence:
		return "Sequence"
	case SubtypeSequenceSet:
		return "SequenceSet"
	default:
		return "Unknown"
	}
}

// Interp is a Sequence's interpolation mode.
type Interp uint8

const (
	// InterpNone applies to Instant/InstantSet, which have no
	// interpolation between composing instants.
	InterpNone Interp = iota
	Step
	Linear
)

func (i Interp) String() string {
	switch i {
	case Step:
		return "Stepwise"
	case Linear:
		return "Linear"
	default:
		return "None"
	}
}

// Header is present in every subtype: base type, subtype tag, and the
// feature flags the rest of the core reads without inspecting content.
type Header struct {
	BaseType basetype.TypeTag
	Subtype  Subtype
	Flags    Flags
}

// Flags are the per-value feature bits the core reads without inspecting
// content.
type Flags struct {
	Linear        bool // interpolation is Linear, not Step
	Continuous    bool // base type supports linear interpolation at all
	HasZ          bool
	Geodetic      bool
	HasValueDim   bool
	HasTimeDim    bool
}

func flagsFor(bt basetype.TypeTag, interp Interp) Flags {
	return Flags{
		Linear:      interp == Linear,
		Continuous:  bt.Continuous(),
		Geodetic:    bt == basetype.TGeogPoint,
		HasValueDim: bt != basetype.TBool && bt != basetype.TText,
		HasTimeDim:  true,
	}
}

// Inst is a (value, timestamp) pair: the atomic building block of every
// subtype.
type Inst struct {
	V any
	T time.Time
}

// Value is the common interface every subtype satisfies — the tagged-union
// surface the rest of the core programs against.
type Value interface {
	Header() Header
	TimeSpan() tstamp.Period
	BBox() bbox.Box
	// NumInstants returns the number of composing (v, t) pairs.
	NumInstants() int
	// InstantAt returns the i'th composing instant in temporal order.
	InstantAt(i int) Inst
}
