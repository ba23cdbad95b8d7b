package temporal

import (
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/bbox"
	"github.com/rob-gra/tempora/tstamp"
)

// Instant is a base value fixed at one timestamp. It is always fully
// inclusive.
type Instant struct {
	hdr Header
	Inst
}

// NewInstant builds an Instant. Values are compared through the base-type
// adapter rather than byte layout, so this constructor only records the
// header.
func NewInstant(bt basetype.TypeTag, v any, t time.Time) Instant {
	return Instant{hdr: Header{BaseType: bt, Subtype: SubtypeInstant, Flags: flagsFor(bt, InterpNone)}, Inst: Inst{V: v, T: t}}
}

func (i Instant) Header() Header { return i.hdr }

func (i Instant) TimeSpan() tstamp.Period { return tstamp.Instant(i.T) }

func (i Instant) BBox() bbox.Box {
	return computeBox(i.hdr.BaseType, i.hdr, []Inst{i.Inst})
}

func (i Instant) NumInstants() int { return 1 }

func (i Instant) InstantAt(idx int) Inst {
	if idx != 0 {
		panic("temporal.Instant.InstantAt: index out of range")
	}
	return i.Inst
}
