package tstamp

import (
	"time"

	"github.com/rob-gra/tempora/terrors"
)

// Period is a half-open (by default) interval over timestamps with
// explicit bound inclusivity.
type Period struct {
	Lower, Upper       time.Time
	LowerInc, UpperInc bool
}

// NewPeriod validates and builds a Period. It rejects Lower > Upper and the
// degenerate open-equal case (Lower == Upper with both bounds exclusive).
func NewPeriod(lower, upper time.Time, lowerInc, upperInc bool) (Period, error) {
	p := Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}
	if err := p.Valid(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Instant returns the degenerate, fully-inclusive single-timestamp period.
func Instant(t time.Time) Period {
	return Period{Lower: t, Upper: t, LowerInc: true, UpperInc: true}
}

// Valid checks the period's own invariants: Lower <= Upper, and not both
// exclusive when Lower == Upper.
func (p Period) Valid() error {
	if p.Upper.Before(p.Lower) {
		return terrors.New("tstamp.Period.Valid", terrors.ShapeViolation, nil)
	}
	if p.Lower.Equal(p.Upper) && (!p.LowerInc || !p.UpperInc) {
		return terrors.New("tstamp.Period.Valid", terrors.ShapeViolation, nil)
	}
	return nil
}

// LowerBound and UpperBound expose the period's endpoints as Bounds for
// lex-order comparison.
func (p Period) LowerBound() Bound { return Bound{T: p.Lower, IsLower: true, Inclusive: p.LowerInc} }
func (p Period) UpperBound() Bound { return Bound{T: p.Upper, IsLower: false, Inclusive: p.UpperInc} }

// IsInstant reports whether the period collapses to a single timestamp.
func (p Period) IsInstant() bool { return p.Lower.Equal(p.Upper) }

// Contains reports whether t falls within p, honoring bound inclusivity.
func (p Period) Contains(t time.Time) bool {
	if t.Before(p.Lower) || (t.Equal(p.Lower) && !p.LowerInc) {
		return false
	}
	if t.After(p.Upper) || (t.Equal(p.Upper) && !p.UpperInc) {
		return false
	}
	return true
}

// ContainsPeriod reports whether p fully contains o.
func (p Period) ContainsPeriod(o Period) bool {
	lowerOK := p.Lower.Before(o.Lower) || (p.Lower.Equal(o.Lower) && (p.LowerInc || !o.LowerInc))
	upperOK := p.Upper.After(o.Upper) || (p.Upper.Equal(o.Upper) && (p.UpperInc || !o.UpperInc))
	return lowerOK && upperOK
}

// Overlaps reports whether p and o share at least one timestamp.
func (p Period) Overlaps(o Period) bool {
	return p.LowerBound().Less(o.UpperBound()) && o.LowerBound().Less(p.UpperBound())
}

// Adjacent reports whether p and o are disjoint but touch with no gap:
// one's upper bound is the other's lower bound and exactly one side is
// exclusive there.
func (p Period) Adjacent(o Period) bool {
	if p.Overlaps(o) {
		return false
	}
	return p.Upper.Equal(o.Lower) && (p.UpperInc != o.LowerInc) ||
		o.Upper.Equal(p.Lower) && (o.UpperInc != p.LowerInc)
}

// Before reports whether p entirely precedes o (p.Upper bound sorts before
// o's lower bound, with no shared instant).
func (p Period) Before(o Period) bool {
	return p.UpperBound().Less(o.LowerBound())
}

// After reports whether p entirely follows o.
func (p Period) After(o Period) bool { return o.Before(p) }

// Intersection returns the overlapping portion of p and o, if any.
func (p Period) Intersection(o Period) (Period, bool) {
	if !p.Overlaps(o) {
		return Period{}, false
	}
	// pick the later (more restrictive) lower bound
	lower, lowerInc := p.Lower, p.LowerInc
	if o.Lower.After(p.Lower) || (o.Lower.Equal(p.Lower) && !o.LowerInc && p.LowerInc) {
		lower, lowerInc = o.Lower, o.LowerInc
	}
	upper, upperInc := p.Upper, p.UpperInc
	if o.Upper.Before(p.Upper) || (o.Upper.Equal(p.Upper) && !o.UpperInc && p.UpperInc) {
		upper, upperInc = o.Upper, o.UpperInc
	}
	return Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}, true
}

// Union returns the minimal period spanning both p and o (their enclosing
// span). Callers that need a lossless merge — no covered gap — must first
// establish Overlaps(p, o) || Adjacent(p, o); bbox.Box.Expand intentionally
// does not, since an enclosing span is exactly what a bounding box wants.
func (p Period) Union(o Period) Period {
	lower, lowerInc := p.Lower, p.LowerInc
	if o.Lower.Before(p.Lower) || (o.Lower.Equal(p.Lower) && o.LowerInc && !p.LowerInc) {
		lower, lowerInc = o.Lower, o.LowerInc
	}
	upper, upperInc := p.Upper, p.UpperInc
	if o.Upper.After(p.Upper) || (o.Upper.Equal(p.Upper) && o.UpperInc && !p.UpperInc) {
		upper, upperInc = o.Upper, o.UpperInc
	}
	return Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}
}

// Equal reports bound-for-bound equality.
func (p Period) Equal(o Period) bool {
	return p.Lower.Equal(o.Lower) && p.Upper.Equal(o.Upper) &&
		p.LowerInc == o.LowerInc && p.UpperInc == o.UpperInc
}

// String renders p in the conventional bound-bracket notation, e.g.
// "[2024-01-01T00:00:00Z, 2024-01-02T00:00:00Z)".
func (p Period) String() string {
	open, close := "[", ")"
	if !p.LowerInc {
		open = "("
	}
	if p.UpperInc {
		close = "]"
	}
	return open + p.Lower.Format(time.RFC3339Nano) + ", " + p.Upper.Format(time.RFC3339Nano) + close
}

// Cmp orders periods by lower bound, then upper bound, matching the
// skip-list's key comparison.
func (p Period) Cmp(o Period) int {
	switch {
	case p.LowerBound().Equal(o.LowerBound()):
		switch {
		case p.UpperBound().Equal(o.UpperBound()):
			return 0
		case p.UpperBound().Less(o.UpperBound()):
			return -1
		default:
			return 1
		}
	case p.LowerBound().Less(o.LowerBound()):
		return -1
	default:
		return 1
	}
}
