package tstamp

import (
	"sort"
	"time"

	"github.com/rob-gra/tempora/terrors"
)

// TimestampSet is a finite set of distinct timestamps, kept sorted.
type TimestampSet struct {
	ts []time.Time
}

// NewTimestampSet builds a TimestampSet from ts, deduplicating and sorting.
// An empty input is a ShapeViolation: a timestamp set denotes "defined at
// these instants", so it must name at least one.
func NewTimestampSet(ts ...time.Time) (TimestampSet, error) {
	if len(ts) == 0 {
		return TimestampSet{}, terrors.New("tstamp.NewTimestampSet", terrors.ShapeViolation, nil)
	}
	sorted := make([]time.Time, len(ts))
	copy(sorted, ts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	out := sorted[:1]
	for _, t := range sorted[1:] {
		if !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return TimestampSet{ts: out}, nil
}

// Timestamps returns the sorted, deduplicated timestamps.
func (s TimestampSet) Timestamps() []time.Time { return s.ts }

// Len returns the number of distinct timestamps.
func (s TimestampSet) Len() int { return len(s.ts) }

// Contains reports whether t is a member.
func (s TimestampSet) Contains(t time.Time) bool {
	i := sort.Search(len(s.ts), func(i int) bool { return !s.ts[i].Before(t) })
	return i < len(s.ts) && s.ts[i].Equal(t)
}

// Span returns the fully-inclusive period [min, max], or false if empty.
func (s TimestampSet) Span() (Period, bool) {
	if len(s.ts) == 0 {
		return Period{}, false
	}
	return Period{Lower: s.ts[0], Upper: s.ts[len(s.ts)-1], LowerInc: true, UpperInc: true}, true
}
