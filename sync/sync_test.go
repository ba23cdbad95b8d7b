package sync

import (
	"testing"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time { return time.Date(2024, 1, 1+n, 0, 0, 0, 0, time.UTC) }

func seq(t *testing.T, lo, hi int, vs ...float64) temporal.Sequence {
	t.Helper()
	p, err := tstamp.NewPeriod(day(lo), day(hi), true, true)
	require.NoError(t, err)
	insts := make([]temporal.Inst, len(vs))
	step := (hi - lo)
	for i, v := range vs {
		insts[i] = temporal.Inst{V: v, T: day(lo + i*step/(len(vs)-1))}
	}
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear, insts)
	require.NoError(t, err)
	return s
}

// TestSynchronizeMergesTimestamps covers S4: two sequences with different
// sample timestamps over the same period merge onto the union of both
// sets, each side interpolated at the other's timestamps.
func TestSynchronizeMergesTimestamps(t *testing.T) {
	a := seq(t, 0, 4, 0, 4)
	b := seq(t, 0, 4, 0, 2, 4)

	times, va, vb, err := Synchronize(a, b, NoCrossings)
	require.NoError(t, err)
	assert.Len(t, times, 3)
	for i, tm := range times {
		av, ok := a.ValueAt(tm)
		require.True(t, ok)
		assert.Equal(t, av, va[i])
		bv, ok := b.ValueAt(tm)
		require.True(t, ok)
		assert.Equal(t, bv, vb[i])
	}
}

func TestSynchronizeWithCrossings(t *testing.T) {
	a := seq(t, 0, 2, 0, 10)
	b := seq(t, 0, 2, 10, 0)

	times, va, vb, err := Synchronize(a, b, WithCrossings)
	require.NoError(t, err)
	found := false
	for i := range times {
		if assertClose(va[i].(float64), vb[i].(float64)) {
			found = true
		}
	}
	assert.True(t, found, "expected a crossing point where both sequences agree")
}

func assertClose(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

func TestSynchronizeNoOverlapErrors(t *testing.T) {
	a := seq(t, 0, 1, 0, 1)
	b := seq(t, 5, 6, 0, 1)
	_, _, _, err := Synchronize(a, b, NoCrossings)
	assert.Error(t, err)
}
