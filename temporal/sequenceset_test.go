package temporal

import (
	"testing"

	"github.com/rob-gra/tempora/basetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSeq(t *testing.T, lo, hi int, v1, v2 float64) Sequence {
	t.Helper()
	p := mkPeriod(t, day(lo), day(hi), true, true)
	seq, err := NewSequence(basetype.TFloat8, p, Linear, []Inst{{V: v1, T: day(lo)}, {V: v2, T: day(hi)}})
	require.NoError(t, err)
	return seq
}

func TestNewSequenceSetRejectsOverlap(t *testing.T) {
	a := mkSeq(t, 0, 2, 1, 2)
	b := mkSeq(t, 1, 3, 3, 4)
	_, err := NewSequenceSet(basetype.TFloat8, Linear, []Sequence{a, b})
	assert.Error(t, err)
}

func TestNewSequenceSetRejectsAdjacent(t *testing.T) {
	a := mkSeq(t, 0, 1, 1, 2)
	b := mkSeq(t, 1, 2, 2, 3)
	_, err := NewSequenceSet(basetype.TFloat8, Linear, []Sequence{a, b})
	assert.Error(t, err)
}

func TestNewSequenceSetAcceptsGap(t *testing.T) {
	a := mkSeq(t, 0, 1, 1, 2)
	b := mkSeq(t, 3, 4, 3, 4)
	set, err := NewSequenceSet(basetype.TFloat8, Linear, []Sequence{b, a})
	require.NoError(t, err)
	assert.Equal(t, 2, set.NumSequences())
	assert.Equal(t, a.Period, set.Sequences()[0].Period)
}

func TestSequenceSetValueAt(t *testing.T) {
	a := mkSeq(t, 0, 1, 1, 2)
	b := mkSeq(t, 3, 4, 3, 4)
	set, err := NewSequenceSet(basetype.TFloat8, Linear, []Sequence{a, b})
	require.NoError(t, err)

	_, ok := set.ValueAt(day(2))
	assert.False(t, ok)

	v, ok := set.ValueAt(day(0))
	require.True(t, ok)
	assert.Equal(t, 1.0, v.(float64))
}
