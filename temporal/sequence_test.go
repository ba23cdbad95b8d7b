package temporal

import (
	"testing"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkPeriod(t *testing.T, lo, hi time.Time, loInc, hiInc bool) tstamp.Period {
	t.Helper()
	p, err := tstamp.NewPeriod(lo, hi, loInc, hiInc)
	require.NoError(t, err)
	return p
}

func day(n int) time.Time {
	return time.Date(2024, 1, 1+n, 0, 0, 0, 0, time.UTC)
}

func TestNewSequenceLinear(t *testing.T) {
	p := mkPeriod(t, day(0), day(2), true, true)
	insts := []Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}, {V: 3.0, T: day(2)}}
	seq, err := NewSequence(basetype.TFloat8, p, Linear, insts)
	require.NoError(t, err)
	assert.Equal(t, 3, seq.NumInstants())
	v, ok := seq.ValueAt(day(1).Add(12 * time.Hour))
	require.True(t, ok)
	assert.InDelta(t, 2.5, v.(float64), 1e-9)
}

func TestNewSequenceRejectsNonIncreasing(t *testing.T) {
	p := mkPeriod(t, day(0), day(1), true, true)
	insts := []Inst{{V: 1.0, T: day(1)}, {V: 2.0, T: day(0)}}
	_, err := NewSequence(basetype.TFloat8, p, Step, insts)
	assert.Error(t, err)
}

func TestNewSequenceStepRequiresEqualTrailingValuesWhenOpenUpper(t *testing.T) {
	p := mkPeriod(t, day(0), day(1), true, false)
	insts := []Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}}
	_, err := NewSequence(basetype.TFloat8, p, Step, insts)
	assert.Error(t, err)

	insts2 := []Inst{{V: 1.0, T: day(0)}, {V: 1.0, T: day(1)}}
	_, err = NewSequence(basetype.TFloat8, p, Step, insts2)
	assert.NoError(t, err)
}

func TestNewSequenceLinearRequiresContinuous(t *testing.T) {
	p := mkPeriod(t, day(0), day(1), true, true)
	insts := []Inst{{V: "a", T: day(0)}, {V: "b", T: day(1)}}
	_, err := NewSequence(basetype.TText, p, Linear, insts)
	assert.Error(t, err)
}

func TestSequenceStepValueAt(t *testing.T) {
	p := mkPeriod(t, day(0), day(2), true, true)
	insts := []Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}, {V: 2.0, T: day(2)}}
	seq, err := NewSequence(basetype.TFloat8, p, Step, insts)
	require.NoError(t, err)
	v, ok := seq.ValueAt(day(1).Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, 2.0, v.(float64))
}

func TestSequenceBBoxIncludesPeriod(t *testing.T) {
	p := mkPeriod(t, day(0), day(2), true, true)
	insts := []Inst{{V: 1.0, T: day(0)}, {V: 5.0, T: day(2)}}
	seq, err := NewSequence(basetype.TFloat8, p, Linear, insts)
	require.NoError(t, err)
	box := seq.BBox()
	assert.True(t, box.HasValue)
	assert.Equal(t, 1.0, box.ValueMin)
	assert.Equal(t, 5.0, box.ValueMax)
	assert.True(t, box.Period.Equal(p))
}
