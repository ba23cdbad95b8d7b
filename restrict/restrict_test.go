package restrict

import (
	"testing"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time { return time.Date(2024, 1, 1+n, 0, 0, 0, 0, time.UTC) }

func testPolicy() config.Policy {
	p := config.Defaults()
	return p
}

func mkSeq(t *testing.T, lo, hi int, v1, v2 float64) temporal.Sequence {
	t.Helper()
	p, err := tstamp.NewPeriod(day(lo), day(hi), true, true)
	require.NoError(t, err)
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear,
		[]temporal.Inst{{V: v1, T: day(lo)}, {V: v2, T: day(hi)}})
	require.NoError(t, err)
	return s
}

func TestAtTimestamp(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	inst, ok := AtTimestamp(s, day(2))
	require.True(t, ok)
	assert.InDelta(t, 4.0, inst.V.(float64), 1e-9)

	_, ok = AtTimestamp(s, day(5))
	assert.False(t, ok)
}

// TestMinusTimestampSplitsSequence covers S3: restricting a sequence to
// everything but a single interior instant produces two sub-sequences.
func TestMinusTimestampSplitsSequence(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	out, err := MinusTimestamp(s, day(2))
	require.NoError(t, err)
	set, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.NumSequences())
}

func TestMinusTimestampFromInstantSet(t *testing.T) {
	in, err := temporal.NewInstantSet(basetype.TFloat8,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}, {V: 3.0, T: day(2)}})
	require.NoError(t, err)
	out, err := MinusTimestamp(in, day(1))
	require.NoError(t, err)
	set := out.(temporal.InstantSet)
	assert.Equal(t, 2, set.NumInstants())
}

func TestAtPeriod(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	p, err := tstamp.NewPeriod(day(1), day(3), true, true)
	require.NoError(t, err)
	out, ok := AtPeriod(s, p)
	require.True(t, ok)
	assert.True(t, out.Period.Equal(p))
	v0, _ := out.ValueAt(day(1))
	assert.InDelta(t, 2.0, v0.(float64), 1e-9)
}

func TestMinusPeriodSplitsSequence(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	p, err := tstamp.NewPeriod(day(1), day(3), true, true)
	require.NoError(t, err)
	out, err := MinusPeriod(s, p)
	require.NoError(t, err)
	set, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.NumSequences())
}

func TestAtRangeSplitsOnThreshold(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(4), true, true)
	require.NoError(t, err)
	insts := []temporal.Inst{{V: 0.0, T: day(0)}, {V: 10.0, T: day(1)}, {V: 0.0, T: day(2)}, {V: 10.0, T: day(3)}, {V: 0.0, T: day(4)}}
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear, insts)
	require.NoError(t, err)

	segs, err := AtRange(s, ValueRange{Min: 5, Max: 10, MinInc: true, MaxInc: true}, testPolicy())
	require.NoError(t, err)
	assert.Len(t, segs, 2)
}

func TestMinusRangeIsAtRangeComplement(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(4), true, true)
	require.NoError(t, err)
	insts := []temporal.Inst{{V: 0.0, T: day(0)}, {V: 10.0, T: day(1)}, {V: 0.0, T: day(2)}, {V: 10.0, T: day(3)}, {V: 0.0, T: day(4)}}
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear, insts)
	require.NoError(t, err)

	r := ValueRange{Min: 5, Max: 10, MinInc: true, MaxInc: true}
	atSegs, err := AtRange(s, r, testPolicy())
	require.NoError(t, err)
	minusSegs, err := MinusRange(s, r, testPolicy())
	require.NoError(t, err)
	assert.NotEmpty(t, atSegs)
	assert.NotEmpty(t, minusSegs)
}

func TestAtValueConstantSegment(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(2), true, true)
	require.NoError(t, err)
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Step,
		[]temporal.Inst{{V: 5.0, T: day(0)}, {V: 5.0, T: day(1)}, {V: 5.0, T: day(2)}})
	require.NoError(t, err)

	out, err := AtValue(s, 5.0, testPolicy())
	require.NoError(t, err)
	seq, ok := out.(temporal.Sequence)
	require.True(t, ok)
	assert.True(t, seq.Period.Equal(p))
}

func TestMinusValueExcludesMatchingSegment(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(2), true, true)
	require.NoError(t, err)
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Step,
		[]temporal.Inst{{V: 5.0, T: day(0)}, {V: 5.0, T: day(1)}, {V: 9.0, T: day(2)}})
	require.NoError(t, err)

	out, err := MinusValue(s, 5.0, testPolicy())
	require.NoError(t, err)
	require.NotNil(t, out)
}

func TestAtValueLinearInteriorRoot(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	out, err := AtValue(s, 4.0, testPolicy())
	require.NoError(t, err)
	inst, ok := out.(temporal.Instant)
	require.True(t, ok)
	assert.True(t, inst.T.Equal(day(2)))
}

func TestAtTimestampSet(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	ts, err := tstamp.NewTimestampSet(day(1), day(3))
	require.NoError(t, err)
	out, err := AtTimestampSet(s, ts)
	require.NoError(t, err)
	set, ok := out.(temporal.InstantSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.NumInstants())
}

func TestMinusTimestampSetFoldsOverMembers(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	ts, err := tstamp.NewTimestampSet(day(2))
	require.NoError(t, err)
	out, err := MinusTimestampSet(s, ts)
	require.NoError(t, err)
	set, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.NumSequences())
}

func TestAtPeriodSetConcatenatesFragments(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	p1, err := tstamp.NewPeriod(day(0), day(1), true, true)
	require.NoError(t, err)
	p2, err := tstamp.NewPeriod(day(3), day(4), true, true)
	require.NoError(t, err)
	ps, err := tstamp.NewPeriodSet(p1, p2)
	require.NoError(t, err)

	out, err := AtPeriodSet(s, ps)
	require.NoError(t, err)
	set, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.NumSequences())
}

func TestMinusPeriodSetFoldsOverMembers(t *testing.T) {
	s := mkSeq(t, 0, 4, 0, 8)
	p, err := tstamp.NewPeriod(day(1), day(3), true, true)
	require.NoError(t, err)
	ps, err := tstamp.NewPeriodSet(p)
	require.NoError(t, err)

	out, err := MinusPeriodSet(s, ps)
	require.NoError(t, err)
	set, ok := out.(temporal.SequenceSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.NumSequences())
}
