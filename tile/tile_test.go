package tile

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

func TestNumberBucket(t *testing.T) {
	lo, hi, err := NumberBucket(7.5, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 10.0, hi)
}

func TestNumberBucketNegative(t *testing.T) {
	lo, hi, err := NumberBucket(-3, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, -5.0, lo)
	assert.Equal(t, 0.0, hi)
}

func TestTimestampBucket(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	probe := origin.Add(90 * time.Minute)
	p, err := TimestampBucket(probe, time.Hour, origin)
	require.NoError(t, err)
	assert.True(t, p.Lower.Equal(origin.Add(time.Hour)))
	assert.True(t, p.Upper.Equal(origin.Add(2 * time.Hour)))
}

// TestNumberBucketListCoversSpan covers the bucket-list generator itself:
// it produces contiguous, non-overlapping buckets spanning the request.
func TestNumberBucketListCoversSpan(t *testing.T) {
	buckets, err := NumberBucketList(0, 22, 10, 0)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, [2]float64{0, 10}, buckets[0])
	assert.Equal(t, [2]float64{20, 30}, buckets[2])
}

func TestSplitValueGroupsInstants(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := tstamp.NewPeriod(origin, origin.Add(3*time.Hour), true, true)
	require.NoError(t, err)
	insts := []temporal.Inst{
		{V: 1.0, T: origin},
		{V: 31.0, T: origin.Add(3 * time.Hour)},
	}
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear, insts)
	require.NoError(t, err)

	groups, err := SplitValue(s, 10, 0, config.Defaults())
	require.NoError(t, err)
	assert.Len(t, groups, 4)
}

// TestSplitValueInterpolatesAtBucketBoundaryS7 reproduces the worked
// example: a linear [0@t1, 10@t2] tiled with width 5, origin 0 produces
// two fragments on [0,5) and [5,10], each carrying a linearly interpolated
// crossing at the bucket boundary rather than a raw-sample bucket.
func TestSplitValueInterpolatesAtBucketBoundaryS7(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	p, err := tstamp.NewPeriod(t1, t2, true, true)
	require.NoError(t, err)
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear,
		[]temporal.Inst{{V: 0.0, T: t1}, {V: 10.0, T: t2}})
	require.NoError(t, err)

	fragments, err := SplitValue(s, 5, 0, config.Defaults())
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	assert.Equal(t, 0.0, fragments[0].Lo)
	assert.Equal(t, 5.0, fragments[0].Hi)
	assert.Equal(t, 0.0, fragments[0].Seq.InstantAt(0).V)
	assert.InDelta(t, 5.0, fragments[0].Seq.InstantAt(fragments[0].Seq.NumInstants()-1).V.(float64), 1e-9)

	assert.Equal(t, 5.0, fragments[1].Lo)
	assert.Equal(t, 10.0, fragments[1].Hi)
	assert.InDelta(t, 5.0, fragments[1].Seq.InstantAt(0).V.(float64), 1e-9)
	assert.InDelta(t, 10.0, fragments[1].Seq.InstantAt(fragments[1].Seq.NumInstants()-1).V.(float64), 1e-9)
}

func TestSplitTimePreservesInterpolationAcrossBoundary(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := tstamp.NewPeriod(origin, origin.Add(90*time.Minute), true, true)
	require.NoError(t, err)
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear,
		[]temporal.Inst{{V: 0.0, T: origin}, {V: 90.0, T: origin.Add(90 * time.Minute)}})
	require.NoError(t, err)

	fragments, err := SplitTime(s, time.Hour, origin)
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.InDelta(t, 60.0, fragments[0].Seq.InstantAt(fragments[0].Seq.NumInstants()-1).V.(float64), 1e-9)
	assert.InDelta(t, 90.0, fragments[1].Seq.InstantAt(fragments[1].Seq.NumInstants()-1).V.(float64), 1e-9)
}

func TestSplitValueTimeIsValueMajor(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := tstamp.NewPeriod(origin, origin.Add(2*time.Hour), true, true)
	require.NoError(t, err)
	s, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear,
		[]temporal.Inst{{V: 0.0, T: origin}, {V: 20.0, T: origin.Add(2 * time.Hour)}})
	require.NoError(t, err)

	tiles, err := SplitValueTime(s, 10, 0, time.Hour, origin, config.Defaults())
	require.NoError(t, err)
	require.NotEmpty(t, tiles)
	for i := 1; i < len(tiles); i++ {
		assert.False(t, tiles[i].ValueLo < tiles[i-1].ValueLo, "expected value-major order")
	}
}
