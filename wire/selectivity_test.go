package wire

import (
	"testing"
	"time"

	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformStats(t *testing.T, n int) *Stats {
	t.Helper()
	periods := make([]tstamp.Period, n)
	for i := 0; i < n; i++ {
		p, err := tstamp.NewPeriod(day(i), day(i+1), true, false)
		require.NoError(t, err)
		periods[i] = p
	}
	return StatsFromPeriods(periods)
}

func TestEstimateNilStatsReturnsDefault(t *testing.T) {
	policy := config.Defaults()
	c, err := tstamp.NewPeriod(day(0), day(1), true, false)
	require.NoError(t, err)

	for _, op := range []Operator{OpEqual, OpOverlaps, OpContains, OpStrictlyBefore, OpAdjacent} {
		assert.Equal(t, policy.DefaultSelectivity, Estimate(nil, op, c, policy))
	}
}

func TestEstimateStrictlyBeforeIncreasesWithSpan(t *testing.T) {
	policy := config.Defaults()
	stats := uniformStats(t, 10)

	early, err := tstamp.NewPeriod(day(1), day(1).Add(time.Second), true, false)
	require.NoError(t, err)
	late, err := tstamp.NewPeriod(day(9), day(9).Add(time.Second), true, false)
	require.NoError(t, err)

	selEarly := Estimate(stats, OpStrictlyBefore, early, policy)
	selLate := Estimate(stats, OpStrictlyBefore, late, policy)
	assert.Less(t, selEarly, selLate)
}

func TestEstimateOverlapsWholeSpanIsOne(t *testing.T) {
	policy := config.Defaults()
	stats := uniformStats(t, 10)

	whole, err := tstamp.NewPeriod(day(-1), day(11), true, false)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, Estimate(stats, OpOverlaps, whole, policy), 0.2)
}

func TestEstimateAllOperatorsStayInUnitRange(t *testing.T) {
	policy := config.Defaults()
	stats := uniformStats(t, 20)
	c, err := tstamp.NewPeriod(day(5), day(6), true, false)
	require.NoError(t, err)

	ops := []Operator{
		OpEqual, OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual,
		OpStrictlyBefore, OpNotAfter, OpStrictlyAfter, OpNotBefore,
		OpOverlaps, OpContains, OpContainedBy, OpAdjacent,
	}
	for _, op := range ops {
		frac := Estimate(stats, op, c, policy)
		assert.GreaterOrEqual(t, frac, 0.0, "op %s", op)
		assert.LessOrEqual(t, frac, 1.0, "op %s", op)
	}
}

func TestEstimateRowsScalesByRowCount(t *testing.T) {
	assert.Equal(t, int64(500), EstimateRows(0.5, 1000))
	assert.Equal(t, int64(1000), EstimateRows(1.5, 1000))
	assert.Equal(t, int64(0), EstimateRows(-1, 1000))
}
