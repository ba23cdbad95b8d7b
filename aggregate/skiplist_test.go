package aggregate

import (
	"testing"
	"time"

	"github.com/rob-gra/tempora/config"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time { return time.Date(2024, 1, 1+n, 0, 0, 0, 0, time.UTC) }

func mustPeriod(t *testing.T, lo, hi int) tstamp.Period {
	t.Helper()
	p, err := tstamp.NewPeriod(day(lo), day(hi), true, false)
	require.NoError(t, err)
	return p
}

func TestSkipListSpliceMergesOverlapping(t *testing.T) {
	s := New(config.Defaults())
	s.Splice([]tstamp.Period{mustPeriod(t, 0, 2)})
	s.Splice([]tstamp.Period{mustPeriod(t, 1, 3)})

	vals := s.Values()
	require.Len(t, vals, 1)
	assert.True(t, vals[0].Lower.Equal(day(0)))
	assert.True(t, vals[0].Upper.Equal(day(3)))
}

func TestSkipListSpliceMergesAdjacent(t *testing.T) {
	s := New(config.Defaults())
	s.Splice([]tstamp.Period{mustPeriod(t, 0, 1)})
	s.Splice([]tstamp.Period{mustPeriod(t, 1, 2)})

	vals := s.Values()
	require.Len(t, vals, 1)
	assert.True(t, vals[0].Lower.Equal(day(0)))
	assert.True(t, vals[0].Upper.Equal(day(2)))
}

func TestSkipListSpliceKeepsDisjointPeriodsSeparate(t *testing.T) {
	s := New(config.Defaults())
	s.Splice([]tstamp.Period{mustPeriod(t, 0, 1)})
	s.Splice([]tstamp.Period{mustPeriod(t, 5, 6)})

	assert.Equal(t, 2, s.Len())
}

// TestSkipListSpliceOrderIndependent covers property 9: splicing the same
// periods in any order (or grouped into different batches) converges on
// the same minimal covering set.
func TestSkipListSpliceOrderIndependent(t *testing.T) {
	periods := []tstamp.Period{
		mustPeriod(t, 0, 2),
		mustPeriod(t, 1, 3),
		mustPeriod(t, 10, 12),
		mustPeriod(t, 3, 4),
		mustPeriod(t, 20, 21),
	}

	a := New(config.Defaults())
	for _, p := range periods {
		a.Splice([]tstamp.Period{p})
	}

	reversed := make([]tstamp.Period, len(periods))
	for i, p := range periods {
		reversed[len(periods)-1-i] = p
	}
	b := New(config.Defaults())
	for _, p := range reversed {
		b.Splice([]tstamp.Period{p})
	}

	c := New(config.Defaults())
	c.Splice(periods)

	av, bv, cv := a.Values(), b.Values(), c.Values()
	require.Len(t, bv, len(av))
	require.Len(t, cv, len(av))
	for i := range av {
		assert.True(t, av[i].Equal(bv[i]), "order-independence: %v vs %v", av[i], bv[i])
		assert.True(t, av[i].Equal(cv[i]), "batch-independence: %v vs %v", av[i], cv[i])
	}
}

func TestSkipListSerializeRoundTrips(t *testing.T) {
	s := New(config.Defaults())
	s.Splice([]tstamp.Period{mustPeriod(t, 0, 2), mustPeriod(t, 5, 6)})
	s.SetExtra([]byte("checkpoint"))

	out, err := Deserialize(s.Serialize(), config.Defaults())
	require.NoError(t, err)
	assert.Equal(t, s.Values(), out.Values())
	assert.Equal(t, []byte("checkpoint"), out.Extra())
}
