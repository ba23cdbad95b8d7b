package interp

import (
	"testing"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAtLinearMidpoint(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)
	v, err := ValueAt(1.0, 3.0, t1, t2, t1.Add(time.Hour), true, mustAdapter(t))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v.(float64), 1e-9)
}

func TestValueAtStepHoldsUntilUpper(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)
	v, err := ValueAt(1.0, 3.0, t1, t2, t1.Add(time.Hour), false, mustAdapter(t))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.(float64))

	v, err = ValueAt(1.0, 3.0, t1, t2, t2, false, mustAdapter(t))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.(float64))
}

func TestValueAtOutOfRange(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	_, err := ValueAt(1.0, 2.0, t1, t2, t2.Add(time.Minute), true, mustAdapter(t))
	assert.Error(t, err)
}

func TestFindRatioForValue(t *testing.T) {
	r, ok := FindRatioForValue(0, 10, 2.5, 1e-9, true)
	require.True(t, ok)
	assert.InDelta(t, 0.25, r, 1e-9)

	_, ok = FindRatioForValue(0, 10, 20, 1e-9, true)
	assert.False(t, ok)

	r, ok = FindRatioForValue(5, 5, 5, 1e-9, true)
	require.True(t, ok)
	assert.Equal(t, 0.0, r)

	r, ok = FindRatioForValue(0, 10, 9.99999999, 1e-6, false)
	require.True(t, ok)
	assert.Less(t, r, 1.0)
}

func mustAdapter(t *testing.T) basetype.Adapter {
	t.Helper()
	a, ok := basetype.Default().Adapter(basetype.TFloat8)
	require.True(t, ok)
	return a
}
