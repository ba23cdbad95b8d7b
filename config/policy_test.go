package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValid(t *testing.T) {
	p := Defaults()
	require.NoError(t, p.Valid())
	assert.Equal(t, 1e-6, p.Epsilon)
	assert.True(t, p.RoundoffSnap)
	assert.Equal(t, 0.01, p.DefaultSelectivity)
}

func TestValidFillsZeroFields(t *testing.T) {
	var p Policy
	require.NoError(t, p.Valid())
	want := Defaults()
	want.RoundoffSnap = false // a bool has no unset state; Valid keeps false
	assert.Equal(t, want, p)
}

func TestValidRejectsOutOfRangeEpsilon(t *testing.T) {
	p := Policy{Epsilon: 10}
	err := p.Valid()
	assert.Error(t, err)
}

func TestValidRejectsOutOfRangeSelectivity(t *testing.T) {
	p := Policy{DefaultSelectivity: 2}
	err := p.Valid()
	assert.Error(t, err)
}
