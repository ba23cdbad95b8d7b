package wire

import (
	"strings"
	"testing"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/tstamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time { return time.Date(2024, 1, 1+n, 0, 0, 0, 0, time.UTC) }

// TestInstantRoundTrip covers property 2: encode then decode reproduces
// the original value bit-for-bit.
func TestInstantRoundTrip(t *testing.T) {
	inst := temporal.NewInstant(basetype.TFloat8, 3.5, day(0))
	b, err := EncodeInstant(inst)
	require.NoError(t, err)
	out, err := DecodeInstant(b)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(inst, out))
}

func TestSequenceRoundTrip(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(2), true, true)
	require.NoError(t, err)
	seq, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}, {V: 3.0, T: day(2)}})
	require.NoError(t, err)

	b, err := EncodeSequence(seq)
	require.NoError(t, err)
	out, err := DecodeSequence(b)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(seq, out))
}

func TestDecodeSequenceRejectsWrongSubtype(t *testing.T) {
	inst := temporal.NewInstant(basetype.TFloat8, 1.0, day(0))
	b, err := EncodeInstant(inst)
	require.NoError(t, err)
	_, err = DecodeSequence(b)
	assert.Error(t, err)
}

func TestDecodeTruncatedErrors(t *testing.T) {
	inst := temporal.NewInstant(basetype.TFloat8, 1.0, day(0))
	b, err := EncodeInstant(inst)
	require.NoError(t, err)
	_, err = DecodeInstant(b[:len(b)-3])
	assert.Error(t, err)
}

func TestTextFormInstant(t *testing.T) {
	inst := temporal.NewInstant(basetype.TFloat8, 3.5, day(0))
	txt := Text(inst)
	assert.Contains(t, txt, "3.5")
}

func TestInstantSetRoundTrip(t *testing.T) {
	set, err := temporal.NewInstantSet(basetype.TFloat8,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(2)}})
	require.NoError(t, err)

	b, err := EncodeInstantSet(set)
	require.NoError(t, err)
	out, err := DecodeInstantSet(b)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(set, out))
}

func TestSequenceSetRoundTrip(t *testing.T) {
	p1, err := tstamp.NewPeriod(day(0), day(1), true, true)
	require.NoError(t, err)
	p2, err := tstamp.NewPeriod(day(3), day(4), true, true)
	require.NoError(t, err)
	s1, err := temporal.NewSequence(basetype.TFloat8, p1, temporal.Linear,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}})
	require.NoError(t, err)
	s2, err := temporal.NewSequence(basetype.TFloat8, p2, temporal.Linear,
		[]temporal.Inst{{V: 3.0, T: day(3)}, {V: 4.0, T: day(4)}})
	require.NoError(t, err)
	ss, err := temporal.NewSequenceSet(basetype.TFloat8, temporal.Linear, []temporal.Sequence{s1, s2})
	require.NoError(t, err)

	b, err := EncodeSequenceSet(ss)
	require.NoError(t, err)
	out, err := DecodeSequenceSet(b)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(ss, out))
}

// TestTextFormStepwiseS1 covers the stepwise text form: a Step sequence's
// text carries the Interp=Stepwise; prefix, and its exclusive upper bound
// closes with ")". The last two values are equal, as a Step sequence with
// an exclusive upper bound requires.
func TestTextFormStepwiseS1(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(2), true, false)
	require.NoError(t, err)
	seq, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Step,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}, {V: 2.0, T: day(2)}})
	require.NoError(t, err)

	txt := Text(seq)
	assert.True(t, strings.HasPrefix(txt, "Interp=Stepwise;"))
	assert.True(t, strings.HasSuffix(txt, ")"))
}

// TestTextFormBoundAwareDelimiters covers an exclusive-lower, inclusive-
// upper sequence rendering as "(...]" rather than a fixed "[...]".
func TestTextFormBoundAwareDelimiters(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(1), false, true)
	require.NoError(t, err)
	seq, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}})
	require.NoError(t, err)

	txt := Text(seq)
	assert.True(t, strings.HasPrefix(txt, "("))
	assert.True(t, strings.HasSuffix(txt, "]"))
}

func TestParseInstantRoundTrips(t *testing.T) {
	inst := temporal.NewInstant(basetype.TFloat8, 3.5, day(0))
	v, err := Parse(Text(inst), basetype.TFloat8)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(inst, v))
}

func TestParseSequenceRoundTrips(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(2), true, true)
	require.NoError(t, err)
	seq, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Linear,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}, {V: 3.0, T: day(2)}})
	require.NoError(t, err)

	v, err := Parse(Text(seq), basetype.TFloat8)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(seq, v))
}

func TestParseStepwiseSequenceRoundTrips(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(2), true, true)
	require.NoError(t, err)
	seq, err := temporal.NewSequence(basetype.TFloat8, p, temporal.Step,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 1.0, T: day(1)}, {V: 2.0, T: day(2)}})
	require.NoError(t, err)

	v, err := Parse(Text(seq), basetype.TFloat8)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(seq, v))
}

func TestParseInstantSetRoundTrips(t *testing.T) {
	set, err := temporal.NewInstantSet(basetype.TFloat8,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(2)}})
	require.NoError(t, err)

	v, err := Parse(Text(set), basetype.TFloat8)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(set, v))
}

func TestParseSequenceSetRoundTrips(t *testing.T) {
	p1, err := tstamp.NewPeriod(day(0), day(1), true, true)
	require.NoError(t, err)
	p2, err := tstamp.NewPeriod(day(3), day(4), true, true)
	require.NoError(t, err)
	s1, err := temporal.NewSequence(basetype.TFloat8, p1, temporal.Linear,
		[]temporal.Inst{{V: 1.0, T: day(0)}, {V: 2.0, T: day(1)}})
	require.NoError(t, err)
	s2, err := temporal.NewSequence(basetype.TFloat8, p2, temporal.Linear,
		[]temporal.Inst{{V: 3.0, T: day(3)}, {V: 4.0, T: day(4)}})
	require.NoError(t, err)
	ss, err := temporal.NewSequenceSet(basetype.TFloat8, temporal.Linear, []temporal.Sequence{s1, s2})
	require.NoError(t, err)

	v, err := Parse(Text(ss), basetype.TFloat8)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(ss, v))
}

func TestGeomPointRoundTrip(t *testing.T) {
	p, err := tstamp.NewPeriod(day(0), day(1), true, true)
	require.NoError(t, err)
	seq, err := temporal.NewSequence(basetype.TGeomPoint, p, temporal.Linear,
		[]temporal.Inst{
			{V: basetype.NewGeomPoint2D(1, 2, 4326), T: day(0)},
			{V: basetype.NewGeomPoint2D(3, 4, 4326), T: day(1)},
		})
	require.NoError(t, err)
	b, err := EncodeSequence(seq)
	require.NoError(t, err)
	out, err := DecodeSequence(b)
	require.NoError(t, err)
	assert.True(t, temporal.Equal(seq, out))
}
