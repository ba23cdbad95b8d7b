// Package wire implements the binary and text serialization of temporal
// values: a byte-cursor Encoder/Decoder pair, plus the text form and the
// selectivity estimator a host's query planner would consult.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/temporal"
	"github.com/rob-gra/tempora/terrors"
	"github.com/rob-gra/tempora/tstamp"
)

// Encoder accumulates bytes onto a growable buffer; callers append
// primitives in field order.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) AppendByte(b byte) *Encoder { e.buf = append(e.buf, b); return e }

func (e *Encoder) AppendBool(v bool) *Encoder {
	if v {
		return e.AppendByte(1)
	}
	return e.AppendByte(0)
}

func (e *Encoder) AppendInt32(v int32) *Encoder {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	e.buf = append(e.buf, b[:]...)
	return e
}

func (e *Encoder) AppendFloat64(v float64) *Encoder {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	e.buf = append(e.buf, b[:]...)
	return e
}

func (e *Encoder) AppendTime(t time.Time) *Encoder {
	return e.AppendInt64(t.UnixNano())
}

func (e *Encoder) AppendInt64(v int64) *Encoder {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	e.buf = append(e.buf, b[:]...)
	return e
}

func (e *Encoder) AppendString(s string) *Encoder {
	e.AppendInt32(int32(len(s)))
	e.buf = append(e.buf, s...)
	return e
}

// Decoder walks an Encoder's output; each decode consumes a prefix and
// shrinks the buffer.
type Decoder struct {
	buf []byte
	err error
}

func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

func (d *Decoder) Err() error { return d.err }

func (d *Decoder) need(n int) bool {
	if d.err != nil || len(d.buf) < n {
		if d.err == nil {
			d.err = terrors.New("wire.Decoder", terrors.ShapeViolation, nil)
		}
		return false
	}
	return true
}

func (d *Decoder) DecodeByte() byte {
	if !d.need(1) {
		return 0
	}
	v := d.buf[0]
	d.buf = d.buf[1:]
	return v
}

func (d *Decoder) DecodeBool() bool { return d.DecodeByte() != 0 }

func (d *Decoder) DecodeInt32() int32 {
	if !d.need(4) {
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(d.buf))
	d.buf = d.buf[4:]
	return v
}

func (d *Decoder) DecodeInt64() int64 {
	if !d.need(8) {
		return 0
	}
	v := int64(binary.LittleEndian.Uint64(d.buf))
	d.buf = d.buf[8:]
	return v
}

func (d *Decoder) DecodeFloat64() float64 {
	if !d.need(8) {
		return 0
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(d.buf))
	d.buf = d.buf[8:]
	return v
}

func (d *Decoder) DecodeTime() time.Time {
	return time.Unix(0, d.DecodeInt64()).UTC()
}

func (d *Decoder) DecodeString() string {
	n := int(d.DecodeInt32())
	if !d.need(n) {
		return ""
	}
	s := string(d.buf[:n])
	d.buf = d.buf[n:]
	return s
}

// header layout: 1 byte subtype, 1 byte base type, then subtype-specific
// payload.
func EncodeHeader(e *Encoder, hdr temporal.Header) {
	e.AppendByte(byte(hdr.Subtype)).AppendByte(byte(hdr.BaseType))
}

func DecodeHeader(d *Decoder) (temporal.Subtype, basetype.TypeTag) {
	return temporal.Subtype(d.DecodeByte()), basetype.TypeTag(d.DecodeByte())
}

// EncodeValue writes the single base value v in the fixed binary layout of
// its base type bt, chosen by a type switch over bt.
func EncodeValue(e *Encoder, bt basetype.TypeTag, v any) error {
	switch bt {
	case basetype.TBool:
		e.AppendBool(v.(bool))
	case basetype.TInt4:
		e.AppendInt32(v.(int32))
	case basetype.TFloat8:
		e.AppendFloat64(v.(float64))
	case basetype.TText:
		e.AppendString(v.(string))
	case basetype.TGeomPoint:
		p := v.(basetype.GeomPoint)
		e.AppendInt32(int32(p.SRID)).AppendBool(p.HasZ()).AppendFloat64(p.X()).AppendFloat64(p.Y())
		if p.HasZ() {
			e.AppendFloat64(p.Z())
		}
	case basetype.TGeogPoint:
		p := v.(basetype.GeogPoint)
		e.AppendFloat64(p.Lon()).AppendFloat64(p.Lat())
	case basetype.TNPoint:
		p := v.(basetype.NPoint)
		e.AppendInt64(int64(p.RID)).AppendFloat64(p.Pos)
	case basetype.TDouble2:
		p := v.(basetype.Double2)
		e.AppendFloat64(p.A).AppendFloat64(p.B)
	case basetype.TDouble3:
		p := v.(basetype.Double3)
		e.AppendFloat64(p.A).AppendFloat64(p.B).AppendFloat64(p.C)
	case basetype.TDouble4:
		p := v.(basetype.Double4)
		e.AppendFloat64(p.A).AppendFloat64(p.B).AppendFloat64(p.C).AppendFloat64(p.D)
	default:
		return terrors.New("wire.EncodeValue", terrors.Unsupported, nil)
	}
	return nil
}

// DecodeValue is EncodeValue's inverse.
func DecodeValue(d *Decoder, bt basetype.TypeTag) (any, error) {
	switch bt {
	case basetype.TBool:
		return d.DecodeBool(), d.Err()
	case basetype.TInt4:
		return d.DecodeInt32(), d.Err()
	case basetype.TFloat8:
		return d.DecodeFloat64(), d.Err()
	case basetype.TText:
		return d.DecodeString(), d.Err()
	case basetype.TGeomPoint:
		srid := int(d.DecodeInt32())
		hasZ := d.DecodeBool()
		x := d.DecodeFloat64()
		y := d.DecodeFloat64()
		if hasZ {
			z := d.DecodeFloat64()
			return basetype.NewGeomPoint3D(x, y, z, srid), d.Err()
		}
		return basetype.NewGeomPoint2D(x, y, srid), d.Err()
	case basetype.TGeogPoint:
		lon := d.DecodeFloat64()
		lat := d.DecodeFloat64()
		return basetype.NewGeogPoint(lon, lat), d.Err()
	case basetype.TNPoint:
		rid := uint64(d.DecodeInt64())
		pos := d.DecodeFloat64()
		return basetype.NPoint{RID: rid, Pos: pos}, d.Err()
	case basetype.TDouble2:
		return basetype.Double2{A: d.DecodeFloat64(), B: d.DecodeFloat64()}, d.Err()
	case basetype.TDouble3:
		return basetype.Double3{A: d.DecodeFloat64(), B: d.DecodeFloat64(), C: d.DecodeFloat64()}, d.Err()
	case basetype.TDouble4:
		return basetype.Double4{A: d.DecodeFloat64(), B: d.DecodeFloat64(), C: d.DecodeFloat64(), D: d.DecodeFloat64()}, d.Err()
	default:
		return nil, terrors.New("wire.DecodeValue", terrors.Unsupported, nil)
	}
}

// EncodeInstant writes an Instant: header, value, timestamp.
func EncodeInstant(v temporal.Instant) ([]byte, error) {
	e := NewEncoder()
	EncodeHeader(e, v.Header())
	if err := EncodeValue(e, v.Header().BaseType, v.V); err != nil {
		return nil, err
	}
	e.AppendTime(v.T)
	return e.Bytes(), nil
}

// DecodeInstant is EncodeInstant's inverse.
func DecodeInstant(b []byte) (temporal.Instant, error) {
	d := NewDecoder(b)
	subtype, bt := DecodeHeader(d)
	if subtype != temporal.SubtypeInstant {
		return temporal.Instant{}, terrors.New("wire.DecodeInstant", terrors.TypeMismatch, nil)
	}
	v, err := DecodeValue(d, bt)
	if err != nil {
		return temporal.Instant{}, err
	}
	t := d.DecodeTime()
	if d.Err() != nil {
		return temporal.Instant{}, d.Err()
	}
	return temporal.NewInstant(bt, v, t), nil
}

// EncodeInstantSet writes an InstantSet: header, then the instant count and
// each (value,timestamp) pair.
func EncodeInstantSet(v temporal.InstantSet) ([]byte, error) {
	e := NewEncoder()
	EncodeHeader(e, v.Header())
	e.AppendInt32(int32(v.NumInstants()))
	for _, in := range v.Insts() {
		if err := EncodeValue(e, v.Header().BaseType, in.V); err != nil {
			return nil, err
		}
		e.AppendTime(in.T)
	}
	return e.Bytes(), nil
}

// DecodeInstantSet is EncodeInstantSet's inverse.
func DecodeInstantSet(b []byte) (temporal.InstantSet, error) {
	d := NewDecoder(b)
	subtype, bt := DecodeHeader(d)
	if subtype != temporal.SubtypeInstantSet {
		return temporal.InstantSet{}, terrors.New("wire.DecodeInstantSet", terrors.TypeMismatch, nil)
	}
	n := int(d.DecodeInt32())
	if d.Err() != nil {
		return temporal.InstantSet{}, d.Err()
	}
	insts := make([]temporal.Inst, n)
	for i := 0; i < n; i++ {
		v, err := DecodeValue(d, bt)
		if err != nil {
			return temporal.InstantSet{}, err
		}
		insts[i] = temporal.Inst{V: v, T: d.DecodeTime()}
	}
	if d.Err() != nil {
		return temporal.InstantSet{}, d.Err()
	}
	return temporal.NewInstantSet(bt, insts)
}

// EncodeSequence writes a Sequence: header, interp mode, period bounds,
// then the instant count and each (value,timestamp) pair.
func EncodeSequence(s temporal.Sequence) ([]byte, error) {
	e := NewEncoder()
	EncodeHeader(e, s.Header())
	e.AppendByte(byte(s.Interp))
	e.AppendTime(s.Period.Lower).AppendTime(s.Period.Upper)
	e.AppendBool(s.Period.LowerInc).AppendBool(s.Period.UpperInc)
	e.AppendInt32(int32(s.NumInstants()))
	for i := 0; i < s.NumInstants(); i++ {
		in := s.InstantAt(i)
		if err := EncodeValue(e, s.Header().BaseType, in.V); err != nil {
			return nil, err
		}
		e.AppendTime(in.T)
	}
	return e.Bytes(), nil
}

// DecodeSequence is EncodeSequence's inverse.
func DecodeSequence(b []byte) (temporal.Sequence, error) {
	d := NewDecoder(b)
	subtype, bt := DecodeHeader(d)
	if subtype != temporal.SubtypeSequence {
		return temporal.Sequence{}, terrors.New("wire.DecodeSequence", terrors.TypeMismatch, nil)
	}
	mode := temporal.Interp(d.DecodeByte())
	lower := d.DecodeTime()
	upper := d.DecodeTime()
	lowerInc := d.DecodeBool()
	upperInc := d.DecodeBool()
	n := int(d.DecodeInt32())
	if d.Err() != nil {
		return temporal.Sequence{}, d.Err()
	}
	period, err := tstamp.NewPeriod(lower, upper, lowerInc, upperInc)
	if err != nil {
		return temporal.Sequence{}, err
	}
	insts := make([]temporal.Inst, n)
	for i := 0; i < n; i++ {
		v, err := DecodeValue(d, bt)
		if err != nil {
			return temporal.Sequence{}, err
		}
		insts[i] = temporal.Inst{V: v, T: d.DecodeTime()}
	}
	if d.Err() != nil {
		return temporal.Sequence{}, d.Err()
	}
	return temporal.NewSequence(bt, period, mode, insts)
}

// EncodeSequenceSet writes a SequenceSet: header, component count, then
// each component's EncodeSequence payload (length-prefixed).
func EncodeSequenceSet(s temporal.SequenceSet) ([]byte, error) {
	e := NewEncoder()
	EncodeHeader(e, s.Header())
	e.AppendInt32(int32(s.NumSequences()))
	for _, seq := range s.Sequences() {
		payload, err := EncodeSequence(seq)
		if err != nil {
			return nil, err
		}
		e.AppendString(string(payload))
	}
	return e.Bytes(), nil
}

// DecodeSequenceSet is EncodeSequenceSet's inverse.
func DecodeSequenceSet(b []byte) (temporal.SequenceSet, error) {
	d := NewDecoder(b)
	subtype, _ := DecodeHeader(d)
	if subtype != temporal.SubtypeSequenceSet {
		return temporal.SequenceSet{}, terrors.New("wire.DecodeSequenceSet", terrors.TypeMismatch, nil)
	}
	n := int(d.DecodeInt32())
	if d.Err() != nil {
		return temporal.SequenceSet{}, d.Err()
	}
	seqs := make([]temporal.Sequence, n)
	var bt basetype.TypeTag
	var mode temporal.Interp
	for i := 0; i < n; i++ {
		payload := []byte(d.DecodeString())
		seq, err := DecodeSequence(payload)
		if err != nil {
			return temporal.SequenceSet{}, err
		}
		seqs[i] = seq
		bt = seq.Header().BaseType
		mode = seq.Interp
	}
	if d.Err() != nil {
		return temporal.SequenceSet{}, d.Err()
	}
	return temporal.NewSequenceSet(bt, mode, seqs)
}

// Text renders v in the human-readable text form a CLI or log line uses:
// value@timestamp for an Instant, {...} for an InstantSet, a bound-aware
// [.../(... .../) for a Sequence (preceded by "Interp=Stepwise;" when the
// sequence is step-interpolated; Linear is the unmarked default), and {...}
// of such sequences for a SequenceSet.
func Text(v temporal.Value) string {
	switch val := v.(type) {
	case temporal.Instant:
		return instantText(val.Header().BaseType, val.Inst)
	case temporal.InstantSet:
		return instantSetText(val.Header().BaseType, val.Insts())
	case temporal.Sequence:
		return interpPrefix(val.Interp) + sequenceText(val.Header().BaseType, val.Period, val.Insts())
	case temporal.SequenceSet:
		return sequenceSetText(val)
	default:
		return ""
	}
}

func interpPrefix(mode temporal.Interp) string {
	if mode == temporal.Step {
		return "Interp=Stepwise;"
	}
	return ""
}

func instantText(bt basetype.TypeTag, in temporal.Inst) string {
	return textValue(bt, in.V) + "@" + in.T.Format(time.RFC3339Nano)
}

func instantSetText(bt basetype.TypeTag, insts []temporal.Inst) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, in := range insts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(instantText(bt, in))
	}
	sb.WriteString("}")
	return sb.String()
}

func sequenceText(bt basetype.TypeTag, period tstamp.Period, insts []temporal.Inst) string {
	var sb strings.Builder
	if period.LowerInc {
		sb.WriteString("[")
	} else {
		sb.WriteString("(")
	}
	for i, in := range insts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(instantText(bt, in))
	}
	if period.UpperInc {
		sb.WriteString("]")
	} else {
		sb.WriteString(")")
	}
	return sb.String()
}

func sequenceSetText(s temporal.SequenceSet) string {
	var sb strings.Builder
	sb.WriteString(interpPrefix(s.Sequences()[0].Interp))
	sb.WriteString("{")
	for i, seq := range s.Sequences() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sequenceText(s.Header().BaseType, seq.Period, seq.Insts()))
	}
	sb.WriteString("}")
	return sb.String()
}

func textValue(bt basetype.TypeTag, v any) string {
	switch bt {
	case basetype.TBool:
		return strconv.FormatBool(v.(bool))
	case basetype.TInt4:
		return strconv.FormatInt(int64(v.(int32)), 10)
	case basetype.TFloat8:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64)
	case basetype.TText:
		return strconv.Quote(v.(string))
	case basetype.TGeomPoint:
		p := v.(basetype.GeomPoint)
		if p.HasZ() {
			return fmt.Sprintf("POINTZ(%g %g %g)", p.X(), p.Y(), p.Z())
		}
		return fmt.Sprintf("POINT(%g %g)", p.X(), p.Y())
	case basetype.TGeogPoint:
		p := v.(basetype.GeogPoint)
		return fmt.Sprintf("POINT(%g %g)", p.Lon(), p.Lat())
	case basetype.TNPoint:
		p := v.(basetype.NPoint)
		return fmt.Sprintf("NPOINT(%d,%g)", p.RID, p.Pos)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Parse is Text's inverse for the scalar base types (bool, int4, float8,
// text): given the text form and the base type it was written for, it
// rebuilds the Instant/InstantSet/Sequence/SequenceSet. Spatial base types
// are not round-tripped through text; callers needing those use the binary
// codec above.
func Parse(text string, bt basetype.TypeTag) (temporal.Value, error) {
	const op = "wire.Parse"
	text = strings.TrimSpace(text)
	mode := temporal.Linear
	switch {
	case strings.HasPrefix(text, "Interp=Stepwise;"):
		mode = temporal.Step
		text = strings.TrimSpace(strings.TrimPrefix(text, "Interp=Stepwise;"))
	case strings.HasPrefix(text, "Interp=Linear;"):
		text = strings.TrimSpace(strings.TrimPrefix(text, "Interp=Linear;"))
	}

	switch {
	case strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}"):
		inner := text[1 : len(text)-1]
		parts := splitTopLevel(inner)
		if len(parts) == 0 {
			return nil, terrors.New(op, terrors.ShapeViolation, nil)
		}
		first := strings.TrimSpace(parts[0])
		if strings.HasPrefix(first, "[") || strings.HasPrefix(first, "(") {
			seqs := make([]temporal.Sequence, 0, len(parts))
			for _, part := range parts {
				seq, err := parseSequence(strings.TrimSpace(part), bt, mode)
				if err != nil {
					return nil, err
				}
				seqs = append(seqs, seq)
			}
			s, err := temporal.NewSequenceSet(bt, mode, seqs)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		insts := make([]temporal.Inst, 0, len(parts))
		for _, part := range parts {
			in, err := parseInst(strings.TrimSpace(part), bt)
			if err != nil {
				return nil, err
			}
			insts = append(insts, in)
		}
		s, err := temporal.NewInstantSet(bt, insts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(text, "[") || strings.HasPrefix(text, "("):
		s, err := parseSequence(text, bt, mode)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		in, err := parseInst(text, bt)
		if err != nil {
			return nil, err
		}
		return temporal.NewInstant(bt, in.V, in.T), nil
	}
}

// splitTopLevel splits s on commas that sit outside every bracket nesting,
// the way a sequence set's "[...], [...]" or an instant set's "v@t, v@t"
// must be split without cutting a sequence's own interior commas.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseSequence(text string, bt basetype.TypeTag, mode temporal.Interp) (temporal.Sequence, error) {
	const op = "wire.parseSequence"
	if len(text) < 2 {
		return temporal.Sequence{}, terrors.New(op, terrors.ShapeViolation, nil)
	}
	lowerInc := text[0] == '['
	upperInc := text[len(text)-1] == ']'
	parts := splitTopLevel(text[1 : len(text)-1])
	insts := make([]temporal.Inst, 0, len(parts))
	for _, part := range parts {
		in, err := parseInst(strings.TrimSpace(part), bt)
		if err != nil {
			return temporal.Sequence{}, err
		}
		insts = append(insts, in)
	}
	if len(insts) == 0 {
		return temporal.Sequence{}, terrors.New(op, terrors.ShapeViolation, nil)
	}
	period, err := tstamp.NewPeriod(insts[0].T, insts[len(insts)-1].T, lowerInc, upperInc)
	if err != nil {
		return temporal.Sequence{}, err
	}
	return temporal.NewSequence(bt, period, mode, insts)
}

func parseInst(text string, bt basetype.TypeTag) (temporal.Inst, error) {
	const op = "wire.parseInst"
	idx := strings.LastIndex(text, "@")
	if idx < 0 {
		return temporal.Inst{}, terrors.New(op, terrors.ShapeViolation, nil)
	}
	valText := strings.TrimSpace(text[:idx])
	tsText := strings.TrimSpace(text[idx+1:])
	t, err := time.Parse(time.RFC3339Nano, tsText)
	if err != nil {
		return temporal.Inst{}, terrors.New(op, terrors.ShapeViolation, err)
	}
	v, err := parseValue(bt, valText)
	if err != nil {
		return temporal.Inst{}, err
	}
	return temporal.Inst{V: v, T: t}, nil
}

func parseValue(bt basetype.TypeTag, s string) (any, error) {
	const op = "wire.parseValue"
	switch bt {
	case basetype.TBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, terrors.New(op, terrors.ShapeViolation, err)
		}
		return v, nil
	case basetype.TInt4:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, terrors.New(op, terrors.ShapeViolation, err)
		}
		return int32(v), nil
	case basetype.TFloat8:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, terrors.New(op, terrors.ShapeViolation, err)
		}
		return v, nil
	case basetype.TText:
		v, err := strconv.Unquote(s)
		if err != nil {
			return nil, terrors.New(op, terrors.ShapeViolation, err)
		}
		return v, nil
	default:
		return nil, terrors.New(op, terrors.Unsupported, nil)
	}
}
