package temporal

import (
	"hash/fnv"
	"strconv"

	"github.com/rob-gra/tempora/basetype"
)

// Equal reports whether a and b hold the same subtype, base type and
// sequence of (value, timestamp) pairs. Two Sequences with different
// Interp modes but identical samples are not equal, since Interp changes
// what the value means between samples.
func Equal(a, b Value) bool {
	if a.Header().Subtype != b.Header().Subtype || a.Header().BaseType != b.Header().BaseType {
		return false
	}
	if a.NumInstants() != b.NumInstants() {
		return false
	}
	if sa, ok := a.(Sequence); ok {
		sb := b.(Sequence)
		if sa.Interp != sb.Interp || !sa.Period.Equal(sb.Period) {
			return false
		}
	}
	if sa, ok := a.(SequenceSet); ok {
		sb := b.(SequenceSet)
		if sa.NumSequences() != sb.NumSequences() {
			return false
		}
		for i := range sa.seqs {
			if !Equal(sa.seqs[i], sb.seqs[i]) {
				return false
			}
		}
		return true
	}
	adapter, ok := basetype.Default().Adapter(a.Header().BaseType)
	if !ok {
		return false
	}
	for i := 0; i < a.NumInstants(); i++ {
		ia, ib := a.InstantAt(i), b.InstantAt(i)
		if !ia.T.Equal(ib.T) || !adapter.Eq(ia.V, ib.V) {
			return false
		}
	}
	return true
}

// Cmp gives a total, deterministic order over Values: first by subtype,
// then by base type, then by time span, then lexicographically by
// composing instant. It is not a meaningful "value size" order — only a
// stable one, suitable for the skip list's key comparison when periods
// tie and for sorting in tests.
func Cmp(a, b Value) int {
	if a.Header().Subtype != b.Header().Subtype {
		return int(a.Header().Subtype) - int(b.Header().Subtype)
	}
	if a.Header().BaseType != b.Header().BaseType {
		return int(a.Header().BaseType) - int(b.Header().BaseType)
	}
	if d := a.TimeSpan().Cmp(b.TimeSpan()); d != 0 {
		return d
	}
	adapter, ok := basetype.Default().Adapter(a.Header().BaseType)
	n := a.NumInstants()
	if b.NumInstants() < n {
		n = b.NumInstants()
	}
	for i := 0; i < n; i++ {
		ia, ib := a.InstantAt(i), b.InstantAt(i)
		if ia.T.Before(ib.T) {
			return -1
		}
		if ia.T.After(ib.T) {
			return 1
		}
		if ok {
			if d := adapter.Cmp(ia.V, ib.V); d != 0 {
				return d
			}
		}
	}
	return a.NumInstants() - b.NumInstants()
}

// Hash computes a stable fnv-1a hash over v's subtype, base type and
// composing instants, suitable for the deduplication a host's aggregate
// pipeline needs before feeding the skip list.
func Hash(v Value) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{byte(v.Header().Subtype), byte(v.Header().BaseType)})
	adapter, ok := basetype.Default().Adapter(v.Header().BaseType)
	for i := 0; i < v.NumInstants(); i++ {
		in := v.InstantAt(i)
		_, _ = h.Write([]byte(strconv.FormatInt(in.T.UnixNano(), 10)))
		if ok {
			if d, ok := adapter.ToDouble(in.V); ok {
				_, _ = h.Write([]byte(strconv.FormatFloat(d, 'g', -1, 64)))
			}
		}
	}
	return h.Sum64()
}
