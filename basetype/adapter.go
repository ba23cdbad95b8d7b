package basetype

// Adapter is the capability interface every base type must satisfy.
// Values flow through it as `any`; callers type-assert to
// the concrete Go type (bool, int32, float64, string, GeomPoint, GeogPoint,
// NPoint, Double2/3/4) documented on the TypeTag.
type Adapter interface {
	Tag() TypeTag
	Continuous() bool
	Eq(a, b any) bool
	Cmp(a, b any) int
	Copy(v any) any
	// ToDouble projects v onto float64 for numeric-only consumers (bbox
	// value range, number_bucket, ...). ok is false when the base type has
	// no natural scalar projection.
	ToDouble(v any) (val float64, ok bool)
}

// Interpolator is the optional hook continuous base types provide: the
// segment-endpoint interpolation and collinearity test.
type Interpolator interface {
	// InterpolateAt returns the value at t = a.t + ratio*(b.t-a.t) given
	// the endpoint values a, b and the ratio already computed by interp.
	InterpolateAt(a, b any, ratio float64) any
	// Collinear reports whether b equals InterpolateAt(a, c, ratio) within
	// eps — the predicate the normalizer uses to drop redundant points.
	Collinear(a, b, c any, ratio, eps float64) bool
}

// SpatialAdapter is the optional hook spatial base types provide: SRID
// extraction, Z/geodetic flags and distance. Segmentize/intersection/buffer
// and the topological predicates are genuinely out of scope — only the
// interfaces the core actually consumes are modeled here, beyond the two
// distance hooks the core itself needs (simplify's chord distance, tdwithin
// style lifted predicates a host wires against this adapter).
type SpatialAdapter interface {
	SRID(v any) int
	HasZ(v any) bool
	Geodetic() bool
	Distance2D(a, b any) float64
	Distance3D(a, b any) float64
}

func asFloat64Pair(a, b any) (float64, float64, bool) {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	return af, bf, aok && bok
}
