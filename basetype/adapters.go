package basetype

import "strings"

type boolAdapter struct{}

func (boolAdapter) Tag() TypeTag       { return TBool }
func (boolAdapter) Continuous() bool   { return false }
func (boolAdapter) Eq(a, b any) bool   { return a.(bool) == b.(bool) }
func (boolAdapter) Copy(v any) any     { return v.(bool) }
func (boolAdapter) ToDouble(v any) (float64, bool) {
	if v.(bool) {
		return 1, true
	}
	return 0, true
}
func (boolAdapter) Cmp(a, b any) int {
	av, bv := a.(bool), b.(bool)
	if av == bv {
		return 0
	}
	if !av && bv {
		return -1
	}
	return 1
}

type int4Adapter struct{}

func (int4Adapter) Tag() TypeTag     { return TInt4 }
func (int4Adapter) Continuous() bool { return false }
func (int4Adapter) Eq(a, b any) bool { return a.(int32) == b.(int32) }
func (int4Adapter) Copy(v any) any   { return v.(int32) }
func (int4Adapter) ToDouble(v any) (float64, bool) {
	return float64(v.(int32)), true
}
func (int4Adapter) Cmp(a, b any) int {
	av, bv := a.(int32), b.(int32)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

type float8Adapter struct{}

func (float8Adapter) Tag() TypeTag     { return TFloat8 }
func (float8Adapter) Continuous() bool { return true }
func (float8Adapter) Eq(a, b any) bool { return a.(float64) == b.(float64) }
func (float8Adapter) Copy(v any) any   { return v.(float64) }
func (float8Adapter) ToDouble(v any) (float64, bool) {
	return v.(float64), true
}
func (float8Adapter) Cmp(a, b any) int {
	av, bv := a.(float64), b.(float64)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}
func (float8Adapter) InterpolateAt(a, b any, ratio float64) any {
	av, bv, _ := asFloat64Pair(a, b)
	return lerp(av, bv, ratio)
}
func (float8Adapter) Collinear(a, b, c any, ratio, eps float64) bool {
	av, cv, _ := asFloat64Pair(a, c)
	bv := b.(float64)
	expected := lerp(av, cv, ratio)
	d := bv - expected
	if d < 0 {
		d = -d
	}
	return d <= eps
}

type textAdapter struct{}

func (textAdapter) Tag() TypeTag     { return TText }
func (textAdapter) Continuous() bool { return false }
func (textAdapter) Eq(a, b any) bool { return a.(string) == b.(string) }
func (textAdapter) Copy(v any) any   { return v.(string) }
func (textAdapter) ToDouble(any) (float64, bool) {
	return 0, false
}
func (textAdapter) Cmp(a, b any) int {
	return strings.Compare(a.(string), b.(string))
}

type geomPointAdapter struct{}

func (geomPointAdapter) Tag() TypeTag     { return TGeomPoint }
func (geomPointAdapter) Continuous() bool { return true }
func (geomPointAdapter) Eq(a, b any) bool { return a.(GeomPoint).equal(b.(GeomPoint)) }
func (geomPointAdapter) Copy(v any) any   { return v.(GeomPoint) }
func (geomPointAdapter) ToDouble(any) (float64, bool) {
	return 0, false
}
func (geomPointAdapter) Cmp(a, b any) int {
	av, bv := a.(GeomPoint), b.(GeomPoint)
	if d := cmpFloat(av.X(), bv.X()); d != 0 {
		return d
	}
	if d := cmpFloat(av.Y(), bv.Y()); d != 0 {
		return d
	}
	return cmpFloat(av.Z(), bv.Z())
}
func (geomPointAdapter) InterpolateAt(a, b any, ratio float64) any {
	av, bv := a.(GeomPoint), b.(GeomPoint)
	if av.HasZ() && bv.HasZ() {
		return NewGeomPoint3D(lerp(av.X(), bv.X(), ratio), lerp(av.Y(), bv.Y(), ratio), lerp(av.Z(), bv.Z(), ratio), av.SRID)
	}
	return NewGeomPoint2D(lerp(av.X(), bv.X(), ratio), lerp(av.Y(), bv.Y(), ratio), av.SRID)
}
func (geomPointAdapter) Collinear(a, b, c any, ratio, eps float64) bool {
	av, bv, cv := a.(GeomPoint), b.(GeomPoint), c.(GeomPoint)
	expected := geomPointAdapter{}.InterpolateAt(av, cv, ratio).(GeomPoint)
	return bv.distance2D(expected) <= eps
}
func (geomPointAdapter) SRID(v any) int    { return v.(GeomPoint).SRID }
func (geomPointAdapter) HasZ(v any) bool   { return v.(GeomPoint).HasZ() }
func (geomPointAdapter) Geodetic() bool    { return false }
func (geomPointAdapter) Distance2D(a, b any) float64 {
	return a.(GeomPoint).distance2D(b.(GeomPoint))
}
func (geomPointAdapter) Distance3D(a, b any) float64 {
	return a.(GeomPoint).distance3D(b.(GeomPoint))
}

type geogPointAdapter struct{}

func (geogPointAdapter) Tag() TypeTag     { return TGeogPoint }
func (geogPointAdapter) Continuous() bool { return true }
func (geogPointAdapter) Eq(a, b any) bool { return a.(GeogPoint).equal(b.(GeogPoint)) }
func (geogPointAdapter) Copy(v any) any   { return v.(GeogPoint) }
func (geogPointAdapter) ToDouble(any) (float64, bool) {
	return 0, false
}
func (geogPointAdapter) Cmp(a, b any) int {
	av, bv := a.(GeogPoint), b.(GeogPoint)
	if d := cmpFloat(av.Lon(), bv.Lon()); d != 0 {
		return d
	}
	return cmpFloat(av.Lat(), bv.Lat())
}
func (geogPointAdapter) InterpolateAt(a, b any, ratio float64) any {
	av, bv := a.(GeogPoint), b.(GeogPoint)
	// Linear lon/lat interpolation approximates the great-circle segment;
	// true geodesic interpolation belongs to an external geography
	// library, which this self-contained adapter stands in for.
	return NewGeogPoint(lerp(av.Lon(), bv.Lon(), ratio), lerp(av.Lat(), bv.Lat(), ratio))
}
func (geogPointAdapter) Collinear(a, b, c any, ratio, eps float64) bool {
	av, bv, cv := a.(GeogPoint), b.(GeogPoint), c.(GeogPoint)
	expected := geogPointAdapter{}.InterpolateAt(av, cv, ratio).(GeogPoint)
	return haversineMeters(bv, expected) <= eps
}
func (geogPointAdapter) SRID(v any) int  { return v.(GeogPoint).SRID }
func (geogPointAdapter) HasZ(any) bool   { return false }
func (geogPointAdapter) Geodetic() bool  { return true }
func (geogPointAdapter) Distance2D(a, b any) float64 {
	return haversineMeters(a.(GeogPoint), b.(GeogPoint))
}
func (geogPointAdapter) Distance3D(a, b any) float64 {
	return haversineMeters(a.(GeogPoint), b.(GeogPoint))
}

type nPointAdapter struct{}

func (nPointAdapter) Tag() TypeTag     { return TNPoint }
func (nPointAdapter) Continuous() bool { return true }
func (nPointAdapter) Eq(a, b any) bool { return a.(NPoint).equal(b.(NPoint)) }
func (nPointAdapter) Copy(v any) any   { return v.(NPoint) }
func (nPointAdapter) ToDouble(v any) (float64, bool) {
	return v.(NPoint).Pos, true
}
func (nPointAdapter) Cmp(a, b any) int { return a.(NPoint).cmp(b.(NPoint)) }
func (nPointAdapter) InterpolateAt(a, b any, ratio float64) any {
	av, bv := a.(NPoint), b.(NPoint)
	return NPoint{RID: av.RID, Pos: lerp(av.Pos, bv.Pos, ratio)}
}
func (nPointAdapter) Collinear(a, b, c any, ratio, eps float64) bool {
	av, cv := a.(NPoint), c.(NPoint)
	bv := b.(NPoint)
	if av.RID != bv.RID || bv.RID != cv.RID {
		return false
	}
	expected := lerp(av.Pos, cv.Pos, ratio)
	d := bv.Pos - expected
	if d < 0 {
		d = -d
	}
	return d <= eps
}

type double2Adapter struct{}

func (double2Adapter) Tag() TypeTag     { return TDouble2 }
func (double2Adapter) Continuous() bool { return true }
func (double2Adapter) Eq(a, b any) bool {
	av, bv := a.(Double2), b.(Double2)
	return av == bv
}
func (double2Adapter) Copy(v any) any { return v.(Double2) }
func (double2Adapter) ToDouble(any) (float64, bool) {
	return 0, false
}
func (double2Adapter) Cmp(a, b any) int {
	av, bv := a.(Double2), b.(Double2)
	if d := cmpFloat(av.A, bv.A); d != 0 {
		return d
	}
	return cmpFloat(av.B, bv.B)
}
func (double2Adapter) InterpolateAt(a, b any, ratio float64) any {
	av, bv := a.(Double2), b.(Double2)
	return Double2{A: lerp(av.A, bv.A, ratio), B: lerp(av.B, bv.B, ratio)}
}
func (double2Adapter) Collinear(a, b, c any, ratio, eps float64) bool {
	av, cv := a.(Double2), c.(Double2)
	bv := b.(Double2)
	expected := double2Adapter{}.InterpolateAt(av, cv, ratio).(Double2)
	return absf(bv.A-expected.A) <= eps && absf(bv.B-expected.B) <= eps
}

type double3Adapter struct{}

func (double3Adapter) Tag() TypeTag     { return TDouble3 }
func (double3Adapter) Continuous() bool { return true }
func (double3Adapter) Eq(a, b any) bool { return a.(Double3) == b.(Double3) }
func (double3Adapter) Copy(v any) any   { return v.(Double3) }
func (double3Adapter) ToDouble(any) (float64, bool) {
	return 0, false
}
func (double3Adapter) Cmp(a, b any) int {
	av, bv := a.(Double3), b.(Double3)
	if d := cmpFloat(av.A, bv.A); d != 0 {
		return d
	}
	if d := cmpFloat(av.B, bv.B); d != 0 {
		return d
	}
	return cmpFloat(av.C, bv.C)
}
func (double3Adapter) InterpolateAt(a, b any, ratio float64) any {
	av, bv := a.(Double3), b.(Double3)
	return Double3{A: lerp(av.A, bv.A, ratio), B: lerp(av.B, bv.B, ratio), C: lerp(av.C, bv.C, ratio)}
}
func (double3Adapter) Collinear(a, b, c any, ratio, eps float64) bool {
	av, cv := a.(Double3), c.(Double3)
	bv := b.(Double3)
	expected := double3Adapter{}.InterpolateAt(av, cv, ratio).(Double3)
	return absf(bv.A-expected.A) <= eps && absf(bv.B-expected.B) <= eps && absf(bv.C-expected.C) <= eps
}

type double4Adapter struct{}

func (double4Adapter) Tag() TypeTag     { return TDouble4 }
func (double4Adapter) Continuous() bool { return true }
func (double4Adapter) Eq(a, b any) bool { return a.(Double4) == b.(Double4) }
func (double4Adapter) Copy(v any) any   { return v.(Double4) }
func (double4Adapter) ToDouble(any) (float64, bool) {
	return 0, false
}
func (double4Adapter) Cmp(a, b any) int {
	av, bv := a.(Double4), b.(Double4)
	if d := cmpFloat(av.A, bv.A); d != 0 {
		return d
	}
	if d := cmpFloat(av.B, bv.B); d != 0 {
		return d
	}
	if d := cmpFloat(av.C, bv.C); d != 0 {
		return d
	}
	return cmpFloat(av.D, bv.D)
}
func (double4Adapter) InterpolateAt(a, b any, ratio float64) any {
	av, bv := a.(Double4), b.(Double4)
	return Double4{
		A: lerp(av.A, bv.A, ratio), B: lerp(av.B, bv.B, ratio),
		C: lerp(av.C, bv.C, ratio), D: lerp(av.D, bv.D, ratio),
	}
}
func (double4Adapter) Collinear(a, b, c any, ratio, eps float64) bool {
	av, cv := a.(Double4), c.(Double4)
	bv := b.(Double4)
	expected := double4Adapter{}.InterpolateAt(av, cv, ratio).(Double4)
	return absf(bv.A-expected.A) <= eps && absf(bv.B-expected.B) <= eps &&
		absf(bv.C-expected.C) <= eps && absf(bv.D-expected.D) <= eps
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
