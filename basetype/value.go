package basetype

import (
	"math"

	"github.com/twpayne/go-geom"
)

// GeomPoint is a planar or 3-D Cartesian spatial point. Coordinate storage
// is a *geom.Point (github.com/twpayne/go-geom); SRID and Z-presence are
// adapter-level metadata go-geom itself does not carry, so the SRID
// extraction and Z/geodetic flag hooks are supplied here instead.
type GeomPoint struct {
	Pt   *geom.Point
	SRID int
}

// NewGeomPoint2D builds a 2-D planar point.
func NewGeomPoint2D(x, y float64, srid int) GeomPoint {
	p := geom.NewPoint(geom.XY)
	if _, err := p.SetCoords(geom.Coord{x, y}); err != nil {
		panic(err) // SetCoords only fails on a coord/layout length mismatch
	}
	return GeomPoint{Pt: p, SRID: srid}
}

// NewGeomPoint3D builds a 3-D planar point.
func NewGeomPoint3D(x, y, z float64, srid int) GeomPoint {
	p := geom.NewPoint(geom.XYZ)
	if _, err := p.SetCoords(geom.Coord{x, y, z}); err != nil {
		panic(err)
	}
	return GeomPoint{Pt: p, SRID: srid}
}

// HasZ reports whether the point carries a Z ordinate.
func (p GeomPoint) HasZ() bool { return p.Pt.Layout() == geom.XYZ || p.Pt.Layout() == geom.XYZM }

func (p GeomPoint) X() float64 { return p.Pt.X() }
func (p GeomPoint) Y() float64 { return p.Pt.Y() }
func (p GeomPoint) Z() float64 {
	if !p.HasZ() {
		return 0
	}
	return p.Pt.Z()
}

func (p GeomPoint) equal(o GeomPoint) bool {
	if p.SRID != o.SRID || p.HasZ() != o.HasZ() {
		return false
	}
	if p.X() != o.X() || p.Y() != o.Y() {
		return false
	}
	return !p.HasZ() || p.Z() == o.Z()
}

// distance2D returns the planar Euclidean distance between p and o,
// ignoring Z. A host-supplied geometry library would use its own
// predicate; this is the concrete adapter's own straightforward
// implementation so the package is self-contained for testing.
func (p GeomPoint) distance2D(o GeomPoint) float64 {
	dx, dy := p.X()-o.X(), p.Y()-o.Y()
	return math.Hypot(dx, dy)
}

func (p GeomPoint) distance3D(o GeomPoint) float64 {
	dx, dy, dz := p.X()-o.X(), p.Y()-o.Y(), p.Z()-o.Z()
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// GeogPoint is a geodetic (lon/lat, degrees) spatial point.
type GeogPoint struct {
	Pt   *geom.Point
	SRID int // conventionally 4326 but left open for the host's CRS registry
}

// NewGeogPoint builds a lon/lat geography point.
func NewGeogPoint(lon, lat float64) GeogPoint {
	p := geom.NewPoint(geom.XY)
	if _, err := p.SetCoords(geom.Coord{lon, lat}); err != nil {
		panic(err)
	}
	return GeogPoint{Pt: p, SRID: 4326}
}

func (p GeogPoint) Lon() float64 { return p.Pt.X() }
func (p GeogPoint) Lat() float64 { return p.Pt.Y() }

func (p GeogPoint) equal(o GeogPoint) bool {
	return p.SRID == o.SRID && p.Lon() == o.Lon() && p.Lat() == o.Lat()
}

// haversineMeters is a standard great-circle distance; used both as the
// geography adapter's distance hook and by Collinear to test whether a
// midpoint lies on the great-circle segment.
func haversineMeters(a, b GeogPoint) float64 {
	const earthRadiusM = 6371008.8
	lat1, lat2 := a.Lat()*math.Pi/180, b.Lat()*math.Pi/180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180
	sinDLat, sinDLon := math.Sin(dLat/2), math.Sin(dLon/2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// NPoint is a position along a linear-referencing network edge: edge
// identifier plus a fractional position in [0, 1].
type NPoint struct {
	RID uint64
	Pos float64
}

func (p NPoint) equal(o NPoint) bool { return p.RID == o.RID && p.Pos == o.Pos }

func (p NPoint) cmp(o NPoint) int {
	if p.RID != o.RID {
		if p.RID < o.RID {
			return -1
		}
		return 1
	}
	switch {
	case p.Pos < o.Pos:
		return -1
	case p.Pos > o.Pos:
		return 1
	default:
		return 0
	}
}

// Double2, Double3, Double4 are internal aggregation tuples: not
// user-facing base types, but carried through the same adapter surface so
// aggregates (twavg, centroid-style accumulation) can be lifted like any
// other continuous value.
type Double2 struct{ A, B float64 }
type Double3 struct{ A, B, C float64 }
type Double4 struct{ A, B, C, D float64 }

func lerp(a, b, ratio float64) float64 { return a + ratio*(b-a) }
