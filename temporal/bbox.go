package temporal

import (
	"math"

	"github.com/rob-gra/tempora/basetype"
	"github.com/rob-gra/tempora/bbox"
	"github.com/rob-gra/tempora/tstamp"
)

// computeBox derives a Box from a flat instant list, dispatching on the
// base type's adapter hooks: numeric types get a value range, spatial
// types get an axis-aligned box, bool/text get time-only.
func computeBox(bt basetype.TypeTag, hdr Header, insts []Inst) bbox.Box {
	span, _ := spanOf(insts)
	adapter, ok := basetype.Default().Adapter(bt)
	if !ok {
		return bbox.TimeOnlyBox(span)
	}

	if sp, ok := basetype.AsSpatial(adapter); ok {
		return spatialBox(span, sp, hdr, insts)
	}

	min, max := math.Inf(1), math.Inf(-1)
	found := false
	for _, in := range insts {
		d, ok := adapter.ToDouble(in.V)
		if !ok {
			return bbox.TimeOnlyBox(span)
		}
		found = true
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	if !found {
		return bbox.TimeOnlyBox(span)
	}
	return bbox.NumberBox(span, min, max)
}

func spatialBox(span tstamp.Period, sp basetype.SpatialAdapter, hdr Header, insts []Inst) bbox.Box {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	zmin, zmax := math.Inf(1), math.Inf(-1)
	hasZ := false
	for _, in := range insts {
		x, y, z, withZ := coordsOf(in.V)
		hasZ = hasZ || withZ
		xmin, xmax = minf(xmin, x), maxf(xmax, x)
		ymin, ymax = minf(ymin, y), maxf(ymax, y)
		if withZ {
			zmin, zmax = minf(zmin, z), maxf(zmax, z)
		}
	}
	if hasZ {
		return bbox.SpatialBox3D(span, xmin, xmax, ymin, ymax, zmin, zmax, sp.Geodetic())
	}
	return bbox.SpatialBox2D(span, xmin, xmax, ymin, ymax, sp.Geodetic())
}

func coordsOf(v any) (x, y, z float64, hasZ bool) {
	switch p := v.(type) {
	case basetype.GeomPoint:
		return p.X(), p.Y(), p.Z(), p.HasZ()
	case basetype.GeogPoint:
		return p.Lon(), p.Lat(), 0, false
	default:
		return 0, 0, 0, false
	}
}

func spanOf(insts []Inst) (tstamp.Period, bool) {
	if len(insts) == 0 {
		return tstamp.Period{}, false
	}
	return tstamp.Period{Lower: insts[0].T, Upper: insts[len(insts)-1].T, LowerInc: true, UpperInc: true}, true
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
