// Package bbox implements the bounding-box engine: a per-base-type
// precomputed summary (value range + time period for numbers, 2D/3D/
// geodetic box + time period for spatial types, time period only for
// bool/text) stored inside every non-instant temporal value.
package bbox

import (
	"github.com/rob-gra/tempora/tstamp"
)

// Box is the union of every shape a bounding box can take. HasValue/HasSpatial
// select which fields are meaningful; Period is always present.
type Box struct {
	Period tstamp.Period

	HasValue      bool
	ValueMin      float64
	ValueMax      float64

	HasSpatial bool
	XMin, XMax float64
	YMin, YMax float64
	HasZ       bool
	ZMin, ZMax float64
	Geodetic   bool
}

// NumberBox builds a Box for a numeric temporal value.
func NumberBox(p tstamp.Period, min, max float64) Box {
	return Box{Period: p, HasValue: true, ValueMin: min, ValueMax: max}
}

// TimeOnlyBox builds a Box for a bool/text temporal value: time period only.
func TimeOnlyBox(p tstamp.Period) Box {
	return Box{Period: p}
}

// SpatialBox2D builds a Box for a 2-D planar or geodetic spatial temporal
// value.
func SpatialBox2D(p tstamp.Period, xmin, xmax, ymin, ymax float64, geodetic bool) Box {
	return Box{Period: p, HasSpatial: true, XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax, Geodetic: geodetic}
}

// SpatialBox3D builds a Box for a 3-D spatial temporal value.
func SpatialBox3D(p tstamp.Period, xmin, xmax, ymin, ymax, zmin, zmax float64, geodetic bool) Box {
	return Box{
		Period: p, HasSpatial: true,
		XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax,
		HasZ: true, ZMin: zmin, ZMax: zmax, Geodetic: geodetic,
	}
}

// Expand widens b in place to contain other.
func (b *Box) Expand(other Box) {
	b.Period = b.Period.Union(other.Period)
	if other.HasValue {
		if !b.HasValue {
			b.HasValue, b.ValueMin, b.ValueMax = true, other.ValueMin, other.ValueMax
		} else {
			b.ValueMin = minf(b.ValueMin, other.ValueMin)
			b.ValueMax = maxf(b.ValueMax, other.ValueMax)
		}
	}
	if other.HasSpatial {
		if !b.HasSpatial {
			b.HasSpatial = true
			b.XMin, b.XMax, b.YMin, b.YMax = other.XMin, other.XMax, other.YMin, other.YMax
			b.HasZ, b.ZMin, b.ZMax = other.HasZ, other.ZMin, other.ZMax
			b.Geodetic = other.Geodetic
		} else {
			b.XMin, b.XMax = minf(b.XMin, other.XMin), maxf(b.XMax, other.XMax)
			b.YMin, b.YMax = minf(b.YMin, other.YMin), maxf(b.YMax, other.YMax)
			if other.HasZ && b.HasZ {
				b.ZMin, b.ZMax = minf(b.ZMin, other.ZMin), maxf(b.ZMax, other.ZMax)
			}
		}
	}
}

// Overlaps reports whether b and other could possibly describe overlapping
// temporal values; restriction and synchronization use this to short-
// circuit before doing exact work.
func (b Box) Overlaps(other Box) bool {
	if !b.Period.Overlaps(other.Period) {
		return false
	}
	if b.HasValue && other.HasValue {
		if b.ValueMax < other.ValueMin || other.ValueMax < b.ValueMin {
			return false
		}
	}
	if b.HasSpatial && other.HasSpatial {
		if b.XMax < other.XMin || other.XMax < b.XMin {
			return false
		}
		if b.YMax < other.YMin || other.YMax < b.YMin {
			return false
		}
	}
	return true
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
