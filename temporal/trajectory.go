package temporal

import (
	"github.com/rob-gra/tempora/basetype"
	"github.com/twpayne/go-geom"
)

// Trajectory returns the sequence's composing points as a *geom.LineString,
// built lazily and cached on first call so a spatial sequence can hand its
// trajectory to a geometry library directly. Returns nil, false for a
// non-spatial base type.
func (s *Sequence) Trajectory() (*geom.LineString, bool) {
	if !s.hdr.BaseType.Spatial() {
		return nil, false
	}
	s.trajOnce.Do(func() {
		layout := geom.XY
		coords := make([]geom.Coord, 0, len(s.insts))
		for _, in := range s.insts {
			switch p := in.V.(type) {
			case basetype.GeomPoint:
				if p.HasZ() {
					layout = geom.XYZ
					coords = append(coords, geom.Coord{p.X(), p.Y(), p.Z()})
				} else {
					coords = append(coords, geom.Coord{p.X(), p.Y()})
				}
			case basetype.GeogPoint:
				coords = append(coords, geom.Coord{p.Lon(), p.Lat()})
			}
		}
		ls := geom.NewLineString(layout)
		if layout == geom.XYZ {
			// re-flatten any 2-D points recorded before the Z-bearing one was
			// seen: go-geom requires every coordinate in a LineString to
			// share the line's layout.
			for i, in := range s.insts {
				if p, ok := in.V.(basetype.GeomPoint); ok && !p.HasZ() {
					coords[i] = geom.Coord{p.X(), p.Y(), 0}
				}
			}
		}
		flat := make([]float64, 0, len(coords)*layout.Stride())
		for _, c := range coords {
			flat = append(flat, c...)
		}
		if _, err := ls.SetFlatCoords(layout, flat); err != nil {
			return
		}
		s.traj = ls
	})
	ls, ok := s.traj.(*geom.LineString)
	return ls, ok
}
