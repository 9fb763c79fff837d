package territory

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// splitFragments returns the constituent polygons of a geometry. A single
// polygon yields a one-element slice; a multipolygon yields one entry per
// part. Any other geometry type fails with ErrGeometryType.
func splitFragments(g geom.T) ([]*geom.Polygon, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}, nil
	case *geom.MultiPolygon:
		polys := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
		return polys, nil
	default:
		return nil, eris.Wrapf(ErrGeometryType, "got %T", g)
	}
}

// polygonArea returns the unsigned planar area of a polygon. Ring
// orientation in source data is not guaranteed, so the sign is discarded.
func polygonArea(p *geom.Polygon) float64 {
	return math.Abs(p.Area())
}

// polygonCentroid returns the area-weighted centroid of a polygon, falling
// back to the bounding-box center when the centroid is undefined.
func polygonCentroid(p *geom.Polygon) geom.Coord {
	c, err := xy.Centroid(p)
	if err != nil || len(c) < 2 {
		b := p.Bounds()
		return geom.Coord{(b.Min(0) + b.Max(0)) / 2, (b.Min(1) + b.Max(1)) / 2}
	}
	return geom.Coord{c[0], c[1]}
}

// mainFragment returns the largest polygon by area and its index. Both the
// classifier and the exclave filter resolve the main fragment through this
// helper so the classified fragment and the rendered one cannot diverge.
func mainFragment(polys []*geom.Polygon) (*geom.Polygon, int) {
	best := 0
	bestArea := polygonArea(polys[0])
	for i := 1; i < len(polys); i++ {
		if a := polygonArea(polys[i]); a > bestArea {
			best = i
			bestArea = a
		}
	}
	return polys[best], best
}

// centroidDistance returns the Euclidean distance between two coordinates.
func centroidDistance(a, b geom.Coord) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
