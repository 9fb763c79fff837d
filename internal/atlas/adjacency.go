package atlas

import (
	"math"

	"github.com/twpayne/go-geom"
)

// FallbackBufferDegrees is the tolerance used when strict boundary-vertex
// matching finds no neighbors, to absorb precision differences between
// datasets. Roughly 1km at the equator.
const FallbackBufferDegrees = 0.01

// Touches reports whether two geometries share at least one boundary
// vertex. Natural Earth admin-0 polygons carry identical coordinates along
// shared borders, so exact vertex matching is a correct adjacency test for
// data from a single edition.
func Touches(a, b geom.T) bool {
	if !boundsOverlap(a.Bounds(), b.Bounds(), 0) {
		return false
	}
	seen := make(map[[2]float64]struct{})
	eachVertex(a, func(x, y float64) bool {
		seen[[2]float64{x, y}] = struct{}{}
		return true
	})
	found := false
	eachVertex(b, func(x, y float64) bool {
		if _, ok := seen[[2]float64{x, y}]; ok {
			found = true
			return false
		}
		return true
	})
	return found
}

// NearWithin reports whether any vertex of b lies within eps of a vertex of
// a. It is the fallback adjacency test for geometries whose shared borders
// do not coincide exactly.
func NearWithin(a, b geom.T, eps float64) bool {
	if eps <= 0 {
		return Touches(a, b)
	}
	if !boundsOverlap(a.Bounds(), b.Bounds(), eps) {
		return false
	}

	// Bucket a's vertices into an eps-sized grid so each vertex of b only
	// checks its own cell and the eight surrounding ones.
	grid := make(map[[2]int64][][2]float64)
	eachVertex(a, func(x, y float64) bool {
		key := cellOf(x, y, eps)
		grid[key] = append(grid[key], [2]float64{x, y})
		return true
	})

	near := false
	eachVertex(b, func(x, y float64) bool {
		cx, cy := cellOf(x, y, eps)[0], cellOf(x, y, eps)[1]
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, v := range grid[[2]int64{cx + dx, cy + dy}] {
					if math.Hypot(v[0]-x, v[1]-y) <= eps {
						near = true
						return false
					}
				}
			}
		}
		return true
	})
	return near
}

func cellOf(x, y, eps float64) [2]int64 {
	return [2]int64{int64(math.Floor(x / eps)), int64(math.Floor(y / eps))}
}

// eachVertex calls fn for every coordinate pair of g, stopping early when
// fn returns false.
func eachVertex(g geom.T, fn func(x, y float64) bool) {
	flat := g.FlatCoords()
	stride := g.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		if !fn(flat[i], flat[i+1]) {
			return
		}
	}
}

func boundsOverlap(a, b *geom.Bounds, eps float64) bool {
	return a.Min(0)-eps <= b.Max(0) && b.Min(0)-eps <= a.Max(0) &&
		a.Min(1)-eps <= b.Max(1) && b.Min(1)-eps <= a.Max(1)
}
