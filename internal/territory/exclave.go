package territory

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// AdjacencyTest reports whether the named neighboring entity is still
// adjacent to the reduced geometry.
type AdjacencyTest func(name string, reduced *geom.Polygon) bool

// Reduction is the outcome of collapsing a geometry to its main fragment.
type Reduction struct {
	// Geometry is always a single polygon.
	Geometry *geom.Polygon
	// Retained holds the adjacent entity names that still pass the
	// adjacency test against the reduced geometry.
	Retained []string
	// Dropped holds the adjacent entity names that no longer pass.
	Dropped []string
}

// Reduce collapses a multi-fragment geometry down to its main fragment and
// re-evaluates which adjacent entities remain adjacent to it. For a
// single-fragment geometry this is a no-op: the original polygon comes back
// and every adjacent entity is retained.
//
// The main fragment is recomputed from the supplied geometry with the same
// helper the classifier uses, so the reduced polygon always matches
// res.MainFragmentArea when res was computed from the same geometry.
func Reduce(g geom.T, res *Result, adjacent []string, test AdjacencyTest) (*Reduction, error) {
	polys, err := splitFragments(g)
	if err != nil {
		return nil, eris.Wrap(err, "reduce")
	}

	if len(polys) == 1 || (res != nil && res.FragmentCount == 1) {
		return &Reduction{
			Geometry: polys[0],
			Retained: append([]string(nil), adjacent...),
		}, nil
	}

	main, _ := mainFragment(polys)

	red := &Reduction{Geometry: main}
	if test == nil {
		red.Retained = append([]string(nil), adjacent...)
		return red, nil
	}
	for _, name := range adjacent {
		if test(name, main) {
			red.Retained = append(red.Retained, name)
		} else {
			red.Dropped = append(red.Dropped, name)
		}
	}
	return red, nil
}
