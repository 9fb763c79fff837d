// Package territory analyzes country geometries and classifies their
// territorial structure.
//
// A country is classified by the share of its total area held by the largest
// polygon ("main fragment"):
//   - continuous: a single landmass
//   - has_exclave: one dominant landmass plus minor detached territories
//   - island_nation: multiple fragments with no dominant landmass
//
// Examples: Israel is continuous, Russia has an exclave (Kaliningrad),
// Indonesia is an island nation.
package territory

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// GeometryType classifies a country's territorial topology.
type GeometryType int

const (
	// TypeContinuous is a country with a single continuous landmass.
	TypeContinuous GeometryType = iota
	// TypeIslandNation is a country of multiple fragments where no single
	// fragment dominates the total area.
	TypeIslandNation
	// TypeHasExclave is a country with one dominant landmass and one or
	// more minor detached territories.
	TypeHasExclave
)

func (t GeometryType) String() string {
	switch t {
	case TypeContinuous:
		return "continuous"
	case TypeIslandNation:
		return "island_nation"
	case TypeHasExclave:
		return "has_exclave"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so results serialize with
// the stable string form rather than the numeric one.
func (t GeometryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Fragment holds per-polygon statistics for one constituent part of a
// country's geometry.
type Fragment struct {
	Area       float64    `json:"area"`
	Percentage float64    `json:"percentage"`
	Centroid   geom.Coord `json:"centroid"`
}

// Result holds the outcome of classifying one country.
type Result struct {
	CountryName            string       `json:"country_name"`
	GeometryType           GeometryType `json:"geometry_type"`
	TotalArea              float64      `json:"total_area"`
	MainFragmentArea       float64      `json:"main_fragment_area"`
	MainFragmentPercentage float64      `json:"main_fragment_percentage"`
	FragmentCount          int          `json:"fragment_count"`
	MaxCentroidDistance    float64      `json:"max_centroid_distance"`
	Fragments              []Fragment   `json:"fragments"`
}

// DefaultThreshold is the minimum share of total area the main fragment
// must hold for the country to count as a single dominant landmass.
const DefaultThreshold = 0.8

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithThreshold overrides the dominance threshold. Values outside (0, 1]
// are rejected at classification time.
func WithThreshold(t float64) ClassifierOption {
	return func(c *Classifier) {
		c.threshold = t
	}
}

// Classifier classifies country geometries by territorial structure.
type Classifier struct {
	threshold float64
}

// NewClassifier creates a Classifier with the default dominance threshold.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns the configured dominance threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify computes per-fragment statistics for a country geometry and
// classifies it. The geometry must be a polygon or multipolygon; a geometry
// whose total area is not positive fails with ErrDegenerateGeometry.
// Classification is a pure function of its inputs.
func (c *Classifier) Classify(countryName string, g geom.T) (*Result, error) {
	if c.threshold <= 0 || c.threshold > 1 {
		return nil, eris.Errorf("territory: threshold %v outside (0, 1]", c.threshold)
	}

	polys, err := splitFragments(g)
	if err != nil {
		return nil, eris.Wrapf(err, "classify %s", countryName)
	}

	if len(polys) == 1 {
		area := polygonArea(polys[0])
		if area <= 0 {
			return nil, eris.Wrapf(ErrDegenerateGeometry, "classify %s", countryName)
		}
		return &Result{
			CountryName:            countryName,
			GeometryType:           TypeContinuous,
			TotalArea:              area,
			MainFragmentArea:       area,
			MainFragmentPercentage: 100.0,
			FragmentCount:          1,
			MaxCentroidDistance:    0.0,
			Fragments: []Fragment{{
				Area:       area,
				Percentage: 100.0,
				Centroid:   polygonCentroid(polys[0]),
			}},
		}, nil
	}

	fragments := make([]Fragment, 0, len(polys))
	totalArea := 0.0
	for _, p := range polys {
		area := polygonArea(p)
		totalArea += area
		fragments = append(fragments, Fragment{
			Area:     area,
			Centroid: polygonCentroid(p),
		})
	}
	if totalArea <= 0 {
		return nil, eris.Wrapf(ErrDegenerateGeometry, "classify %s", countryName)
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].Area > fragments[j].Area
	})
	for i := range fragments {
		fragments[i].Percentage = fragments[i].Area / totalArea * 100.0
	}

	// Cross-check against the shared main-fragment helper used by Reduce.
	main, _ := mainFragment(polys)
	mainArea := polygonArea(main)
	mainPercentage := mainArea / totalArea * 100.0

	maxDistance := 0.0
	for i := 0; i < len(fragments); i++ {
		for j := i + 1; j < len(fragments); j++ {
			// Centroid-to-centroid distance, not true polygon distance.
			if d := centroidDistance(fragments[i].Centroid, fragments[j].Centroid); d > maxDistance {
				maxDistance = d
			}
		}
	}

	geometryType := TypeIslandNation
	if mainPercentage >= c.threshold*100 {
		geometryType = TypeHasExclave
	}

	return &Result{
		CountryName:            countryName,
		GeometryType:           geometryType,
		TotalArea:              totalArea,
		MainFragmentArea:       mainArea,
		MainFragmentPercentage: mainPercentage,
		FragmentCount:          len(fragments),
		MaxCentroidDistance:    maxDistance,
		Fragments:              fragments,
	}, nil
}
