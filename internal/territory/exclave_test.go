package territory

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestReduce_SingleFragmentNoOp(t *testing.T) {
	g := rect(0, 0, 4, 4)
	adjacent := []string{"Alpha", "Beta"}

	red, err := Reduce(g, nil, adjacent, func(string, *geom.Polygon) bool {
		t.Fatal("adjacency test must not run for single fragment")
		return false
	})

	require.NoError(t, err)
	assert.InDelta(t, 16.0, polygonArea(red.Geometry), 1e-9)
	assert.Equal(t, adjacent, red.Retained)
	assert.Empty(t, red.Dropped)
}

func TestReduce_KeepsMainFragment(t *testing.T) {
	g := multi(
		rect(20, 0, 22, 2), // 4
		rect(0, 0, 10, 10), // 100, the main fragment
		rect(30, 0, 31, 1), // 1
	)

	res, err := NewClassifier().Classify("Testland", g)
	require.NoError(t, err)

	red, err := Reduce(g, res, nil, nil)
	require.NoError(t, err)

	// Always a single polygon, and the same one the classifier reported.
	assert.InDelta(t, res.MainFragmentArea, polygonArea(red.Geometry), 1e-9)
}

func TestReduce_PartitionsAdjacency(t *testing.T) {
	g := multi(
		rect(0, 0, 10, 10),
		rect(20, 0, 22, 2),
	)
	adjacent := []string{"NearMain", "NearExclave", "AlsoNearMain"}

	red, err := Reduce(g, nil, adjacent, func(name string, reduced *geom.Polygon) bool {
		return name != "NearExclave"
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"NearMain", "AlsoNearMain"}, red.Retained)
	assert.Equal(t, []string{"NearExclave"}, red.Dropped)
}

func TestReduce_NilTestRetainsAll(t *testing.T) {
	g := multi(
		rect(0, 0, 10, 10),
		rect(20, 0, 22, 2),
	)
	adjacent := []string{"A", "B"}

	red, err := Reduce(g, nil, adjacent, nil)
	require.NoError(t, err)
	assert.Equal(t, adjacent, red.Retained)
	assert.Empty(t, red.Dropped)
}

func TestReduce_UnsupportedGeometry(t *testing.T) {
	pt := geom.NewPointFlat(geom.XY, []float64{1, 2})
	_, err := Reduce(pt, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrGeometryType))
}

func TestSummarize(t *testing.T) {
	g := multi(
		rect(0, 0, 10, 10),
		rect(20, 0, 22.5, 2),
	)
	res, err := NewClassifier().Classify("Russia", g)
	require.NoError(t, err)

	s := Summarize(res)
	assert.Equal(t, "has_exclave", s.TerritoryType)
	assert.Equal(t, 2, s.PolygonCount)
	assert.True(t, s.HasExclaves)
	assert.False(t, s.IsIslandNation)
	assert.InDelta(t, res.MainFragmentPercentage, s.MainAreaPercentage, 1e-9)
}

func TestTitleSuffix(t *testing.T) {
	assert.Equal(t, "(Continuous Territory)", TitleSuffix(TypeContinuous))
	assert.Equal(t, "(Island Nation)", TitleSuffix(TypeIslandNation))
	assert.Equal(t, "(With Exclaves)", TitleSuffix(TypeHasExclave))
}
