package shapeload

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/atlasworks/territory-cli/internal/atlas"
	"github.com/atlasworks/territory-cli/internal/lang"
)

func TestColumns(t *testing.T) {
	cols := columns()
	require.Greater(t, len(cols), 3)
	assert.Equal(t, "name", cols[0])
	assert.Equal(t, "name_long", cols[1])
	assert.Equal(t, "iso_a3", cols[2])
	assert.Len(t, cols, 3+len(lang.Columns()))
	assert.Contains(t, cols, "name_fr")
	assert.Contains(t, cols, "name_zht")
}

func TestMigrate(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "atlas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	// Idempotent.
	require.NoError(t, Migrate(ctx, db))

	_, err = db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (name, name_long, iso_a3, name_fr, GEOMETRY) VALUES (?, ?, ?, ?, ?)`,
		atlas.CountriesTable,
	), "Testland", "Republic of Testland", "TST", "Testlande", []byte{0x01})
	require.NoError(t, err)

	var count int
	err = db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, atlas.CountriesTable)).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEncodeWKB_SinglePart(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: 34, Y: 29},
			{X: 34, Y: 33},
			{X: 36, Y: 33},
			{X: 36, Y: 29},
			{X: 34, Y: 29},
		},
	}

	blob, err := encodeWKB(poly)
	require.NoError(t, err)
	require.NotNil(t, blob)

	g, err := wkb.Unmarshal(blob)
	require.NoError(t, err)
	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 1, mp.NumPolygons())

	bbox := mp.Bounds()
	assert.InDelta(t, 34.0, bbox.Min(0), 1e-9)
	assert.InDelta(t, 33.0, bbox.Max(1), 1e-9)
}

func TestEncodeWKB_MultiPart(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 2,
		Parts:    []int32{0, 5},
		Points: []shp.Point{
			{X: 0, Y: 0},
			{X: 0, Y: 2},
			{X: 2, Y: 2},
			{X: 2, Y: 0},
			{X: 0, Y: 0},
			{X: 10, Y: 10},
			{X: 10, Y: 11},
			{X: 11, Y: 11},
			{X: 11, Y: 10},
			{X: 10, Y: 10},
		},
	}

	blob, err := encodeWKB(poly)
	require.NoError(t, err)

	g, err := wkb.Unmarshal(blob)
	require.NoError(t, err)
	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}
