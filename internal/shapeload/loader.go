// Package shapeload imports a Natural Earth admin-0 countries shapefile
// into the SQLite atlas database.
package shapeload

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/atlasworks/territory-cli/internal/atlas"
	"github.com/atlasworks/territory-cli/internal/lang"
)

// baseColumns are the non-localized attribute columns carried over from the
// shapefile.
var baseColumns = []string{"name", "name_long", "iso_a3"}

// columns returns every attribute column in insert order.
func columns() []string {
	return append(append([]string{}, baseColumns...), lang.Columns()...)
}

// Open opens (or creates) the SQLite atlas database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "shapeload: open %s", path)
	}
	return db, nil
}

// Migrate creates the countries table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	cols := make([]string, 0, len(columns())+2)
	cols = append(cols, "ogc_fid INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, c := range columns() {
		cols = append(cols, c+" TEXT")
	}
	cols = append(cols, "GEOMETRY BLOB")

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		atlas.CountriesTable, strings.Join(cols, ",\n\t"))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return eris.Wrap(err, "shapeload: create countries table")
	}
	return nil
}

// Load reads a countries shapefile and inserts every record with a usable
// polygon geometry. Returns the number of rows inserted.
func Load(ctx context.Context, db *sql.DB, shpPath string) (int, error) {
	if err := Migrate(ctx, db); err != nil {
		return 0, err
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return 0, eris.Wrapf(err, "shapeload: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	cols := columns()
	placeholders := strings.TrimRight(strings.Repeat("?, ", len(cols)+1), ", ")
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s, GEOMETRY) VALUES (%s)",
		atlas.CountriesTable, strings.Join(cols, ", "), placeholders)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "shapeload: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, eris.Wrap(err, "shapeload: prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	var inserted, skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		blob, err := encodeWKB(poly)
		if err != nil || blob == nil {
			skipped++
			continue
		}

		row := make([]any, 0, len(cols)+1)
		for _, col := range cols {
			idx, ok := fieldIdx[col]
			if !ok {
				row = append(row, nil)
				continue
			}
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
			if val == "" {
				row = append(row, nil)
			} else {
				row = append(row, val)
			}
		}
		row = append(row, blob)

		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, eris.Wrap(err, "shapeload: insert country")
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "shapeload: commit")
	}

	if skipped > 0 {
		zap.L().Debug("shapeload: skipped shapefile records", zap.Int("skipped", skipped))
	}
	zap.L().Info("shapeload: countries loaded",
		zap.String("shapefile", shpPath),
		zap.Int("inserted", inserted),
	)
	return inserted, nil
}

// encodeWKB converts a go-shp polygon to a WKB multipolygon.
func encodeWKB(p *shp.Polygon) ([]byte, error) {
	g := polygonToMultiPolygon(p)
	if g == nil {
		return nil, nil
	}
	data, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "shapeload: encode WKB")
	}
	return data, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("shapeload: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("shapeload: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
