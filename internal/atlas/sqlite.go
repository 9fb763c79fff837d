package atlas

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/wkb"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/atlasworks/territory-cli/internal/lang"
)

// SQLiteSource reads the Natural Earth vector SQLite database via
// modernc.org/sqlite.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLite opens the Natural Earth SQLite database at the given path.
func NewSQLite(path string) (*SQLiteSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "atlas: database file not found: %s", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "atlas: open %s", path)
	}
	return &SQLiteSource{db: db}, nil
}

// NewSQLiteFromDB wraps an already-open handle, used by the shapefile
// loader and tests.
func NewSQLiteFromDB(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) Country(ctx context.Context, name string) (*Country, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT name, name_long, iso_a3, GEOMETRY FROM %s WHERE name = ?`, CountriesTable),
		name,
	)

	var c Country
	var iso sql.NullString
	var blob []byte
	if err := row.Scan(&c.Name, &c.LongName, &iso, &blob); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrCountryNotFound, "%q", name)
		}
		return nil, eris.Wrapf(err, "atlas: query country %q", name)
	}
	c.ISOCode = DisplayISO(iso.String)

	g, err := wkb.Unmarshal(blob)
	if err != nil {
		return nil, eris.Wrapf(err, "atlas: decode geometry for %q", name)
	}
	if err := validGeometry(g); err != nil {
		return nil, err
	}
	c.Geometry = g
	return &c, nil
}

func (s *SQLiteSource) Countries(ctx context.Context, langCode string) ([]Country, error) {
	// lang.Column only ever returns values from the fixed Natural Earth
	// column set, so interpolation is safe.
	col := lang.Column(langCode)
	query := fmt.Sprintf(
		`SELECT name, name_long, iso_a3, %s, GEOMETRY FROM %s`,
		col, CountriesTable,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "atlas: query countries")
	}
	defer rows.Close()

	var countries []Country
	var skipped int
	for rows.Next() {
		var c Country
		var iso, localized sql.NullString
		var blob []byte
		if err := rows.Scan(&c.Name, &c.LongName, &iso, &localized, &blob); err != nil {
			return nil, eris.Wrap(err, "atlas: scan country row")
		}
		c.ISOCode = DisplayISO(iso.String)
		c.DisplayName = c.Name
		if localized.Valid && localized.String != "" {
			c.DisplayName = localized.String
		}

		g, err := wkb.Unmarshal(blob)
		if err != nil || validGeometry(g) != nil {
			skipped++
			continue
		}
		c.Geometry = g
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "atlas: iterate country rows")
	}
	if skipped > 0 {
		zap.L().Debug("atlas: skipped countries with undecodable geometry", zap.Int("skipped", skipped))
	}
	return countries, nil
}

func (s *SQLiteSource) ListCountries(ctx context.Context, limit int) ([]Country, error) {
	query := fmt.Sprintf(`SELECT name, name_long, iso_a3 FROM %s ORDER BY name`, CountriesTable)
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "atlas: list countries")
	}
	defer rows.Close()

	var countries []Country
	for rows.Next() {
		var c Country
		var iso sql.NullString
		if err := rows.Scan(&c.Name, &c.LongName, &iso); err != nil {
			return nil, eris.Wrap(err, "atlas: scan country name row")
		}
		c.ISOCode = DisplayISO(iso.String)
		countries = append(countries, c)
	}
	return countries, eris.Wrap(rows.Err(), "atlas: iterate country name rows")
}

// Neighbors finds countries sharing a border with the named one. Strict
// vertex matching runs first; when it finds nothing, a second pass accepts
// anything within FallbackBufferDegrees.
func (s *SQLiteSource) Neighbors(ctx context.Context, name string) ([]Country, error) {
	countries, err := s.Countries(ctx, "")
	if err != nil {
		return nil, err
	}

	var target *Country
	for i := range countries {
		if countries[i].Name == name {
			target = &countries[i]
			break
		}
	}
	if target == nil {
		return nil, eris.Wrapf(ErrCountryNotFound, "%q", name)
	}

	var neighbors []Country
	for _, c := range countries {
		if c.Name == name {
			continue
		}
		if Touches(target.Geometry, c.Geometry) {
			neighbors = append(neighbors, c)
		}
	}

	if len(neighbors) == 0 {
		zap.L().Debug("atlas: no neighbors by shared vertex, retrying with buffer",
			zap.String("country", name),
			zap.Float64("buffer_degrees", FallbackBufferDegrees),
		)
		for _, c := range countries {
			if c.Name == name {
				continue
			}
			if NearWithin(target.Geometry, c.Geometry, FallbackBufferDegrees) {
				neighbors = append(neighbors, c)
			}
		}
	}
	return neighbors, nil
}
