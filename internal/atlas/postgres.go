package atlas

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/wkb"
	"go.uber.org/zap"

	"github.com/atlasworks/territory-cli/internal/lang"
)

// Pool is the subset of pgxpool.Pool the postgres source needs, narrowed so
// tests can substitute pgxmock.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads the countries table from a PostGIS database.
type PostgresSource struct {
	pool Pool
}

// NewPostgres creates a source backed by a PostGIS connection pool.
func NewPostgres(pool Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Close() error {
	if c, ok := s.pool.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}

func (s *PostgresSource) Country(ctx context.Context, name string) (*Country, error) {
	query := fmt.Sprintf(
		`SELECT name, name_long, iso_a3, ST_AsBinary(geom) FROM %s WHERE name = $1`,
		CountriesTable,
	)

	var c Country
	var iso *string
	var blob []byte
	err := s.pool.QueryRow(ctx, query, name).Scan(&c.Name, &c.LongName, &iso, &blob)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrCountryNotFound, "%q", name)
		}
		return nil, eris.Wrapf(err, "atlas: query country %q", name)
	}
	if iso != nil {
		c.ISOCode = DisplayISO(*iso)
	} else {
		c.ISOCode = DisplayISO("")
	}

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

func (s *PostgresSource) Countries(ctx context.Context, langCode string) ([]Country, error) {
	col := lang.Column(langCode)
	query := fmt.Sprintf(
		`SELECT name, name_long, iso_a3, %s, ST_AsBinary(geom) FROM %s`,
		col, CountriesTable,
	)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "atlas: query countries")
	}
	defer rows.Close()

	var countries []Country
	var skipped int
	for rows.Next() {
		var c Country
		var iso, localized *string
		var blob []byte
		if err := rows.Scan(&c.Name, &c.LongName, &iso, &localized, &blob); err != nil {
			return nil, eris.Wrap(err, "atlas: scan country row")
		}
		if iso != nil {
			c.ISOCode = DisplayISO(*iso)
		} else {
			c.ISOCode = DisplayISO("")
		}
		c.DisplayName = c.Name
		if localized != nil && *localized != "" {
			c.DisplayName = *localized
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

func (s *PostgresSource) ListCountries(ctx context.Context, limit int) ([]Country, error) {
	query := fmt.Sprintf(`SELECT name, name_long, iso_a3 FROM %s ORDER BY name`, CountriesTable)
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "atlas: list countries")
	}
	defer rows.Close()

	var countries []Country
	for rows.Next() {
		var c Country
		var iso *string
		if err := rows.Scan(&c.Name, &c.LongName, &iso); err != nil {
			return nil, eris.Wrap(err, "atlas: scan country name row")
		}
		if iso != nil {
			c.ISOCode = DisplayISO(*iso)
		} else {
			c.ISOCode = DisplayISO("")
		}
		countries = append(countries, c)
	}
	return countries, eris.Wrap(rows.Err(), "atlas: iterate country name rows")
}

// Neighbors uses ST_Touches, falling back to ST_DWithin with a small buffer
// when strict touching finds nothing.
func (s *PostgresSource) Neighbors(ctx context.Context, name string) ([]Country, error) {
	if _, err := s.Country(ctx, name); err != nil {
		return nil, err
	}

	touchQuery := fmt.Sprintf(`
		SELECT b.name, b.name_long, b.iso_a3, ST_AsBinary(b.geom)
		FROM %[1]s a
		JOIN %[1]s b ON b.name <> a.name AND ST_Touches(a.geom, b.geom)
		WHERE a.name = $1
		ORDER BY b.name`, CountriesTable)

	neighbors, err := s.scanNeighbors(ctx, touchQuery, name)
	if err != nil {
		return nil, err
	}
	if len(neighbors) > 0 {
		return neighbors, nil
	}

	zap.L().Debug("atlas: no neighbors by ST_Touches, retrying with buffer",
		zap.String("country", name),
		zap.Float64("buffer_degrees", FallbackBufferDegrees),
	)
	bufferQuery := fmt.Sprintf(`
		SELECT b.name, b.name_long, b.iso_a3, ST_AsBinary(b.geom)
		FROM %[1]s a
		JOIN %[1]s b ON b.name <> a.name
			AND ST_DWithin(a.geom, b.geom, $2)
			AND NOT ST_Covers(b.geom, a.geom)
		WHERE a.name = $1
		ORDER BY b.name`, CountriesTable)
	return s.scanNeighbors(ctx, bufferQuery, name, FallbackBufferDegrees)
}

func (s *PostgresSource) scanNeighbors(ctx context.Context, query, name string, extra ...any) ([]Country, error) {
	args := append([]any{name}, extra...)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "atlas: query neighbors of %q", name)
	}
	defer rows.Close()

	var neighbors []Country
	for rows.Next() {
		var c Country
		var iso *string
		var blob []byte
		if err := rows.Scan(&c.Name, &c.LongName, &iso, &blob); err != nil {
			return nil, eris.Wrap(err, "atlas: scan neighbor row")
		}
		if iso != nil {
			c.ISOCode = DisplayISO(*iso)
		} else {
			c.ISOCode = DisplayISO("")
		}
		g, err := wkb.Unmarshal(blob)
		if err != nil {
			return nil, eris.Wrapf(err, "atlas: decode geometry for %q", c.Name)
		}
		c.Geometry = g
		neighbors = append(neighbors, c)
	}
	return neighbors, eris.Wrap(rows.Err(), "atlas: iterate neighbor rows")
}
