package atlas

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgresSource(t *testing.T) (*PostgresSource, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgres(mock), mock
}

func strPtr(s string) *string { return &s }

func countryRow(t *testing.T, name, longName, iso string, xmin, ymin, xmax, ymax float64) []any {
	t.Helper()
	return []any{name, longName, strPtr(iso), mustWKB(t, rect(xmin, ymin, xmax, ymax))}
}

func TestPostgres_Country(t *testing.T) {
	s, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`SELECT name, name_long, iso_a3, ST_AsBinary\(geom\) FROM ne_10m_admin_0_countries WHERE name = \$1`).
		WithArgs("Israel").
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3", "st_asbinary"}).
			AddRow(countryRow(t, "Israel", "State of Israel", "ISR", 34, 29, 36, 33)...))

	c, err := s.Country(context.Background(), "Israel")
	require.NoError(t, err)
	assert.Equal(t, "Israel", c.Name)
	assert.Equal(t, "ISR", c.ISOCode)
	require.NotNil(t, c.Geometry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Country_NotFound(t *testing.T) {
	s, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`SELECT name, name_long, iso_a3, ST_AsBinary\(geom\) FROM ne_10m_admin_0_countries WHERE name = \$1`).
		WithArgs("Atlantis").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Country(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrCountryNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Countries_Localized(t *testing.T) {
	s, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`SELECT name, name_long, iso_a3, name_fr, ST_AsBinary\(geom\) FROM ne_10m_admin_0_countries`).
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3", "name_fr", "st_asbinary"}).
			AddRow("Israel", "State of Israel", strPtr("ISR"), strPtr("Israël"), mustWKB(t, rect(34, 29, 36, 33))).
			AddRow("Cyprus", "Republic of Cyprus", strPtr("-99"), strPtr(""), mustWKB(t, rect(32, 34, 34, 36))))

	countries, err := s.Countries(context.Background(), "fr")
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Israël", countries[0].DisplayName)
	// Empty localized name falls back to the English name.
	assert.Equal(t, "Cyprus", countries[1].DisplayName)
	assert.Equal(t, "N/A", countries[1].ISOCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListCountries(t *testing.T) {
	s, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`SELECT name, name_long, iso_a3 FROM ne_10m_admin_0_countries ORDER BY name LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3"}).
			AddRow("Cyprus", "Republic of Cyprus", strPtr("CYP")).
			AddRow("Israel", "State of Israel", strPtr("ISR")))

	countries, err := s.ListCountries(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Cyprus", countries[0].Name)
	assert.Nil(t, countries[0].Geometry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Neighbors(t *testing.T) {
	s, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`WHERE name = \$1`).
		WithArgs("Israel").
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3", "st_asbinary"}).
			AddRow(countryRow(t, "Israel", "State of Israel", "ISR", 34, 29, 36, 33)...))
	mock.ExpectQuery(`ST_Touches`).
		WithArgs("Israel").
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3", "st_asbinary"}).
			AddRow(countryRow(t, "Jordan", "Hashemite Kingdom of Jordan", "JOR", 36, 29, 38, 33)...))

	neighbors, err := s.Neighbors(context.Background(), "Israel")
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "Jordan", neighbors[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Neighbors_BufferFallback(t *testing.T) {
	s, mock := newMockPostgresSource(t)

	mock.ExpectQuery(`WHERE name = \$1`).
		WithArgs("Cyprus").
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3", "st_asbinary"}).
			AddRow(countryRow(t, "Cyprus", "Republic of Cyprus", "CYP", 32, 34, 34, 36)...))
	// Strict touching finds nothing, the buffered pass runs next.
	mock.ExpectQuery(`ST_Touches`).
		WithArgs("Cyprus").
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3", "st_asbinary"}))
	mock.ExpectQuery(`ST_DWithin`).
		WithArgs("Cyprus", FallbackBufferDegrees).
		WillReturnRows(pgxmock.NewRows([]string{"name", "name_long", "iso_a3", "st_asbinary"}).
			AddRow(countryRow(t, "Turkey", "Republic of Turkey", "TUR", 26, 36, 45, 42)...))

	neighbors, err := s.Neighbors(context.Background(), "Cyprus")
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "Turkey", neighbors[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
