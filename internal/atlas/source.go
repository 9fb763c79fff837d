// Package atlas loads country records and geometries from a Natural Earth
// database.
package atlas

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// CountriesTable is the Natural Earth admin-0 countries table.
const CountriesTable = "ne_10m_admin_0_countries"

// ErrCountryNotFound is returned when a country name has no row in the
// atlas database.
var ErrCountryNotFound = eris.New("atlas: country not found")

// Country is one admin-0 country record.
type Country struct {
	Name        string `json:"name"`
	LongName    string `json:"long_name"`
	ISOCode     string `json:"iso_code"`
	DisplayName string `json:"display_name,omitempty"`
	Geometry    geom.T `json:"-"`
}

// Source provides country lookup, enumeration, and neighbor detection.
type Source interface {
	// Country returns a single country with its geometry, or
	// ErrCountryNotFound.
	Country(ctx context.Context, name string) (*Country, error)

	// Countries returns all countries with geometries. DisplayName is
	// filled from the requested label language, falling back to the
	// English name when no localized name exists.
	Countries(ctx context.Context, langCode string) ([]Country, error)

	// ListCountries returns country records without geometries, sorted by
	// name. A limit <= 0 returns all rows.
	ListCountries(ctx context.Context, limit int) ([]Country, error)

	// Neighbors returns the countries spatially adjacent to the named one.
	Neighbors(ctx context.Context, name string) ([]Country, error)

	// Close releases the underlying database handle.
	Close() error
}

// DisplayISO normalizes an ISO code for display. Natural Earth uses "-99"
// for missing codes.
func DisplayISO(code string) string {
	if code == "" || code == "-99" {
		return "N/A"
	}
	return code
}

// validGeometry checks that a decoded geometry is a polygon or
// multipolygon, the only shapes the countries table may contain.
func validGeometry(g geom.T) error {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return nil
	default:
		return eris.Errorf("atlas: expected polygon or multipolygon, got %T", g)
	}
}
