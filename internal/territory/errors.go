package territory

import "github.com/rotisserie/eris"

// ErrGeometryType is returned when an input geometry is neither a polygon
// nor a multipolygon.
var ErrGeometryType = eris.New("territory: geometry is not a polygon or multipolygon")

// ErrDegenerateGeometry is returned when the total area of a geometry is
// zero or negative, making percentage statistics undefined.
var ErrDegenerateGeometry = eris.New("territory: geometry has no positive area")
