// Package frame computes the viewport placed around a target geometry when
// rendering it into an image.
//
// The view starts as a square centered on the target's bounding box, sized
// so the target occupies a requested fraction of the view area, then grows
// along one axis to match the output image's aspect ratio.
package frame

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// ErrInvalidBounds is returned when a view cannot be computed: degenerate
// target dimensions, non-finite results, or out-of-range parameters.
var ErrInvalidBounds = eris.New("frame: invalid view bounds")

// Bounds is a rectangular coordinate window in the geometry's native units.
type Bounds struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 {
	return b.XMax - b.XMin
}

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 {
	return b.YMax - b.YMin
}

// Contains reports whether the bounds fully contain the rectangle
// (xmin, ymin, xmax, ymax).
func (b Bounds) Contains(xmin, ymin, xmax, ymax float64) bool {
	return b.XMin <= xmin && b.YMin <= ymin && b.XMax >= xmax && b.YMax >= ymax
}

// Compute returns view bounds around target such that the target occupies
// approximately areaFraction of the rendered image area.
//
// areaFraction must be in (0, 1] and aspectRatio (image width / height)
// must be positive. The square view side is the longer bounding-box
// dimension scaled by 1/sqrt(areaFraction); the shorter view axis is then
// expanded so the final width/height ratio equals aspectRatio, keeping the
// view centered. The returned bounds always contain the target's bounding
// box.
func Compute(target geom.T, areaFraction, aspectRatio float64) (Bounds, error) {
	if areaFraction <= 0 || areaFraction > 1 {
		return Bounds{}, eris.Wrapf(ErrInvalidBounds, "area fraction %v outside (0, 1]", areaFraction)
	}
	if aspectRatio <= 0 || math.IsInf(aspectRatio, 0) || math.IsNaN(aspectRatio) {
		return Bounds{}, eris.Wrapf(ErrInvalidBounds, "aspect ratio %v not positive", aspectRatio)
	}

	bbox := target.Bounds()
	width := bbox.Max(0) - bbox.Min(0)
	height := bbox.Max(1) - bbox.Min(1)
	if width <= 0 || height <= 0 {
		return Bounds{}, eris.Wrapf(ErrInvalidBounds, "degenerate target %vx%v", width, height)
	}

	centerX := (bbox.Min(0) + bbox.Max(0)) / 2
	centerY := (bbox.Min(1) + bbox.Max(1)) / 2

	// For a square view the area fraction translates to side length via
	// sqrt: target side / view side = sqrt(areaFraction).
	targetSize := math.Max(width, height)
	totalSize := targetSize / math.Sqrt(areaFraction)

	viewWidth := totalSize
	viewHeight := totalSize
	if aspectRatio > 1 {
		viewWidth = totalSize * aspectRatio
	} else if aspectRatio < 1 {
		viewHeight = totalSize / aspectRatio
	}

	b := Bounds{
		XMin: centerX - viewWidth/2,
		YMin: centerY - viewHeight/2,
		XMax: centerX + viewWidth/2,
		YMax: centerY + viewHeight/2,
	}
	for _, v := range []float64{b.XMin, b.YMin, b.XMax, b.YMax} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Bounds{}, eris.Wrap(ErrInvalidBounds, "non-finite view coordinate")
		}
	}
	return b, nil
}
