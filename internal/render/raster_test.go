package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/atlasworks/territory-cli/internal/frame"
)

func testCanvas() *canvas {
	return newCanvas(100, 100, frame.Bounds{XMin: 0, YMin: 0, XMax: 10, YMax: 10},
		color.NRGBA{R: 0xe6, G: 0xf2, B: 0xff, A: 0xff})
}

func pixelAt(t *testing.T, cv *canvas, x, y int) color.NRGBA {
	t.Helper()
	data, err := cv.encodePNG()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestCanvas_Project(t *testing.T) {
	cv := testCanvas()

	// Y axis flips: the view's top edge maps to image row zero.
	x, y := cv.project(0, 10)
	assert.InDelta(t, 0, float64(x), 1e-6)
	assert.InDelta(t, 0, float64(y), 1e-6)

	x, y = cv.project(10, 0)
	assert.InDelta(t, 100, float64(x), 1e-6)
	assert.InDelta(t, 100, float64(y), 1e-6)
}

func TestCanvas_Fill(t *testing.T) {
	cv := testCanvas()
	red := color.NRGBA{R: 0xff, A: 0xff}
	cv.fill(rect(2, 2, 8, 8), red)

	assert.Equal(t, red, pixelAt(t, cv, 50, 50))
	// Outside the polygon the ocean shows through.
	assert.Equal(t, color.NRGBA{R: 0xe6, G: 0xf2, B: 0xff, A: 0xff}, pixelAt(t, cv, 5, 5))
}

func TestCanvas_Fill_Hole(t *testing.T) {
	cv := testCanvas()
	ocean := color.NRGBA{R: 0xe6, G: 0xf2, B: 0xff, A: 0xff}
	red := color.NRGBA{R: 0xff, A: 0xff}

	// Square with a square hole in the middle.
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{1, 1}, {1, 9}, {9, 9}, {9, 1}, {1, 1}},
		{{4, 4}, {4, 6}, {6, 6}, {6, 4}, {4, 4}},
	})
	cv.fill(poly, red)

	assert.Equal(t, red, pixelAt(t, cv, 20, 20))
	assert.Equal(t, ocean, pixelAt(t, cv, 50, 50))
}

func TestRingSignedArea(t *testing.T) {
	ccw := [][2]float32{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	cw := [][2]float32{{0, 0}, {0, 10}, {10, 10}, {10, 0}}

	assert.Greater(t, ringSignedArea(ccw), 0.0)
	assert.Less(t, ringSignedArea(cw), 0.0)

	reversePoints(cw)
	assert.Greater(t, ringSignedArea(cw), 0.0)
}

func TestCanvas_Stroke(t *testing.T) {
	cv := testCanvas()
	black := color.NRGBA{A: 0xff}
	cv.stroke(rect(2, 2, 8, 8), 3, black)

	// The edge midpoint sits on the stroke.
	assert.Equal(t, black, pixelAt(t, cv, 50, 20))
}
