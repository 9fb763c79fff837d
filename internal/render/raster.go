package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/atlasworks/territory-cli/internal/frame"
)

// canvas rasterizes geometries into an RGBA image under a fixed view
// transform.
type canvas struct {
	img  *image.RGBA
	view frame.Bounds
	w, h int
}

func newCanvas(w, h int, view frame.Bounds, ocean color.NRGBA) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(ocean), image.Point{}, draw.Src)
	return &canvas{img: img, view: view, w: w, h: h}
}

// project maps a geometry coordinate to pixel space. The y axis flips
// because image rows grow downward.
func (c *canvas) project(x, y float64) (float32, float32) {
	px := (x - c.view.XMin) / c.view.Width() * float64(c.w)
	py := (c.view.YMax - y) / c.view.Height() * float64(c.h)
	return float32(px), float32(py)
}

// fill paints the interior of a polygon or multipolygon. Interior rings are
// wound opposite to the exterior so the rasterizer's signed-area
// accumulation leaves holes empty.
func (c *canvas) fill(g geom.T, fill color.NRGBA) {
	for _, poly := range polygonsOf(g) {
		r := vector.NewRasterizer(c.w, c.h)
		for ringIdx, ring := range poly.Coords() {
			pts := c.projectRing(ring)
			if len(pts) < 3 {
				continue
			}
			wantPositive := ringIdx == 0
			if (ringSignedArea(pts) > 0) != wantPositive {
				reversePoints(pts)
			}
			r.MoveTo(pts[0][0], pts[0][1])
			for _, p := range pts[1:] {
				r.LineTo(p[0], p[1])
			}
			r.ClosePath()
		}
		r.DrawOp = draw.Over
		r.Draw(c.img, c.img.Bounds(), image.NewUniform(fill), image.Point{})
	}
}

// stroke draws the outline of every ring of a polygon or multipolygon as a
// sequence of filled edge quads of the given pixel width.
func (c *canvas) stroke(g geom.T, width float64, col color.NRGBA) {
	if width <= 0 {
		return
	}
	half := float32(width / 2)
	for _, poly := range polygonsOf(g) {
		r := vector.NewRasterizer(c.w, c.h)
		for _, ring := range poly.Coords() {
			pts := c.projectRing(ring)
			for i := 0; i < len(pts); i++ {
				p0 := pts[i]
				p1 := pts[(i+1)%len(pts)]
				addQuad(r, p0, p1, half)
			}
		}
		r.DrawOp = draw.Over
		r.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
	}
}

// addQuad appends a rectangle of halfwidth hw around the segment p0→p1.
func addQuad(r *vector.Rasterizer, p0, p1 [2]float32, hw float32) {
	dx := p1[0] - p0[0]
	dy := p1[1] - p0[1]
	length := float32(vecLen(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx := -dy / length * hw
	ny := dx / length * hw
	r.MoveTo(p0[0]+nx, p0[1]+ny)
	r.LineTo(p1[0]+nx, p1[1]+ny)
	r.LineTo(p1[0]-nx, p1[1]-ny)
	r.LineTo(p0[0]-nx, p0[1]-ny)
	r.ClosePath()
}

// label draws centered text at a geometry coordinate. Emphasized labels are
// double-struck one pixel apart.
func (c *canvas) label(x, y float64, text string, col color.NRGBA, emphasize bool) {
	px, py := c.project(x, y)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(px*64) - width/2,
		Y: fixed.Int26_6(py * 64),
	}
	start := d.Dot
	d.DrawString(text)
	if emphasize {
		d.Dot = fixed.Point26_6{X: start.X + 64, Y: start.Y}
		d.DrawString(text)
	}
}

// title draws the map title centered along the top edge.
func (c *canvas) title(text string, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.I(c.w/2) - width/2,
		Y: fixed.I(24),
	}
	start := d.Dot
	d.DrawString(text)
	d.Dot = fixed.Point26_6{X: start.X + 64, Y: start.Y}
	d.DrawString(text)
}

// encodePNG serializes the canvas.
func (c *canvas) encodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, eris.Wrap(err, "render: encode png")
	}
	return buf.Bytes(), nil
}

func (c *canvas) projectRing(ring []geom.Coord) [][2]float32 {
	pts := make([][2]float32, 0, len(ring))
	for _, coord := range ring {
		x, y := c.project(coord[0], coord[1])
		pts = append(pts, [2]float32{x, y})
	}
	// Rings may repeat the first coordinate; ClosePath supplies it.
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func polygonsOf(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		polys := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
		return polys
	default:
		return nil
	}
}

func ringSignedArea(pts [][2]float32) float64 {
	area := 0.0
	for i := 0; i < len(pts); i++ {
		j := (i + 1) % len(pts)
		area += float64(pts[i][0])*float64(pts[j][1]) - float64(pts[j][0])*float64(pts[i][1])
	}
	return area / 2
}

func reversePoints(pts [][2]float32) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func vecLen(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}
