package render

import (
	"context"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/atlasworks/territory-cli/internal/atlas"
	"github.com/atlasworks/territory-cli/internal/frame"
	"github.com/atlasworks/territory-cli/internal/territory"
)

// Composer wires the atlas source, classifier, exclave filter, framer, and
// rasterizer into map renders.
type Composer struct {
	source     atlas.Source
	classifier *territory.Classifier
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithClassifier overrides the default classifier.
func WithClassifier(c *territory.Classifier) ComposerOption {
	return func(cp *Composer) {
		cp.classifier = c
	}
}

// NewComposer creates a Composer over the given atlas source.
func NewComposer(src atlas.Source, opts ...ComposerOption) *Composer {
	c := &Composer{
		source:     src,
		classifier: territory.NewClassifier(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze loads a country's geometry and classifies it.
func (c *Composer) Analyze(ctx context.Context, countryName string) (*territory.Result, error) {
	country, err := c.source.Country(ctx, countryName)
	if err != nil {
		return nil, err
	}
	return c.classifier.Classify(country.Name, country.Geometry)
}

// MapRequest describes one map render.
type MapRequest struct {
	Country           string
	Language          string
	Config            Config
	ShowTerritoryInfo bool
}

// MapResult is the outcome of a render.
type MapResult struct {
	PNG                []byte
	Title              string
	Classification     *territory.Result
	Bounds             frame.Bounds
	Neighbors          []string
	DroppedNeighbors   []string
	ExcludedPercentage float64
}

// RenderMap draws the requested country and its neighbors.
//
// When exclave exclusion applies, view bounds and neighbor adjacency use
// the reduced geometry while the drawn shape stays the full multi-fragment
// one. When the framer rejects the reduced geometry the render retries once
// with the unfiltered geometry before surfacing the error.
func (c *Composer) RenderMap(ctx context.Context, req MapRequest) (*MapResult, error) {
	log := zap.L().With(zap.String("country", req.Country))

	countries, err := c.source.Countries(ctx, req.Language)
	if err != nil {
		return nil, err
	}
	var target *atlas.Country
	byName := make(map[string]*atlas.Country, len(countries))
	for i := range countries {
		byName[countries[i].Name] = &countries[i]
		if countries[i].Name == req.Country {
			target = &countries[i]
		}
	}
	if target == nil {
		return nil, eris.Wrapf(atlas.ErrCountryNotFound, "%q", req.Country)
	}

	neighbors, err := c.source.Neighbors(ctx, req.Country)
	if err != nil {
		return nil, err
	}
	neighborNames := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		neighborNames = append(neighborNames, n.Name)
	}

	classification, err := c.classifier.Classify(target.Name, target.Geometry)
	if err != nil {
		return nil, err
	}

	title := req.Config.Title
	if title == "" {
		title = req.Country + " and Its Neighbors"
	}
	if req.ShowTerritoryInfo {
		title += " " + territory.TitleSuffix(classification.GeometryType)
	}

	result := &MapResult{
		Title:          title,
		Classification: classification,
		Neighbors:      neighborNames,
	}

	boundsGeom := target.Geometry
	if req.Config.ExcludeExclaves && classification.FragmentCount > 1 {
		test := func(name string, reduced *geom.Polygon) bool {
			n, ok := byName[name]
			if !ok {
				return false
			}
			return atlas.Touches(reduced, n.Geometry) ||
				atlas.NearWithin(reduced, n.Geometry, atlas.FallbackBufferDegrees)
		}
		reduction, err := territory.Reduce(target.Geometry, classification, neighborNames, test)
		if err != nil {
			return nil, err
		}
		boundsGeom = reduction.Geometry
		result.Neighbors = reduction.Retained
		result.DroppedNeighbors = reduction.Dropped
		result.ExcludedPercentage = classification.MainFragmentPercentage
		log.Info("excluding exclaves from view",
			zap.Float64("main_landmass_pct", classification.MainFragmentPercentage),
			zap.Int("dropped_neighbors", len(reduction.Dropped)),
		)
	}

	bounds, err := frame.Compute(boundsGeom, req.Config.TargetPercentage, req.Config.AspectRatio())
	if err != nil && eris.Is(err, frame.ErrInvalidBounds) && boundsGeom != target.Geometry {
		log.Warn("framing reduced geometry failed, retrying with full geometry", zap.Error(err))
		bounds, err = frame.Compute(target.Geometry, req.Config.TargetPercentage, req.Config.AspectRatio())
	}
	if err != nil {
		return nil, err
	}
	result.Bounds = bounds

	png, err := c.draw(countries, target, result, req.Config)
	if err != nil {
		return nil, err
	}
	result.PNG = png

	if req.Config.OutputPath != "" {
		if err := os.WriteFile(req.Config.OutputPath, png, 0o644); err != nil {
			return nil, eris.Wrapf(err, "render: write %s", req.Config.OutputPath)
		}
		log.Info("map written",
			zap.String("output", req.Config.OutputPath),
			zap.Int("neighbors", len(result.Neighbors)),
		)
	}
	return result, nil
}

// draw rasterizes the full country layer. The target keeps its complete
// multi-fragment shape even when the view was framed on the reduced one.
func (c *Composer) draw(countries []atlas.Country, target *atlas.Country, res *MapResult, cfg Config) ([]byte, error) {
	retained := make(map[string]bool, len(res.Neighbors))
	for _, name := range res.Neighbors {
		retained[name] = true
	}

	cv := newCanvas(cfg.Width, cfg.Height, res.Bounds, mustHex(cfg.Colors.Ocean))

	otherFill := mustHex(cfg.Colors.Other)
	neighborFill := mustHex(cfg.Colors.Neighbor)
	targetFill := mustHex(cfg.Colors.Target)
	borderCol := mustHex(cfg.Colors.Border)
	textCol := mustHex(cfg.Colors.Text)

	// Paint order: other, neighbors, target, so the target always sits on
	// top along shared borders.
	for _, country := range countries {
		if country.Name == target.Name || retained[country.Name] {
			continue
		}
		if !inView(country.Geometry, res.Bounds) {
			continue
		}
		cv.fill(country.Geometry, otherFill)
		cv.stroke(country.Geometry, cfg.BorderWidth, borderCol)
	}
	for _, country := range countries {
		if !retained[country.Name] {
			continue
		}
		cv.fill(country.Geometry, neighborFill)
		cv.stroke(country.Geometry, cfg.BorderWidth, borderCol)
	}
	cv.fill(target.Geometry, targetFill)
	cv.stroke(target.Geometry, cfg.BorderWidth, borderCol)

	if cfg.ShowLabels {
		for _, country := range countries {
			if !inView(country.Geometry, res.Bounds) {
				continue
			}
			x, y, ok := labelAnchor(country.Geometry)
			if !ok || !containsPoint(res.Bounds, x, y) {
				continue
			}
			text := labelText(country, cfg.LabelType)
			if text == "" {
				continue
			}
			cv.label(x, y, text, textCol, country.Name == target.Name)
		}
	}

	cv.title(res.Title, textCol)
	return cv.encodePNG()
}

// labelText resolves the label for a country, truncating long names the
// same way the label fitting expects: first word, capped at five runes.
func labelText(c atlas.Country, t LabelType) string {
	if t == LabelCode {
		return c.ISOCode
	}
	text := c.DisplayName
	if text == "" {
		text = c.Name
	}
	if len([]rune(text)) > 15 {
		first := strings.Fields(text)
		if len(first) > 0 {
			text = first[0]
		}
		if r := []rune(text); len(r) > 5 {
			text = string(r[:5]) + "..."
		}
	}
	return text
}

// labelAnchor returns the centroid of the largest fragment of a geometry.
func labelAnchor(g geom.T) (float64, float64, bool) {
	var best *geom.Polygon
	bestArea := -1.0
	for _, p := range polygonsOf(g) {
		if a := math.Abs(p.Area()); a > bestArea {
			best = p
			bestArea = a
		}
	}
	if best == nil {
		return 0, 0, false
	}
	c, err := xy.Centroid(best)
	if err != nil || len(c) < 2 {
		b := best.Bounds()
		return (b.Min(0) + b.Max(0)) / 2, (b.Min(1) + b.Max(1)) / 2, true
	}
	return c[0], c[1], true
}

func inView(g geom.T, view frame.Bounds) bool {
	b := g.Bounds()
	return b.Min(0) <= view.XMax && view.XMin <= b.Max(0) &&
		b.Min(1) <= view.YMax && view.YMin <= b.Max(1)
}

func containsPoint(view frame.Bounds, x, y float64) bool {
	return view.XMin <= x && x <= view.XMax && view.YMin <= y && y <= view.YMax
}
