package main

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/atlasworks/territory-cli/internal/atlas"
	"github.com/atlasworks/territory-cli/internal/render"
)

// atlasPath, when set by a --db-path flag, overrides the configured SQLite
// database location.
var atlasPath string

// openSource builds the configured atlas backend.
func openSource(ctx context.Context) (atlas.Source, error) {
	driver := cfg.Atlas.Driver
	switch driver {
	case "", "sqlite":
		path := cfg.Atlas.Path
		if atlasPath != "" {
			path = atlasPath
		}
		return atlas.NewSQLite(path)
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Atlas.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "connect postgres atlas")
		}
		return atlas.NewPostgres(pool), nil
	default:
		return nil, eris.Errorf("unknown atlas driver %q", driver)
	}
}

// renderConfig builds a render.Config from application config, loading a
// style file when one is configured.
func renderConfig() (render.Config, error) {
	rc := render.DefaultConfig()
	if cfg.Render.Width > 0 {
		rc.Width = cfg.Render.Width
	}
	if cfg.Render.Height > 0 {
		rc.Height = cfg.Render.Height
	}
	if cfg.Render.TargetPercentage > 0 {
		rc.TargetPercentage = cfg.Render.TargetPercentage
	}
	rc.ExcludeExclaves = cfg.Render.ExcludeExclaves
	if cfg.Render.LabelType != "" {
		rc.LabelType = render.LabelType(cfg.Render.LabelType)
	}
	if cfg.Render.BorderWidth > 0 {
		rc.BorderWidth = cfg.Render.BorderWidth
	}
	if cfg.Render.StylePath != "" {
		colors, err := render.LoadColors(cfg.Render.StylePath)
		if err != nil {
			return rc, err
		}
		rc.Colors = colors
	}
	return rc, nil
}

// defaultOutputPath mirrors the conventional /tmp/<country>.png location.
func defaultOutputPath(country string) string {
	name := strings.ReplaceAll(strings.ToLower(country), " ", "_")
	dir := cfg.Render.OutputDir
	if dir == "" {
		dir = "/tmp"
	}
	return dir + "/" + name + ".png"
}
