package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/pageset/internal/assets"
	"github.com/wolfeidau/pageset/internal/logger"
	"github.com/wolfeidau/pageset/internal/pages"
)

// BuildCmd scans the pages directory and builds every page.
type BuildCmd struct {
	SiteFlags `embed:""`

	AssetsDir    string `help:"directory under the output dir for bundled scripts" default:"assets" env:"PAGESET_ASSETS_DIR"`
	MetafilePath string `name:"metafile" help:"write the esbuild metafile to this path under the output dir" default:"" env:"PAGESET_METAFILE"`
	Minify       bool   `help:"minify bundled scripts" default:"true" negatable:"" env:"PAGESET_MINIFY"`
	SourceMap    bool   `help:"emit linked source maps" default:"false" env:"PAGESET_SOURCEMAP"`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.SetupGlobal(globals.Debug)

	fc, err := c.loadFile()
	if err != nil {
		return err
	}

	cfg, err := pages.Configure(c.layout(fc))
	if err != nil {
		return fmt.Errorf("failed to configure pages: %w", err)
	}

	log.Info().
		Str("version", globals.Version).
		Str("root", cfg.Root).
		Str("out_dir", cfg.OutDir).
		Int("entries", len(cfg.Input)).
		Msg("Building pages")

	pipeline := assets.New(fc.apply(assets.Config{
		AssetsDir:    c.AssetsDir,
		MetafilePath: c.MetafilePath,
		Minify:       c.Minify,
		SourceMap:    c.SourceMap,
	}))
	if err := pipeline.Build(cfg); err != nil {
		return fmt.Errorf("failed to build pages: %w", err)
	}

	log.Info().Str("out_dir", cfg.OutDir).Msg("Build complete")
	return nil
}
