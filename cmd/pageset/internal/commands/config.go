package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wolfeidau/pageset/internal/logger"
	"github.com/wolfeidau/pageset/internal/pages"
	"gopkg.in/yaml.v3"
)

// ConfigCmd prints the configuration the build would run with.
type ConfigCmd struct {
	SiteFlags `embed:""`

	Format string `help:"output format" default:"yaml" enum:"yaml,json"`

	out io.Writer `kong:"-"`
}

type configView struct {
	Root    string            `yaml:"root" json:"root"`
	OutDir  string            `yaml:"outDir" json:"outDir"`
	Input   map[string]string `yaml:"input" json:"input"`
	Plugins []string          `yaml:"plugins" json:"plugins"`
}

func (c *ConfigCmd) Run(ctx context.Context, globals *Globals) error {
	logger.SetupGlobal(globals.Debug)

	fc, err := c.loadFile()
	if err != nil {
		return err
	}

	cfg, err := pages.Configure(c.layout(fc))
	if err != nil {
		return fmt.Errorf("failed to configure pages: %w", err)
	}

	view := configView{
		Root:    cfg.Root,
		OutDir:  cfg.OutDir,
		Input:   cfg.Input,
		Plugins: cfg.PluginNames(),
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}

	switch c.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	default:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	}
}
