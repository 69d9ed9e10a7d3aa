package commands

import (
	"fmt"
	"os"

	"github.com/wolfeidau/pageset/internal/assets"
	"github.com/wolfeidau/pageset/internal/pages"
	"gopkg.in/yaml.v3"
)

type Globals struct {
	Debug   bool
	Version string
}

// FileConfig is the optional YAML config file. Values set in the file take
// precedence over flags.
type FileConfig struct {
	Root         string `yaml:"root" json:"root"`
	OutDir       string `yaml:"outDir" json:"outDir"`
	Strict       *bool  `yaml:"strict" json:"strict"`
	AssetsDir    string `yaml:"assetsDir" json:"assetsDir"`
	MetafilePath string `yaml:"metafile" json:"metafile"`
	Minify       *bool  `yaml:"minify" json:"minify"`
	SourceMap    *bool  `yaml:"sourcemap" json:"sourcemap"`
}

type SiteFlags struct {
	Root       string `help:"project root containing index.html and the pages directory" default:"src" env:"PAGESET_ROOT"`
	OutDir     string `help:"output directory for built files" default:"dist" env:"PAGESET_OUT_DIR"`
	Strict     bool   `help:"fail when the main template has no page index placeholder" default:"false" env:"PAGESET_STRICT"`
	ConfigFile string `help:"path to a YAML config file" type:"existingfile" env:"PAGESET_CONFIG_FILE"`
}

func (s *SiteFlags) loadFile() (*FileConfig, error) {
	if s.ConfigFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(s.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return &fc, nil
}

func (s *SiteFlags) layout(fc *FileConfig) pages.Layout {
	layout := pages.Layout{
		Root:   s.Root,
		OutDir: s.OutDir,
		Strict: s.Strict,
	}
	if fc == nil {
		return layout
	}

	if fc.Root != "" {
		layout.Root = fc.Root
	}
	if fc.OutDir != "" {
		layout.OutDir = fc.OutDir
	}
	if fc.Strict != nil {
		layout.Strict = *fc.Strict
	}
	return layout
}

func (fc *FileConfig) apply(cfg assets.Config) assets.Config {
	if fc == nil {
		return cfg
	}

	if fc.AssetsDir != "" {
		cfg.AssetsDir = fc.AssetsDir
	}
	if fc.MetafilePath != "" {
		cfg.MetafilePath = fc.MetafilePath
	}
	if fc.Minify != nil {
		cfg.Minify = *fc.Minify
	}
	if fc.SourceMap != nil {
		cfg.SourceMap = *fc.SourceMap
	}
	return cfg
}
