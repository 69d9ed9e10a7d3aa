package pages

import (
	"os"
	"path/filepath"
)

// Layout describes where the source tree lives and where output goes.
type Layout struct {
	// Project root containing index.html and the pages directory
	Root string
	// Output directory for built files
	OutDir string
	// Fail the build when the main template has no page index placeholder
	Strict bool
}

// Config is the build configuration handed to the bundler.
type Config struct {
	Root    string            `yaml:"root" json:"root"`
	OutDir  string            `yaml:"outDir" json:"outDir"`
	Input   map[string]string `yaml:"input" json:"input"`
	Plugins []HTMLTransform   `yaml:"-" json:"-"`
}

// PluginNames returns the names of the registered hooks, in order.
func (c *Config) PluginNames() []string {
	names := make([]string, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		names = append(names, p.Name())
	}
	return names
}

// Configure scans the pages directory once and returns the resulting build
// configuration.
func Configure(layout Layout) (*Config, error) {
	root, err := filepath.Abs(layout.Root)
	if err != nil {
		return nil, err
	}
	outDir, err := filepath.Abs(layout.OutDir)
	if err != nil {
		return nil, err
	}

	names, err := List(os.DirFS(root), "pages")
	if err != nil {
		return nil, err
	}

	return &Config{
		Root:   root,
		OutDir: outDir,
		Input:  Inputs(root, names),
		Plugins: []HTMLTransform{
			&IndexTransform{Fragment: NavFragment(names), Strict: layout.Strict},
		},
	}, nil
}
