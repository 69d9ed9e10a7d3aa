package assets

type Config struct {
	// Directory under the output dir that receives bundled scripts
	AssetsDir string
	// Path to metafile (relative to the output dir), empty to skip writing it
	MetafilePath string
	// Whether to minify output
	Minify bool
	// Whether to enable source maps
	SourceMap bool
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		AssetsDir: "assets",
		Minify:    true,
	}
}
