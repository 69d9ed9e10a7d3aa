package assets

import (
	"sync"

	"golang.org/x/net/html"
)

type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
	CSSBundle  string       `json:"cssBundle"`
}

type ImportInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Pipeline turns a page set configuration into built HTML and script bundles
type Pipeline struct {
	config   Config
	root     string
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a new asset pipeline with the given configuration
func New(config Config) *Pipeline {
	return &Pipeline{
		config: config,
	}
}

// document is one HTML entry after its transform hooks have run.
type document struct {
	entry   string
	outPath string
	text    string
	node    *html.Node
	scripts []scriptRef
}

// scriptRef is a module script tag and the source file it points at.
type scriptRef struct {
	node *html.Node
	path string
}
