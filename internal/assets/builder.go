package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pageset/internal/pages"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrBuildFailed is returned when esbuild reports errors
var ErrBuildFailed = errors.New("esbuild failed with errors")

// Build runs the transform hooks over every input, bundles the module scripts
// they reference and writes the resulting HTML into the output directory
func (p *Pipeline) Build(cfg *pages.Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.root = cfg.Root
	p.metadata = nil

	docs := make([]*document, 0, len(cfg.Input))
	var entryPoints []string
	seen := make(map[string]bool)

	for _, name := range entryNames(cfg.Input) {
		doc, err := loadDocument(cfg, name)
		if err != nil {
			return err
		}
		for _, ref := range doc.scripts {
			if !seen[ref.path] {
				seen[ref.path] = true
				entryPoints = append(entryPoints, ref.path)
			}
		}
		docs = append(docs, doc)
	}

	if len(entryPoints) > 0 {
		log.Info().Strs("entrypoints", entryPoints).Msg("Building assets")
		if err := p.bundle(cfg, entryPoints); err != nil {
			return err
		}
	}

	for _, doc := range docs {
		if err := p.writeDocument(doc); err != nil {
			return err
		}
		log.Info().Str("entry", doc.entry).Str("file", doc.outPath).Msg("Built page")
	}

	return nil
}

func (p *Pipeline) bundle(cfg *pages.Config, entryPoints []string) error {
	result := api.Build(api.BuildOptions{
		EntryPoints:       entryPoints,
		AbsWorkingDir:     cfg.Root,
		Bundle:            true,
		Splitting:         true,
		Write:             true,
		JSX:               api.JSXAutomatic,
		Outdir:            filepath.Join(cfg.OutDir, p.config.AssetsDir),
		Outbase:           cfg.Root,
		EntryNames:        "[dir]/[name]-[hash]",
		ChunkNames:        "chunks/[name]-[hash]",
		Format:            api.FormatESModule,
		MinifyWhitespace:  p.config.Minify,
		MinifyIdentifiers: p.config.Minify,
		MinifySyntax:      p.config.Minify,
		TreeShaking:       api.TreeShakingTrue,
		Sourcemap:         cond(p.config.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		Metafile:          true,
	})

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			log.Error().Str("error", msg.Text).Msg("Build error")
		}
		return ErrBuildFailed
	}

	for _, file := range result.OutputFiles {
		log.Debug().Str("file", file.Path).Msg("Built file")
	}

	if p.config.MetafilePath != "" {
		metafilePath := filepath.Join(cfg.OutDir, p.config.MetafilePath)
		if err := os.MkdirAll(filepath.Dir(metafilePath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(metafilePath, []byte(result.Metafile), 0600); err != nil {
			return err
		}
	}

	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return err
	}

	p.metadata = &metadata
	return nil
}

// LoadScripts returns the output file built for the given source script,
// followed by the chunks it statically imports, and the CSS bundle if any.
// All paths are absolute.
func (p *Pipeline) LoadScripts(entryPointPath string) ([]string, string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.loadScripts(entryPointPath)
}

func (p *Pipeline) loadScripts(entryPointPath string) ([]string, string, error) {
	if p.metadata == nil {
		return nil, "", errors.New("assets not built yet, call Build() first")
	}

	scripts := []string{}
	visited := make(map[string]bool)

	for outputPath, info := range p.metadata.Outputs {
		if filepath.Ext(outputPath) != ".js" || info.EntryPoint == "" || p.abs(info.EntryPoint) != filepath.Clean(entryPointPath) {
			continue
		}

		scripts = append(scripts, p.abs(outputPath))
		visited[outputPath] = true
		p.addDependencies(info, &scripts, visited)

		var css string
		if info.CSSBundle != "" {
			css = p.abs(info.CSSBundle)
		}
		return scripts, css, nil
	}

	return nil, "", fmt.Errorf("entrypoint %s not found in metadata", entryPointPath)
}

func (p *Pipeline) addDependencies(output OutputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if imp.Kind != "import-statement" || visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true
		*scripts = append(*scripts, p.abs(imp.Path))

		if chunkInfo, exists := p.metadata.Outputs[imp.Path]; exists {
			p.addDependencies(chunkInfo, scripts, visited)
		}
	}
}

// abs resolves a metafile path, which esbuild reports relative to the root
func (p *Pipeline) abs(metaPath string) string {
	return filepath.Join(p.root, filepath.FromSlash(metaPath))
}

func (p *Pipeline) writeDocument(doc *document) error {
	out := []byte(doc.text)

	if len(doc.scripts) > 0 {
		if err := p.rewriteScripts(doc); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := html.Render(&buf, doc.node); err != nil {
			return fmt.Errorf("failed to render entry %q: %w", doc.entry, err)
		}
		out = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(doc.outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(doc.outPath, out, 0o644) //nolint:gosec
}

func (p *Pipeline) rewriteScripts(doc *document) error {
	dir := filepath.Dir(doc.outPath)
	head := findElement(doc.node, atom.Head)
	linked := make(map[string]bool)

	for _, ref := range doc.scripts {
		scripts, css, err := p.loadScripts(ref.path)
		if err != nil {
			return fmt.Errorf("entry %q: %w", doc.entry, err)
		}

		src, err := relativeURL(dir, scripts[0])
		if err != nil {
			return err
		}
		setAttr(ref.node, "src", src)

		if head == nil {
			continue
		}
		for _, chunk := range scripts[1:] {
			if linked[chunk] {
				continue
			}
			linked[chunk] = true
			href, err := relativeURL(dir, chunk)
			if err != nil {
				return err
			}
			head.AppendChild(linkNode("modulepreload", href))
		}
		if css != "" && !linked[css] {
			linked[css] = true
			href, err := relativeURL(dir, css)
			if err != nil {
				return err
			}
			head.AppendChild(linkNode("stylesheet", href))
		}
	}

	return nil
}

func loadDocument(cfg *pages.Config, name string) (*document, error) {
	srcPath := cfg.Input[name]

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %q: %w", name, err)
	}

	text := string(raw)
	for _, plugin := range cfg.Plugins {
		text, err = plugin.TransformIndexHTML(text, pages.HookContext{Entry: name, Path: srcPath})
		if err != nil {
			return nil, fmt.Errorf("plugin %s failed on entry %q: %w", plugin.Name(), name, err)
		}
	}

	rel, err := filepath.Rel(cfg.Root, srcPath)
	if err != nil {
		return nil, err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("entry %q is outside root %s", name, cfg.Root)
	}

	node, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry %q: %w", name, err)
	}

	doc := &document{
		entry:   name,
		outPath: filepath.Join(cfg.OutDir, rel),
		text:    text,
		node:    node,
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && getAttr(n, "type") == "module" {
			if src := getAttr(n, "src"); isLocal(src) {
				doc.scripts = append(doc.scripts, scriptRef{node: n, path: resolveScript(cfg.Root, srcPath, src)})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return doc, nil
}

// entryNames orders the input table with the main entry first
func entryNames(input map[string]string) []string {
	names := make([]string, 0, len(input))
	for name := range input {
		if name != pages.MainEntry {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if _, ok := input[pages.MainEntry]; ok {
		names = append([]string{pages.MainEntry}, names...)
	}
	return names
}

// resolveScript maps a script src to a file: root-relative when it starts
// with a slash, otherwise relative to the HTML file.
func resolveScript(root, htmlPath, src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	if strings.HasPrefix(src, "/") {
		return filepath.Join(root, filepath.FromSlash(src))
	}
	return filepath.Join(filepath.Dir(htmlPath), filepath.FromSlash(src))
}

func isLocal(src string) bool {
	if src == "" || strings.HasPrefix(src, "//") || strings.HasPrefix(src, "data:") {
		return false
	}
	return !strings.Contains(src, "://")
}

func relativeURL(fromDir, target string) (string, error) {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func linkNode(rel, href string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "link",
		DataAtom: atom.Link,
		Attr: []html.Attribute{
			{Key: "rel", Val: rel},
			{Key: "href", Val: href},
		},
	}
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
