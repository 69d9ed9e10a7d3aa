package pages

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// MainEntry is the input table key for the top-level template.
const MainEntry = "main"

// Entry is a single page discovered under the pages directory.
type Entry struct {
	Name      string
	EntryPath string
}

// List returns the names of the entries in dir, in the order fs.ReadDir
// returns them. Non-directory entries are not filtered out.
func List(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages directory %q: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			log.Warn().Str("name", entry.Name()).Str("dir", dir).Msg("Pages entry is not a directory")
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// Entries pairs each name with its derived index.html path under root.
func Entries(root string, names []string) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{
			Name:      name,
			EntryPath: filepath.Join(root, "pages", name, "index.html"),
		})
	}
	return entries
}

// Inputs builds the multi-entry input table: the main template plus one
// entry per page. A page named "main" replaces the main entry.
func Inputs(root string, names []string) map[string]string {
	input := map[string]string{
		MainEntry: filepath.Join(root, "index.html"),
	}
	for _, entry := range Entries(root, names) {
		input[entry.Name] = entry.EntryPath
	}
	return input
}

// NavFragment renders one list item per page, in the given order. Names are
// not escaped.
func NavFragment(names []string) string {
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(`<li><a href="./pages/`)
		sb.WriteString(name)
		sb.WriteString(`/index.html">`)
		sb.WriteString(name)
		sb.WriteString(`</a></li>`)
	}
	return sb.String()
}
