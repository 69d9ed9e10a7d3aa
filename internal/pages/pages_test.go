package pages

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/home/index.html":  {Data: []byte("<p>home</p>")},
		"pages/about/index.html": {Data: []byte("<p>about</p>")},
		"index.html":             {Data: []byte("<ul></ul>")},
	}

	names, err := List(fsys, "pages")
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "home"}, names)
}

func TestList_IncludesStrayFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/home/index.html": {Data: []byte("<p>home</p>")},
		"pages/README.md":       {Data: []byte("notes")},
	}

	names, err := List(fsys, "pages")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "home"}, names)
}

func TestList_MissingDirectory(t *testing.T) {
	_, err := List(fstest.MapFS{}, "pages")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "pages")
}

func TestInputs(t *testing.T) {
	root := filepath.FromSlash("/site/src")

	tests := []struct {
		name  string
		names []string
		want  map[string]string
	}{
		{
			name:  "no pages",
			names: nil,
			want: map[string]string{
				"main": filepath.Join(root, "index.html"),
			},
		},
		{
			name:  "three pages",
			names: []string{"a", "b", "c"},
			want: map[string]string{
				"main": filepath.Join(root, "index.html"),
				"a":    filepath.Join(root, "pages", "a", "index.html"),
				"b":    filepath.Join(root, "pages", "b", "index.html"),
				"c":    filepath.Join(root, "pages", "c", "index.html"),
			},
		},
		{
			name:  "page named main replaces the main entry",
			names: []string{"main"},
			want: map[string]string{
				"main": filepath.Join(root, "pages", "main", "index.html"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Inputs(root, tt.names))
		})
	}
}

func TestNavFragment(t *testing.T) {
	assert.Equal(t, "", NavFragment(nil))
	assert.Equal(t,
		`<li><a href="./pages/home/index.html">home</a></li><li><a href="./pages/about/index.html">about</a></li>`,
		NavFragment([]string{"home", "about"}),
	)
}

func TestNavFragment_NoEscaping(t *testing.T) {
	assert.Equal(t,
		`<li><a href="./pages/a&b/index.html">a&b</a></li>`,
		NavFragment([]string{"a&b"}),
	)
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "src")
	for _, name := range []string{"home", "about"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "pages", name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "pages", name, "index.html"), []byte(name), 0o600))
	}

	cfg, err := Configure(Layout{Root: root, OutDir: filepath.Join(dir, "dist")})
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.OutDir)
	assert.Equal(t, map[string]string{
		"main":  filepath.Join(root, "index.html"),
		"home":  filepath.Join(root, "pages", "home", "index.html"),
		"about": filepath.Join(root, "pages", "about", "index.html"),
	}, cfg.Input)
	assert.Equal(t, []string{"html-transform"}, cfg.PluginNames())

	out, err := cfg.Plugins[0].TransformIndexHTML(`<ul id="pageIndex"></ul>`, HookContext{Entry: MainEntry})
	require.NoError(t, err)
	assert.Equal(t,
		`<ul id="pageIndex"><li><a href="./pages/about/index.html">about</a></li><li><a href="./pages/home/index.html">home</a></li></ul>`,
		out,
	)
}

func TestConfigure_MissingPagesDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Configure(Layout{Root: dir, OutDir: filepath.Join(dir, "dist")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
