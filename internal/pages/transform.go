package pages

import (
	"errors"
	"regexp"

	"github.com/rs/zerolog/log"
)

// PlaceholderID is the id of the empty list element that receives the
// navigation fragment.
const PlaceholderID = "pageIndex"

var placeholderPattern = regexp.MustCompile(`<ul id="` + PlaceholderID + `"></ul>`)

// ErrPlaceholderMissing is returned by a strict IndexTransform when the main
// template has no placeholder.
var ErrPlaceholderMissing = errors.New(`placeholder <ul id="` + PlaceholderID + `"></ul> not found`)

// HookContext identifies the HTML entry a transform is applied to.
type HookContext struct {
	// Entry is the input table key, e.g. "main".
	Entry string
	// Path is the entry's HTML file.
	Path string
}

// HTMLTransform rewrites an HTML entry before it is emitted. Returning the
// input unchanged is always valid.
type HTMLTransform interface {
	Name() string
	TransformIndexHTML(html string, hc HookContext) (string, error)
}

// TransformIndex replaces the first empty placeholder list in html with one
// populated by fragment. It reports whether a replacement happened; when it
// did not, html is returned unchanged.
func TransformIndex(html, fragment string) (string, bool) {
	loc := placeholderPattern.FindStringIndex(html)
	if loc == nil {
		return html, false
	}
	return html[:loc[0]] + `<ul id="` + PlaceholderID + `">` + fragment + `</ul>` + html[loc[1]:], true
}

// IndexTransform injects the navigation fragment into the placeholder list.
type IndexTransform struct {
	Fragment string
	// Strict fails the main entry when its placeholder is missing instead
	// of passing it through.
	Strict bool
}

var _ HTMLTransform = (*IndexTransform)(nil)

func (t *IndexTransform) Name() string {
	return "html-transform"
}

func (t *IndexTransform) TransformIndexHTML(html string, hc HookContext) (string, error) {
	out, ok := TransformIndex(html, t.Fragment)
	if ok || hc.Entry != MainEntry {
		return out, nil
	}

	if t.Strict {
		return "", ErrPlaceholderMissing
	}

	log.Warn().Str("path", hc.Path).Msg("Page index placeholder not found, template left unchanged")
	return out, nil
}
