package container

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var spaces = regexp.MustCompile(`\s+`)

// HTMLContainer wraps a goquery selection.
type HTMLContainer struct {
	sel *goquery.Selection
}

// NewHTML wraps an existing selection.
func NewHTML(sel *goquery.Selection) *HTMLContainer {
	return &HTMLContainer{sel: sel}
}

// ParseHTML reads a document and wraps its root.
func ParseHTML(r io.Reader) (*HTMLContainer, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewHTML(doc.Selection), nil
}

func (h *HTMLContainer) Kind() Kind { return KindHTML }

func (h *HTMLContainer) find(path string) *goquery.Selection {
	if path == "" {
		return h.sel
	}
	return h.sel.Find(path)
}

func (h *HTMLContainer) Text(path string) string {
	return nodeText(h.find(path).First())
}

func (h *HTMLContainer) Attr(path, name string) string {
	value, _ := h.find(path).First().Attr(name)
	return strings.TrimSpace(value)
}

func (h *HTMLContainer) FindAll(selector string) []Container {
	if selector == "" {
		return nil
	}
	var out []Container
	h.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, NewHTML(s))
	})
	return out
}

// Selection exposes the underlying goquery selection.
func (h *HTMLContainer) Selection() *goquery.Selection {
	return h.sel
}

// nodeText joins text nodes with spaces so adjacent inline elements do not
// run together the way Selection.Text does.
func nodeText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			switch goquery.NodeName(child) {
			case "#text":
				parts = append(parts, child.Text())
			case "script", "style", "#comment":
			default:
				walk(child)
			}
		})
	}
	walk(sel)
	return clean(strings.Join(parts, " "))
}

func clean(text string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(text, " "))
}
