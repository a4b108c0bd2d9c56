package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/aluiziolira/go-scrape-products/container"
)

// ErrNoProfile means no profile recognized the page layout.
var ErrNoProfile = errors.New("no profile matches page")

// Locate finds the product containers of a search results page, in
// document order, and the profile that reads them. JSON payloads are
// matched against the JSON profiles' container paths; anything else is
// parsed as HTML.
//
// A page with no containers is not an error: it returns an empty slice
// with the profile that would have read it.
func Locate(page []byte) ([]container.Container, *Profile, error) {
	if container.LooksLikeJSON(page) {
		return locateJSON(page)
	}
	return locateHTML(page)
}

var byteOrderMark = []byte("\ufeff")

func locateJSON(page []byte) ([]container.Container, *Profile, error) {
	root, err := container.ParseJSON(bytes.NewReader(bytes.TrimPrefix(page, byteOrderMark)))
	if err != nil {
		return nil, nil, LocateError{Err: err}
	}
	var fallback *Profile
	for _, p := range Profiles {
		if p.Kind != container.KindJSON {
			continue
		}
		if fallback == nil {
			fallback = p
		}
		for _, path := range p.ContainerPaths {
			if items := root.FindAll(path); len(items) > 0 {
				return items, p, nil
			}
		}
	}
	if fallback == nil {
		return nil, nil, LocateError{Err: ErrNoProfile}
	}
	return []container.Container{}, fallback, nil
}

func locateHTML(page []byte) ([]container.Container, *Profile, error) {
	doc, err := container.ParseHTML(bytes.NewReader(page))
	if err != nil {
		return nil, nil, LocateError{Err: fmt.Errorf("parse html: %w", err)}
	}
	var fallback *Profile
	for _, p := range Profiles {
		if p.Kind != container.KindHTML {
			continue
		}
		if fallback == nil {
			fallback = p
		}
		var out []container.Container
		for _, c := range doc.FindAll(p.ContainerSelector) {
			if isListItem(c, p) {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return out, p, nil
		}
	}
	if fallback == nil {
		return nil, nil, LocateError{Err: ErrNoProfile}
	}
	return []container.Container{}, fallback, nil
}

// isListItem accepts containers marked role=listitem, or unmarked ones
// carrying an identifier. Other roles are layout wrappers.
func isListItem(c container.Container, p *Profile) bool {
	switch role := p.ContainerMarker.From(c); role {
	case "listitem":
		return true
	case "":
		return p.Identifier.First(c) != ""
	default:
		return false
	}
}
