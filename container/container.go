// Package container abstracts one product listing node so extractors can
// be written once for both HTML search pages and JSON search APIs.
package container

// Kind identifies the shape behind a Container.
type Kind string

const (
	KindHTML Kind = "html"
	KindJSON Kind = "json"
)

// Container is a read-only view over one product listing.
//
// Paths are CSS selectors for HTML containers and dotted keys (with numeric
// array indices) for JSON containers. An empty path addresses the container
// itself. Lookups that match nothing return the empty string or a nil slice.
type Container interface {
	// Text returns the normalized text at path. For the container itself
	// it is the text of the whole node.
	Text(path string) string
	// Attr returns attribute name of the first node matching path.
	Attr(path, name string) string
	// FindAll returns every node matching selector, in document order.
	FindAll(selector string) []Container
	Kind() Kind
}
