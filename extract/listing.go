package extract

import (
	"net/url"
	"strings"

	"github.com/aluiziolira/go-scrape-products/container"
	"github.com/aluiziolira/go-scrape-products/parser"
)

// listing is the per-container state shared by the extractors. It is built
// once per assembly and never modified by an extractor.
type listing struct {
	c        container.Container
	p        *Profile
	text     string
	position int
	page     int
}

func newListing(c container.Container, p *Profile, position, page int) *listing {
	return &listing{
		c:        c,
		p:        p,
		text:     c.Text(""),
		position: position,
		page:     page,
	}
}

func (l *listing) title() string {
	return parser.NormalizeText(l.p.Title.First(l.c))
}

// sponsorLabel returns the sponsored label text, or "" for organic listings.
func (l *listing) sponsorLabel() string {
	for _, label := range l.c.FindAll(l.p.SponsoredLabelSelector) {
		t := label.Text("")
		if sponsoredPattern.MatchString(t) {
			return t
		}
	}
	if strings.EqualFold(l.p.SponsoredFlag.First(l.c), "true") {
		return "Sponsored"
	}
	return ""
}

// resolve makes site-relative links absolute against the profile base URL.
func (l *listing) resolve(ref string) string {
	if ref == "" || l.p.BaseURL == "" {
		return ref
	}
	base, err := url.Parse(l.p.BaseURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// scopedText is the text of the nodes matching selector, or the whole
// listing text when selector is empty.
func (l *listing) scopedText(selector string) string {
	if selector == "" {
		return l.text
	}
	return strings.Join(texts(l.c.FindAll(selector)), " ")
}

func texts(nodes []container.Container) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := n.Text(""); t != "" {
			out = append(out, t)
		}
	}
	return out
}
