package extract

import (
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/parser"
)

func extractTitle(l *listing) models.Title {
	t := models.EmptyTitle()
	t.Full = l.title()
	t.Short = parser.ShortTitle(t.Full)
	t.AriaLabel = l.p.AriaLabel.First(l.c)
	return t
}

// extractBrand prefers an explicit brand tag and falls back to the first
// word of the title, which is where most listings put the brand.
func extractBrand(l *listing) models.Brand {
	b := models.EmptyBrand()
	b.Name = parser.NormalizeText(l.p.Brand.First(l.c))
	if b.Name == "" {
		if words := strings.Fields(l.title()); len(words) > 0 {
			b.Name = words[0]
		}
	}
	if l.p.StoreBrandMarker != nil && l.p.StoreBrandMarker.MatchString(l.text) {
		b.IsStoreBrand = true
	}
	if l.p.StoreBrands != nil && b.Name != "" && l.p.StoreBrands.MatchString(b.Name) {
		b.IsStoreBrand = true
	}
	b.IsSponsored = l.sponsorLabel() != ""
	return b
}

func extractLinks(l *listing) models.Links {
	links := models.EmptyLinks()
	links.ProductPage = l.resolve(l.p.ProductLink.First(l.c))
	links.Reviews = l.resolve(l.p.ReviewsLink.First(l.c))
	links.Seller = l.resolve(l.p.SellerLink.First(l.c))
	return links
}

func extractCategories(l *listing) models.Categories {
	c := models.EmptyCategories()
	c.Primary = l.p.CategoryBadge.First(l.c)
	c.Department = l.p.Department.First(l.c)
	c.Subcategories = append(c.Subcategories, texts(l.c.FindAll(l.p.SubcategorySelector))...)

	title := l.title()
	for _, ct := range categoryTags {
		if ct.pattern.MatchString(title) {
			c.Tags = append(c.Tags, ct.tag)
		}
	}
	return c
}

// extractMetadata derives listing-level facts. It reads the already
// assembled variants and shipping so it never re-runs those extractors.
func extractMetadata(l *listing, rec *models.ProductRecord) models.Metadata {
	m := models.EmptyMetadata()
	m.PositionInResults = l.position
	m.WidgetID = l.p.WidgetID.First(l.c)
	v := rec.Variants
	m.HasVariants = len(v.Colors)+len(v.Sizes)+len(v.Patterns) > 0 || v.OtherOptionsCount > 0
	m.AvailableShippingOptions = append(m.AvailableShippingOptions, rec.Shipping.Options...)
	m.Page = l.page
	m.Source = l.p.Name
	return m
}

func extractDimensions(l *listing) models.Dimensions {
	for _, f := range l.p.DimensionText {
		raw := f.From(l.c)
		if raw == "" {
			continue
		}
		if dims := parser.FindDimensions(dimensionMarkupTags.ReplaceAllString(raw, " ")); len(dims) > 0 {
			return dims
		}
	}
	return models.Dimensions{}
}
