package extract

import (
	"regexp"

	"github.com/aluiziolira/go-scrape-products/container"
)

// Field addresses one value inside a container: the text at Path, or
// attribute Attr of the first node at Path when Attr is set.
type Field struct {
	Path string
	Attr string
}

func text(path string) Field       { return Field{Path: path} }
func attr(path, name string) Field { return Field{Path: path, Attr: name} }

// From reads the field. The zero Field is unset and always reads empty.
func (f Field) From(c container.Container) string {
	switch {
	case f.Path == "" && f.Attr == "":
		return ""
	case f.Attr != "":
		return c.Attr(f.Path, f.Attr)
	default:
		return c.Text(f.Path)
	}
}

// Fields are alternatives tried in order.
type Fields []Field

// First returns the first non-empty alternative.
func (fs Fields) First(c container.Container) string {
	for _, f := range fs {
		if v := f.From(c); v != "" {
			return v
		}
	}
	return ""
}

// ProgramMarker flags a shipping program by element presence or phrase.
// Pattern runs over the nodes matching Scope, or the whole listing when
// Scope is empty.
type ProgramMarker struct {
	Program  string
	Selector string
	Pattern  *regexp.Regexp
	Scope    string
}

// Profile describes where a site keeps each value. Extractors only ever
// read through a Profile, so one set of extractors serves every site.
type Profile struct {
	Name    string
	Kind    container.Kind
	BaseURL string

	// Container location.
	ContainerSelector string
	ContainerMarker   Field
	ContainerPaths    []string

	Identifier Fields
	Position   Fields
	WidgetID   Fields

	Title     Fields
	AriaLabel Fields

	Brand            Fields
	StoreBrandMarker *regexp.Regexp
	StoreBrands      *regexp.Regexp

	CurrentPrice       Fields
	PriceRangeSelector string
	OriginalPrice      Fields
	ListPrice          Fields
	Coupon             Fields

	Image           Fields
	ImageAlt        Fields
	ImageSrcset     Fields
	ImageWidth      Fields
	ImageHeight     Fields
	AlternateImages string

	Rating            Fields
	RatingCount       Fields
	BreakdownSelector string
	BreakdownLabel    Field
	BreakdownCount    Field

	ProductLink Fields
	ReviewsLink Fields
	SellerLink  Fields

	DeliveryEmphasis string
	DeliveryPrimary  Fields
	DeliveryFastest  Fields
	Programs         []ProgramMarker

	SwatchSelector  string
	SwatchKind      Field
	SwatchName      Field
	SwatchURL       Field
	SwatchImage     Field
	SwatchSelected  Field
	SizeSelector    string
	PatternSelector string

	CategoryBadge       Fields
	Department          Fields
	SubcategorySelector string

	SponsoredLabelSelector string
	SponsoredFlag          Fields
	AdPayload              Fields

	DimensionText Fields
}

// AmazonSearch reads Amazon-style search result HTML.
var AmazonSearch = &Profile{
	Name:              "amazon",
	Kind:              container.KindHTML,
	BaseURL:           "https://www.amazon.com",
	ContainerSelector: `div[data-component-type="s-search-result"]`,
	ContainerMarker:   attr("", "role"),

	Identifier: Fields{attr("", "data-asin")},
	Position:   Fields{attr("", "data-index")},
	WidgetID:   Fields{attr("[cel_widget_id]", "cel_widget_id")},

	Title:     Fields{text(`h2[class*="a-size-"] span`), text("h2 span"), text(`a[class*="s-link-style"]`)},
	AriaLabel: Fields{attr(`h2[class*="a-size-"]`, "aria-label"), attr("h2", "aria-label")},

	Brand:            Fields{text(`[data-cy="brand-name"]`), text("span.s-brand-name")},
	StoreBrandMarker: regexp.MustCompile(`Featured from Amazon brands`),
	StoreBrands:      regexp.MustCompile(`(?i)^(?:amazon ?basics|amazon essentials|amazon aware|rivet|stone & beam|solimo|pinzon)$`),

	CurrentPrice:       Fields{text(`span.a-price:not([data-a-strike]) span.a-offscreen`)},
	PriceRangeSelector: `span.a-price-range span.a-price span.a-offscreen`,
	OriginalPrice:      Fields{text(`span.a-price[data-a-strike="true"] span.a-offscreen`)},
	Coupon:             Fields{text(`span[class*="s-coupon"]`)},

	Image:       Fields{attr("img.s-image", "src")},
	ImageAlt:    Fields{attr("img.s-image", "alt")},
	ImageSrcset: Fields{attr("img.s-image", "srcset")},
	ImageWidth:  Fields{attr("img.s-image", "width")},
	ImageHeight: Fields{attr("img.s-image", "height")},

	Rating:      Fields{text(`i[class*="a-icon-star"] span.a-icon-alt`), attr(`span[aria-label*="out of 5 stars"]`, "aria-label")},
	RatingCount: Fields{attr(`a[aria-label$="ratings"]`, "aria-label"), attr(`a[aria-label$=" rating"]`, "aria-label"), text("span.s-underline-text")},

	ProductLink: Fields{attr(`a[class*="s-link-style"]`, "href"), attr("h2 a", "href")},
	ReviewsLink: Fields{attr(`a[href*="#customerReviews"]`, "href")},
	SellerLink:  Fields{attr(`a[href*="/stores/"]`, "href")},

	DeliveryEmphasis: `[data-cy="delivery-recipe"] span.a-text-bold`,
	Programs: []ProgramMarker{
		{Program: "prime", Selector: "i.a-icon-prime"},
		{Program: "prime", Pattern: regexp.MustCompile(`(?i)\bprime\b`), Scope: `[data-cy="delivery-recipe"]`},
	},

	SwatchSelector: `div[class*="s-color-swatch"] a[aria-label]`,
	SwatchName:     attr("", "aria-label"),
	SwatchURL:      attr("", "href"),
	SwatchImage:    attr("img", "src"),
	SwatchSelected: attr("", "aria-current"),
	SizeSelector:   `div[class*="s-size-swatch"] a`,

	CategoryBadge: Fields{text(`span[class*="s-background-color"]`)},

	SponsoredLabelSelector: "span",
	AdPayload:              Fields{attr(`div[data-component-type="s-impression-logger"]`, "data-component-props")},

	DimensionText: Fields{text(`h2[class*="a-size-"] span`), text("h2 span")},
}

// TargetSearch reads Target-style search API JSON.
var TargetSearch = &Profile{
	Name:           "target",
	Kind:           container.KindJSON,
	BaseURL:        "https://www.target.com",
	ContainerPaths: []string{"data.search.products", "data.product_summaries"},

	Identifier: Fields{text("tcin")},
	Position:   Fields{text("position")},

	Title: Fields{text("item.product_description.title")},

	Brand:       Fields{text("item.primary_brand.name"), text("item.product_brand.brand")},
	StoreBrands: regexp.MustCompile(`(?i)^(?:threshold|room essentials|project 62|opalhouse|studio mcgee|hearth & hand|made by design|brightroom|up ?& ?up|good ?& ?gather|wondershop|pillowfort)\b`),

	CurrentPrice:  Fields{text("price.formatted_current_price"), text("price.current_retail")},
	OriginalPrice: Fields{text("price.formatted_comparison_price"), text("price.reg_retail")},
	ListPrice:     Fields{text("price.reg_retail")},
	Coupon:        Fields{text("promotions.0.plp_message"), text("promotions.0.pdp_message")},

	Image:           Fields{text("item.enrichment.images.primary_image_url"), text("item.enrichment.image_info.primary_image.url")},
	ImageAlt:        Fields{text("item.product_description.title")},
	AlternateImages: "item.enrichment.images.alternate_image_urls",

	Rating:            Fields{text("ratings_and_reviews.statistics.rating.average")},
	RatingCount:       Fields{text("ratings_and_reviews.statistics.rating.count")},
	BreakdownSelector: "ratings_and_reviews.statistics.rating.distribution",
	BreakdownLabel:    text("rating"),
	BreakdownCount:    text("count"),

	ProductLink: Fields{text("item.enrichment.buy_url")},

	DeliveryPrimary: Fields{text("fulfillment.shipping_options.services.0.min_delivery_date")},
	DeliveryFastest: Fields{text("fulfillment.scheduled_delivery.min_delivery_date")},
	Programs: []ProgramMarker{
		{Program: "express", Pattern: regexp.MustCompile(`(?i)same day delivery|\bshipt\b|\bexpress\b`)},
		{Program: "circle", Pattern: regexp.MustCompile(`(?i)target circle|circle card`)},
	},

	SwatchSelector: "variation_hierarchy",
	SwatchKind:     text("name"),
	SwatchName:     text("value"),
	SwatchURL:      text("buy_url"),
	SwatchImage:    text("swatch_image_url"),

	CategoryBadge:       Fields{text("item.product_classification.item_type.name")},
	Department:          Fields{text("item.product_classification.product_type_name")},
	SubcategorySelector: "item.product_classification.merchandise_type_name",

	SponsoredFlag: Fields{text("is_sponsored_sku")},

	DimensionText: Fields{text("item.product_description.bullet_descriptions")},
}

// Profiles lists the built-in profiles in detection order.
var Profiles = []*Profile{AmazonSearch, TargetSearch}
