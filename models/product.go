// Package models defines data structures for the scraper.
package models

// ProductRecord is the normalized record for one search-result listing.
// Every field is always populated; failed extraction leaves the zero-value
// default produced by the matching Empty constructor.
type ProductRecord struct {
	Identifier  string      `json:"identifier"`
	Title       Title       `json:"title"`
	Brand       Brand       `json:"brand"`
	Pricing     Pricing     `json:"pricing"`
	Images      Images      `json:"images"`
	Reviews     Reviews     `json:"reviews"`
	Links       Links       `json:"links"`
	Shipping    Shipping    `json:"shipping"`
	Variants    Variants    `json:"variants"`
	Categories  Categories  `json:"categories"`
	Advertising Advertising `json:"advertising"`
	Badges      Badges      `json:"badges"`
	Metadata    Metadata    `json:"metadata"`
	Dimensions  Dimensions  `json:"dimensions"`
}

// NewProductRecord returns a record with every sub-record defaulted.
func NewProductRecord(identifier string) *ProductRecord {
	return &ProductRecord{
		Identifier:  identifier,
		Title:       EmptyTitle(),
		Brand:       EmptyBrand(),
		Pricing:     EmptyPricing(),
		Images:      EmptyImages(),
		Reviews:     EmptyReviews(),
		Links:       EmptyLinks(),
		Shipping:    EmptyShipping(),
		Variants:    EmptyVariants(),
		Categories:  EmptyCategories(),
		Advertising: EmptyAdvertising(),
		Badges:      EmptyBadges(),
		Metadata:    EmptyMetadata(),
		Dimensions:  Dimensions{},
	}
}

type Title struct {
	Full      string `json:"full"`
	Short     string `json:"short"`
	AriaLabel string `json:"ariaLabel"`
}

func EmptyTitle() Title { return Title{} }

type Brand struct {
	Name         string `json:"name"`
	IsStoreBrand bool   `json:"isStoreBrand"`
	IsSponsored  bool   `json:"isSponsored"`
}

func EmptyBrand() Brand { return Brand{} }

// PriceInfo is one parsed scalar price.
type PriceInfo struct {
	RawText  string  `json:"rawText"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DefaultCurrency is reported when a price carries no recognizable symbol.
const DefaultCurrency = "USD"

func EmptyPrice() PriceInfo { return PriceInfo{Currency: DefaultCurrency} }

type Coupon struct {
	Available bool    `json:"available"`
	Text      string  `json:"text"`
	Amount    float64 `json:"amount"`
	IsPercent bool    `json:"isPercent"`
}

type Pricing struct {
	CurrentPrice        PriceInfo `json:"currentPrice"`
	OriginalPrice       PriceInfo `json:"originalPrice"`
	ListPrice           PriceInfo `json:"listPrice"`
	Discount            float64   `json:"discount"`
	Currency            string    `json:"currency"`
	Coupon              Coupon    `json:"coupon"`
	PrimeOrExpressPrice PriceInfo `json:"primeOrExpressPrice"`
	// MaxPrice holds the upper bound when the displayed price is a range.
	MaxPrice PriceInfo `json:"maxPrice"`
}

func EmptyPricing() Pricing {
	return Pricing{
		CurrentPrice:        EmptyPrice(),
		OriginalPrice:       EmptyPrice(),
		ListPrice:           EmptyPrice(),
		Currency:            DefaultCurrency,
		PrimeOrExpressPrice: EmptyPrice(),
		MaxPrice:            EmptyPrice(),
	}
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Srcset  string `json:"srcset"`
}

type Thumbnail struct {
	URL     string `json:"url"`
	Density string `json:"density"`
}

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Images struct {
	Primary    Image           `json:"primary"`
	Thumbnails []Thumbnail     `json:"thumbnails"`
	Dimensions ImageDimensions `json:"dimensions"`
}

func EmptyImages() Images {
	return Images{Thumbnails: []Thumbnail{}}
}

type Rating struct {
	Value float64 `json:"value"`
	Scale float64 `json:"scale"`
	Text  string  `json:"text"`
}

// RecentActivity captures "N+ bought in past month" style social proof.
type RecentActivity struct {
	Detected  bool   `json:"detected"`
	Text      string `json:"text"`
	Quantity  int    `json:"quantity"`
	Timeframe string `json:"timeframe"`
}

type Reviews struct {
	Rating          Rating         `json:"rating"`
	Count           int            `json:"count"`
	RatingBreakdown map[string]int `json:"ratingBreakdown"`
	RecentActivity  RecentActivity `json:"recentActivity"`
}

func EmptyReviews() Reviews {
	return Reviews{RatingBreakdown: map[string]int{}}
}

type Links struct {
	ProductPage string `json:"productPage"`
	Reviews     string `json:"reviews"`
	Seller      string `json:"seller"`
}

func EmptyLinks() Links { return Links{} }

type DeliveryDate struct {
	Primary string `json:"primary"`
	Fastest string `json:"fastest"`
}

type Shipping struct {
	FreeShipping    bool         `json:"freeShipping"`
	EligibleProgram string       `json:"eligibleProgram"`
	DeliveryDate    DeliveryDate `json:"deliveryDate"`
	Cost            PriceInfo    `json:"cost"`
	Options         []string     `json:"options"`
}

func EmptyShipping() Shipping {
	return Shipping{Cost: EmptyPrice(), Options: []string{}}
}

type Swatch struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
	Selected bool   `json:"selected"`
}

type Variants struct {
	Colors            []Swatch `json:"colors"`
	Sizes             []string `json:"sizes"`
	Patterns          []string `json:"patterns"`
	OtherOptionsCount int      `json:"otherOptionsCount"`
}

func EmptyVariants() Variants {
	return Variants{Colors: []Swatch{}, Sizes: []string{}, Patterns: []string{}}
}

type Categories struct {
	Primary       string   `json:"primary"`
	Subcategories []string `json:"subcategories"`
	Tags          []string `json:"tags"`
	Department    string   `json:"department"`
}

func EmptyCategories() Categories {
	return Categories{Subcategories: []string{}, Tags: []string{}}
}

type SponsorInfo struct {
	TrackingURL string `json:"trackingUrl"`
	Decoded     bool   `json:"decoded"`
}

type Advertising struct {
	IsSponsored bool        `json:"isSponsored"`
	AdType      string      `json:"adType"`
	SponsorInfo SponsorInfo `json:"sponsorInfo"`
	AdPosition  string      `json:"adPosition"`
}

func EmptyAdvertising() Advertising { return Advertising{} }

type Badges struct {
	BestSeller     bool     `json:"bestSeller"`
	StoreChoice    bool     `json:"storeChoice"`
	Sustainability bool     `json:"sustainability"`
	QualityBadges  []string `json:"qualityBadges"`
}

func EmptyBadges() Badges {
	return Badges{QualityBadges: []string{}}
}

type Metadata struct {
	PositionInResults        int      `json:"positionInResults"`
	WidgetID                 string   `json:"widgetId"`
	HasVariants              bool     `json:"hasVariants"`
	AvailableShippingOptions []string `json:"availableShippingOptions"`
	Page                     int      `json:"page"`
	Source                   string   `json:"source"`
}

func EmptyMetadata() Metadata {
	return Metadata{AvailableShippingOptions: []string{}}
}

// Measurement is one axis of a parsed dimension string. Range axes set
// Low/High and leave Value zero.
type Measurement struct {
	Value   float64 `json:"value"`
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	IsRange bool    `json:"isRange"`
	Unit    string  `json:"unit"`
}

// Dimensions maps an axis label (L, W, H, ...) to its measurement.
type Dimensions map[string]Measurement
