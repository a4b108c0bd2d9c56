package extract

import "regexp"

const pricePattern = `[$€£¥₹₩]\s?\d[\d,]*(?:\.\d+)?`

var (
	sponsoredPattern      = regexp.MustCompile(`^(?:Sponsored|Featured from (?:Amazon|our) brands)\b`)
	listPricePattern      = regexp.MustCompile(`(?i)(?:list(?: price)?|typical(?: price)?|reg\.?)\s*:?\s*(` + pricePattern + `)`)
	memberPricePattern    = regexp.MustCompile(`(?i)(` + pricePattern + `)\s+(?:with|for)\s+(?:prime|target circle|circle)\b`)
	freeShippingPattern   = regexp.MustCompile(`(?i)\bfree (?:delivery|shipping)\b`)
	fastestPattern        = regexp.MustCompile(`(?i)\b(?:or )?fastest delivery\b`)
	shippingCostPattern   = regexp.MustCompile(`(?i)(` + pricePattern + `)\s+(?:delivery|shipping)\b`)
	recentActivityPattern = regexp.MustCompile(`(?i)(\d[\d,.]*\s*[kK]?)\+?\s+bought in (?:the )?past\s+(?:(\d+)\s+)?(day|week|month)s?`)
	otherOptionsPattern   = regexp.MustCompile(`(?i)\+\s?(\d+)\s+(?:other\s+)?(?:colou?rs?|sizes?|options?|patterns?|styles?|more)\b`)
	storeChoicePattern    = regexp.MustCompile(`(?i)\b(?:amazon'?s|target'?s|overall)\s+(?:choice|pick)\b`)
	bestSellerPattern     = regexp.MustCompile(`(?i)(?:#1\s+)?\bbest\s?sellers?\b`)
	sustainabilityPattern = regexp.MustCompile(`(?i)climate pledge|\bsustainab|compact by design|\beco-friendly\b`)
	dimensionMarkupTags   = regexp.MustCompile(`<[^>]*>`)
)

// qualityBadges are reported in this order when found.
var qualityBadges = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"Top Reviewed", regexp.MustCompile(`(?i)\btop reviewed\b`)},
	{"Highly rated", regexp.MustCompile(`(?i)\bhighly rated\b`)},
	{"Premium quality", regexp.MustCompile(`(?i)\bpremium quality\b`)},
	{"Small Business", regexp.MustCompile(`(?i)\bsmall business\b`)},
}

// shippingOptions are the delivery option labels recognized in listing text.
var shippingOptions = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"FREE delivery", freeShippingPattern},
	{"Fastest delivery", fastestPattern},
	{"Same Day Delivery", regexp.MustCompile(`(?i)\bsame day delivery\b`)},
	{"Order Pickup", regexp.MustCompile(`(?i)\border pickup\b|\bpick up\b`)},
	{"Drive Up", regexp.MustCompile(`(?i)\bdrive up\b`)},
}

// categoryTags are matched as whole words (with plural) against titles.
var categoryTags = []struct {
	tag     string
	pattern *regexp.Regexp
}{
	{"chair", regexp.MustCompile(`(?i)\bchairs?\b`)},
	{"sofa", regexp.MustCompile(`(?i)\bsofas?\b`)},
	{"table", regexp.MustCompile(`(?i)\btables?\b`)},
	{"bed", regexp.MustCompile(`(?i)\bbeds?\b`)},
	{"desk", regexp.MustCompile(`(?i)\bdesks?\b`)},
	{"cabinet", regexp.MustCompile(`(?i)\bcabinets?\b`)},
	{"shelf", regexp.MustCompile(`(?i)\bshel(?:f|ves)\b`)},
	{"ottoman", regexp.MustCompile(`(?i)\bottomans?\b`)},
	{"bench", regexp.MustCompile(`(?i)\bbench(?:es)?\b`)},
	{"recliner", regexp.MustCompile(`(?i)\brecliners?\b`)},
	{"stool", regexp.MustCompile(`(?i)\bstools?\b`)},
	{"dresser", regexp.MustCompile(`(?i)\bdressers?\b`)},
	{"lamp", regexp.MustCompile(`(?i)\blamps?\b`)},
	{"rug", regexp.MustCompile(`(?i)\brugs?\b`)},
}
