package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
)

var (
	priceTokenPattern  = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)
	priceRangePattern  = regexp.MustCompile(`^\s*([^\d]*\d[\d,]*(?:\.\d+)?)\s*(?:-|–|—|\bto\b)\s*([^\d]*\d[\d,]*(?:\.\d+)?)\s*$`)
	couponValuePattern = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*(%)?`)
)

var currencySymbols = map[rune]string{
	'$': "USD",
	'€': "EUR",
	'£': "GBP",
	'¥': "JPY",
	'₹': "INR",
	'₩': "KRW",
}

// ParsePrice converts one scalar price string into a PriceInfo. It never
// fails: unparsable input keeps its raw text with a zero amount.
func ParsePrice(raw string) models.PriceInfo {
	info := models.PriceInfo{RawText: raw, Currency: DetectCurrency(raw)}

	token := priceTokenPattern.FindString(raw)
	if token == "" {
		return info
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil || amount < 0 {
		return info
	}
	info.Amount = amount
	return info
}

// DetectCurrency maps the first currency symbol in text to its ISO code.
func DetectCurrency(text string) string {
	for _, r := range text {
		if code, ok := currencySymbols[r]; ok {
			return code
		}
	}
	return models.DefaultCurrency
}

// SplitPriceRange splits "$A - $B" into its two sides so each can be
// passed to ParsePrice.
func SplitPriceRange(raw string) (low, high string, ok bool) {
	m := priceRangePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// ParseCouponAmount reads the saving out of coupon copy such as
// "Save $5.00 with coupon" or "Save 20%".
func ParseCouponAmount(text string) (amount float64, isPercent bool) {
	m := couponValuePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, m[2] == "%"
}
