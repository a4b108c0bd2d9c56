package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aluiziolira/go-scrape-products/models"
)

// ShortTitleLength is the rune budget for Title.Short before the ellipsis.
const ShortTitleLength = 50

var (
	whitespacePattern = regexp.MustCompile(`\s+`)

	// A K/M multiplier only counts when attached and not the start of a word.
	countPattern  = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)(?:([kKmM])(?:[^A-Za-z]|$))?`)
	ratingPattern = regexp.MustCompile(`(\d+\.?\d*)`)
	ratingScale   = regexp.MustCompile(`(?i)out of\s+(\d+(?:\.\d+)?)`)
)

// ValidateProduct ensures an assembled record can be persisted.
func ValidateProduct(p *models.ProductRecord) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if strings.TrimSpace(p.Identifier) == "" {
		return fmt.Errorf("product missing identifier")
	}
	return nil
}

// NormalizeText collapses runs of whitespace and trims the result.
func NormalizeText(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// ShortTitle cuts a title to ShortTitleLength runes and marks the cut.
func ShortTitle(title string) string {
	if utf8.RuneCountInString(title) <= ShortTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:ShortTitleLength]) + "..."
}

// ParseCount reads the first integer in text, dropping thousands
// separators. "1,987 ratings" yields 1987 and "2.3K" yields 2300.
func ParseCount(text string) int {
	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(m[2]) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}
	return int(value)
}

// ParseRating extracts a star value and its scale from labels such as
// "4.5 out of 5 stars". The scale defaults to 5.
func ParseRating(text string) (value, scale float64, ok bool) {
	m := ratingPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	scale = 5
	if s := ratingScale.FindStringSubmatch(text); s != nil {
		if parsed, err := strconv.ParseFloat(s[1], 64); err == nil && parsed > 0 {
			scale = parsed
		}
	}
	return value, scale, true
}
