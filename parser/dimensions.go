package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
)

const (
	unitAlternatives = `(?:inches|inch|in|feet|foot|ft|centimeters?|cm|millimeters?|mm|meters?|m)\b\.?|"|”|″|''|'|’`
	axisExpression   = `\d+(?:\.\d+)?\s*(?:` + unitAlternatives + `)?(?:\s*(?:-|–|—|to)\s*\d+(?:\.\d+)?\s*(?:` + unitAlternatives + `)?)?(?:\s*\(\s*[A-Za-z]+\s*\)|\s*[LWHDlwhd]\b)?`
)

var (
	dimensionLegendPattern = regexp.MustCompile(`\(\s*([A-Za-z]+(?:\s*[x×X]\s*[A-Za-z]+)+)\s*\)`)
	dimensionSplitPattern  = regexp.MustCompile(`\s*[x×X]\s*`)
	dimensionSpanPattern   = regexp.MustCompile(`(?i)` + axisExpression + `(?:\s*[x×]\s*` + axisExpression + `)+(?:\s*\(\s*[A-Za-z]+(?:\s*[x×]\s*[A-Za-z]+)+\s*\))?`)
	dimensionAxisPattern   = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(` + unitAlternatives + `)?\s*(?:(?:-|–|—|to)\s*(\d+(?:\.\d+)?)\s*(` + unitAlternatives + `)?)?\s*(?:\(\s*([A-Za-z]+)\s*\)|([LWHD]))?$`)
)

var defaultAxes = map[int][]string{
	1: {"value"},
	2: {"W", "H"},
	3: {"L", "W", "H"},
}

type axis struct {
	label   string
	low     float64
	high    float64
	isRange bool
	unit    string
}

// ParseDimensions reads free-text dimension strings such as
// `28.5" x 28.5" x 42.5"-46.5" (L x W x H)` into axis measurements.
// Anything it cannot read yields an empty map.
func ParseDimensions(text string) models.Dimensions {
	out := models.Dimensions{}

	var legend []string
	if m := dimensionLegendPattern.FindStringSubmatchIndex(text); m != nil {
		for _, label := range dimensionSplitPattern.Split(text[m[2]:m[3]], -1) {
			legend = append(legend, strings.ToUpper(strings.TrimSpace(label)))
		}
		text = text[:m[0]] + text[m[1]:]
	}

	start := strings.IndexAny(text, "0123456789")
	if start < 0 {
		return out
	}
	body := strings.TrimRight(strings.TrimSpace(text[start:]), ".;,")

	parts := dimensionSplitPattern.Split(body, -1)
	axes := make([]axis, 0, len(parts))
	for _, part := range parts {
		a, ok := parseAxis(strings.TrimSpace(part))
		if !ok {
			return models.Dimensions{}
		}
		axes = append(axes, a)
	}

	inheritUnits(axes)

	defaults := defaultAxes[len(axes)]
	for i, a := range axes {
		label := a.label
		switch {
		case i < len(legend) && len(legend) == len(axes):
			label = legend[i]
		case label != "":
		case i < len(defaults):
			label = defaults[i]
		default:
			label = "axis" + strconv.Itoa(i+1)
		}
		m := models.Measurement{Unit: a.unit, IsRange: a.isRange}
		if a.isRange {
			m.Low, m.High = a.low, a.high
		} else {
			m.Value = a.low
		}
		out[label] = m
	}
	return out
}

// FindDimensions locates the first multi-axis dimension phrase inside
// longer text, such as a product title, and parses it.
func FindDimensions(text string) models.Dimensions {
	span := dimensionSpanPattern.FindString(text)
	if span == "" {
		return models.Dimensions{}
	}
	return ParseDimensions(span)
}

func parseAxis(part string) (axis, bool) {
	m := dimensionAxisPattern.FindStringSubmatch(part)
	if m == nil {
		return axis{}, false
	}
	low, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return axis{}, false
	}
	label := m[5]
	if label == "" {
		label = m[6]
	}
	a := axis{low: low, unit: normalizeUnit(m[2]), label: strings.ToUpper(label)}
	if m[3] != "" {
		high, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return axis{}, false
		}
		a.high = high
		a.isRange = true
		if u := normalizeUnit(m[4]); u != "" {
			a.unit = u
		}
	}
	return a, true
}

// inheritUnits fills axes without a unit from the next axis that has one,
// falling back to the previous one: "20 x 30 x 40 cm" is all centimeters.
func inheritUnits(axes []axis) {
	for i := range axes {
		if axes[i].unit != "" {
			continue
		}
		for j := i + 1; j < len(axes); j++ {
			if axes[j].unit != "" {
				axes[i].unit = axes[j].unit
				break
			}
		}
		if axes[i].unit == "" {
			for j := i - 1; j >= 0; j-- {
				if axes[j].unit != "" {
					axes[i].unit = axes[j].unit
					break
				}
			}
		}
	}
}

func normalizeUnit(unit string) string {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), ".") {
	case "":
		return ""
	case `"`, "”", "″", "''", "in", "inch", "inches":
		return "inches"
	case "'", "’", "ft", "foot", "feet":
		return "feet"
	case "cm", "centimeter", "centimeters":
		return "cm"
	case "mm", "millimeter", "millimeters":
		return "mm"
	case "m", "meter", "meters":
		return "m"
	default:
		return unit
	}
}
