// Package match scores how likely two product records describe the same
// item, typically one listing from each retailer.
package match

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
)

// Criterion names one scored attribute in a Result breakdown.
type Criterion string

const (
	CriterionBrand      Criterion = "brand_match"
	CriterionTitle      Criterion = "title_similarity"
	CriterionDimensions Criterion = "dimensions_match"
	CriterionPrice      Criterion = "price_match"
	CriterionCategory   Criterion = "category_match"
	CriterionColor      Criterion = "color_match"
	CriterionMaterial   Criterion = "material_match"
	CriterionFeatures   Criterion = "feature_keywords"
)

// Confidence buckets a total score.
type Confidence string

const (
	ConfidenceVeryHigh Confidence = "Very High"
	ConfidenceHigh     Confidence = "High"
	ConfidenceMedium   Confidence = "Medium"
	ConfidenceLow      Confidence = "Low"
	ConfidenceVeryLow  Confidence = "Very Low"
	ConfidenceNone     Confidence = "No Match"
)

// Weights are the points each criterion awards on a full match.
type Weights struct {
	Brand            float64
	TitleHigh        float64
	TitleMedium      float64
	TitleLow         float64
	DimensionsExact  float64
	DimensionsClose  float64
	Price            float64
	Category         float64
	Color            float64
	Material         float64
	FeatureKeyword   float64
	DimensionPercent float64
	PricePercent     float64
}

// DefaultWeights returns the standard scoring table. Dimensions within 5%
// and prices within 20% count as close.
func DefaultWeights() Weights {
	return Weights{
		Brand:            40,
		TitleHigh:        70,
		TitleMedium:      50,
		TitleLow:         30,
		DimensionsExact:  60,
		DimensionsClose:  40,
		Price:            25,
		Category:         20,
		Color:            15,
		Material:         15,
		FeatureKeyword:   5,
		DimensionPercent: 0.05,
		PricePercent:     0.20,
	}
}

// Result is the weighted outcome of comparing two records. Breakdown only
// lists criteria that scored.
type Result struct {
	Score      float64               `json:"score"`
	Breakdown  map[Criterion]float64 `json:"breakdown"`
	Confidence Confidence            `json:"confidence"`
}

// Scorer compares product records.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

var defaultScorer = NewScorer(DefaultWeights())

// Score compares a and b with the default weights.
func Score(a, b *models.ProductRecord) Result {
	return defaultScorer.Score(a, b)
}

// Score compares a and b. A nil record scores zero against anything.
func (s *Scorer) Score(a, b *models.ProductRecord) Result {
	res := Result{Breakdown: map[Criterion]float64{}}
	if a == nil || b == nil {
		res.Confidence = ConfidenceNone
		return res
	}

	checks := []struct {
		criterion Criterion
		score     func(a, b *models.ProductRecord) float64
	}{
		{CriterionBrand, s.brand},
		{CriterionTitle, s.title},
		{CriterionDimensions, s.dimensions},
		{CriterionPrice, s.price},
		{CriterionCategory, s.category},
		{CriterionColor, s.color},
		{CriterionMaterial, s.material},
		{CriterionFeatures, s.features},
	}
	for _, c := range checks {
		if v := c.score(a, b); v > 0 {
			res.Breakdown[c.criterion] = v
			res.Score += v
		}
	}
	res.Confidence = ConfidenceFor(res.Score)
	return res
}

// ConfidenceFor maps a total score to its confidence bucket.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= 120:
		return ConfidenceVeryHigh
	case score >= 80:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	case score >= 25:
		return ConfidenceLow
	case score >= 10:
		return ConfidenceVeryLow
	default:
		return ConfidenceNone
	}
}

// Pair is the best counterpart found for one record.
type Pair struct {
	Left  *models.ProductRecord `json:"left"`
	Right *models.ProductRecord `json:"right"`
	Result
}

// BestMatches pairs every left record with its highest-scoring right
// record, keeping pairs that reach minScore. Pairs come back best first.
func (s *Scorer) BestMatches(left, right []*models.ProductRecord, minScore float64) []Pair {
	var pairs []Pair
	for _, l := range left {
		if l == nil {
			continue
		}
		var best *Pair
		for _, r := range right {
			if r == nil {
				continue
			}
			res := s.Score(l, r)
			if res.Score < minScore || res.Score == 0 {
				continue
			}
			if best == nil || res.Score > best.Score {
				best = &Pair{Left: l, Right: r, Result: res}
			}
		}
		if best != nil {
			pairs = append(pairs, *best)
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	return pairs
}

func (s *Scorer) brand(a, b *models.ProductRecord) float64 {
	x := strings.ToLower(strings.TrimSpace(a.Brand.Name))
	y := strings.ToLower(strings.TrimSpace(b.Brand.Name))
	if x == "" || y == "" {
		return 0
	}
	if x == y {
		return s.weights.Brand
	}
	if brandsSimilar(x, y) {
		return s.weights.Brand * 0.8
	}
	return 0
}

func brandsSimilar(x, y string) bool {
	for canonical, aliases := range brandAliases {
		if isBrand(x, canonical, aliases) && isBrand(y, canonical, aliases) {
			return true
		}
	}
	if len(x) > 3 && len(y) > 3 && (strings.Contains(x, y) || strings.Contains(y, x)) {
		return true
	}
	return abbreviates(x, y) || abbreviates(y, x)
}

func isBrand(name, canonical string, aliases []string) bool {
	if name == canonical {
		return true
	}
	for _, alias := range aliases {
		if name == alias {
			return true
		}
	}
	return false
}

// abbreviates reports whether short is the initials of the multi-word long.
func abbreviates(long, short string) bool {
	words := strings.Fields(long)
	if len(words) < 2 || len(short) > 4 {
		return false
	}
	var initials strings.Builder
	for _, w := range words {
		initials.WriteByte(w[0])
	}
	return initials.String() == short
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// titleWords lowercases title, strips punctuation and keeps words longer
// than two letters that are not noise.
func titleWords(title string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(nonWord.ReplaceAllString(strings.ToLower(title), " ")) {
		if len(w) > 2 && !noiseWords[w] {
			words[w] = true
		}
	}
	return words
}

func (s *Scorer) title(a, b *models.ProductRecord) float64 {
	x, y := titleWords(a.Title.Full), titleWords(b.Title.Full)
	if len(x) == 0 || len(y) == 0 {
		return 0
	}

	common := intersect(x, y)
	union := len(x) + len(y) - common
	similarity := float64(common)/float64(union) + math.Min(float64(common)*0.1, 0.3)

	switch {
	case similarity >= 0.75:
		return s.weights.TitleHigh
	case similarity >= 0.5:
		return s.weights.TitleMedium
	case similarity >= 0.25:
		return s.weights.TitleLow
	case similarity >= 0.1:
		return s.weights.TitleLow * 0.5
	default:
		return 0
	}
}

func (s *Scorer) dimensions(a, b *models.ProductRecord) float64 {
	x, y := inInches(a.Dimensions), inInches(b.Dimensions)
	if len(x) == 0 || len(y) == 0 {
		return 0
	}
	switch {
	case dimensionsWithin(x, y, 1e-6):
		return s.weights.DimensionsExact
	case dimensionsWithin(x, y, s.weights.DimensionPercent):
		return s.weights.DimensionsClose
	default:
		return 0
	}
}

// dimensionsWithin needs at least two shared axes, each differing by no
// more than tolerance of the larger value. Zero axes are skipped.
func dimensionsWithin(x, y map[string]float64, tolerance float64) bool {
	shared := 0
	for axis, v1 := range x {
		v2, ok := y[axis]
		if !ok {
			continue
		}
		shared++
		if v1 == 0 || v2 == 0 {
			continue
		}
		if math.Abs(v1-v2)/math.Max(v1, v2) > tolerance {
			return false
		}
	}
	return shared >= 2
}

var inchesPer = map[string]float64{
	"inches": 1,
	"feet":   12,
	"cm":     1 / 2.54,
	"mm":     1 / 25.4,
	"m":      100 / 2.54,
}

// inInches converts each axis to inches, using the midpoint of ranges.
// Axes in unknown units are dropped.
func inInches(dims models.Dimensions) map[string]float64 {
	out := make(map[string]float64, len(dims))
	for axis, m := range dims {
		factor, ok := inchesPer[m.Unit]
		if !ok {
			continue
		}
		v := m.Value
		if m.IsRange {
			v = (m.Low + m.High) / 2
		}
		out[axis] = v * factor
	}
	return out
}

func (s *Scorer) price(a, b *models.ProductRecord) float64 {
	x, y := a.Pricing.CurrentPrice.Amount, b.Pricing.CurrentPrice.Amount
	if x <= 0 || y <= 0 {
		return 0
	}
	if math.Abs(x-y)/math.Max(x, y) <= s.weights.PricePercent {
		return s.weights.Price
	}
	return 0
}

func categorySet(rec *models.ProductRecord) map[string]bool {
	set := map[string]bool{}
	add := func(v string) {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = true
		}
	}
	add(rec.Categories.Primary)
	add(rec.Categories.Department)
	for _, v := range rec.Categories.Subcategories {
		add(v)
	}
	for _, v := range rec.Categories.Tags {
		add(v)
	}
	return set
}

func typeSet(title string) map[string]bool {
	types := map[string]bool{}
	for w := range titleWords(title) {
		if productTypes[w] {
			types[w] = true
		}
	}
	return types
}

func (s *Scorer) category(a, b *models.ProductRecord) float64 {
	if intersect(categorySet(a), categorySet(b)) > 0 {
		return s.weights.Category
	}

	x, y := typeSet(a.Title.Full), typeSet(b.Title.Full)
	if len(x) == 0 || len(y) == 0 {
		return 0
	}
	if intersect(x, y) > 0 {
		return s.weights.Category
	}
	for _, group := range relatedTypes {
		if anyIn(x, group) && anyIn(y, group) {
			return s.weights.Category * 0.7
		}
	}
	return 0
}

// colorOf prefers the selected swatch, then the first swatch, then the
// first color word in the title.
func colorOf(rec *models.ProductRecord) string {
	for _, sw := range rec.Variants.Colors {
		if sw.Selected && sw.Name != "" {
			return strings.ToLower(strings.TrimSpace(sw.Name))
		}
	}
	for _, sw := range rec.Variants.Colors {
		if sw.Name != "" {
			return strings.ToLower(strings.TrimSpace(sw.Name))
		}
	}
	for _, w := range strings.Fields(nonWord.ReplaceAllString(strings.ToLower(rec.Title.Full), " ")) {
		if colorWords[w] {
			return w
		}
	}
	return ""
}

func (s *Scorer) color(a, b *models.ProductRecord) float64 {
	x, y := colorOf(a), colorOf(b)
	if x != "" && x == y {
		return s.weights.Color
	}
	return 0
}

func materialSet(title string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(nonWord.ReplaceAllString(strings.ToLower(title), " ")) {
		if m, ok := materialWords[w]; ok {
			set[m] = true
		}
	}
	return set
}

func (s *Scorer) material(a, b *models.ProductRecord) float64 {
	if intersect(materialSet(a.Title.Full), materialSet(b.Title.Full)) > 0 {
		return s.weights.Material
	}
	return 0
}

func featureSet(title string) map[string]bool {
	set := map[string]bool{}
	for w := range titleWords(title) {
		if featureWords[w] {
			set[w] = true
		}
	}
	return set
}

func (s *Scorer) features(a, b *models.ProductRecord) float64 {
	return float64(intersect(featureSet(a.Title.Full), featureSet(b.Title.Full))) * s.weights.FeatureKeyword
}

func intersect(x, y map[string]bool) int {
	n := 0
	for k := range x {
		if y[k] {
			n++
		}
	}
	return n
}

func anyIn(set map[string]bool, words []string) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}
