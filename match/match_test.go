package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aluiziolira/go-scrape-products/models"
)

func product(id, brand, title string, price float64) *models.ProductRecord {
	rec := models.NewProductRecord(id)
	rec.Brand.Name = brand
	rec.Title.Full = title
	rec.Pricing.CurrentPrice.Amount = price
	return rec
}

func withDims(rec *models.ProductRecord, dims models.Dimensions) *models.ProductRecord {
	rec.Dimensions = dims
	return rec
}

func inches(v float64) models.Measurement { return models.Measurement{Value: v, Unit: "inches"} }

func TestScoreCriteria(t *testing.T) {
	tests := []struct {
		name      string
		a, b      *models.ProductRecord
		criterion Criterion
		want      float64
	}{
		{
			name:      "brand exact ignoring case",
			a:         product("A", "Acme", "", 0),
			b:         product("B", "ACME", "", 0),
			criterion: CriterionBrand,
			want:      40,
		},
		{
			name:      "brand alias",
			a:         product("A", "AmazonBasics", "", 0),
			b:         product("B", "Amazon Basics", "", 0),
			criterion: CriterionBrand,
			want:      32,
		},
		{
			name:      "brand initials",
			a:         product("A", "Best Choice Products", "", 0),
			b:         product("B", "BCP", "", 0),
			criterion: CriterionBrand,
			want:      32,
		},
		{
			name:      "different brands",
			a:         product("A", "Acme", "", 0),
			b:         product("B", "Zinus", "", 0),
			criterion: CriterionBrand,
			want:      0,
		},
		{
			name:      "title medium overlap",
			a:         product("A", "", "Modern Oak Side Table", 0),
			b:         product("B", "", "Oak Side Table, Rustic Brown Finish", 0),
			criterion: CriterionTitle,
			want:      50,
		},
		{
			name:      "title partial overlap",
			a:         product("A", "", "Velvet Accent Chair", 0),
			b:         product("B", "", "Leather Office Chair Black Swivel", 0),
			criterion: CriterionTitle,
			want:      15,
		},
		{
			name:      "dimensions exact across units",
			a:         withDims(product("A", "", "", 0), models.Dimensions{"W": inches(12), "H": inches(30)}),
			b:         withDims(product("B", "", "", 0), models.Dimensions{"W": {Value: 30.48, Unit: "cm"}, "H": {Value: 76.2, Unit: "cm"}}),
			criterion: CriterionDimensions,
			want:      60,
		},
		{
			name:      "dimensions within five percent",
			a:         withDims(product("A", "", "", 0), models.Dimensions{"W": inches(28), "H": inches(30)}),
			b:         withDims(product("B", "", "", 0), models.Dimensions{"W": inches(29), "H": inches(30)}),
			criterion: CriterionDimensions,
			want:      40,
		},
		{
			name:      "dimensions too far apart",
			a:         withDims(product("A", "", "", 0), models.Dimensions{"W": inches(28), "H": inches(30)}),
			b:         withDims(product("B", "", "", 0), models.Dimensions{"W": inches(32), "H": inches(30)}),
			criterion: CriterionDimensions,
			want:      0,
		},
		{
			name:      "dimensions need two shared axes",
			a:         withDims(product("A", "", "", 0), models.Dimensions{"value": inches(30)}),
			b:         withDims(product("B", "", "", 0), models.Dimensions{"value": inches(30)}),
			criterion: CriterionDimensions,
			want:      0,
		},
		{
			name:      "price within twenty percent",
			a:         product("A", "", "", 100),
			b:         product("B", "", "", 120),
			criterion: CriterionPrice,
			want:      25,
		},
		{
			name:      "price too far apart",
			a:         product("A", "", "", 100),
			b:         product("B", "", "", 130),
			criterion: CriterionPrice,
			want:      0,
		},
		{
			name:      "missing price",
			a:         product("A", "", "", 100),
			b:         product("B", "", "", 0),
			criterion: CriterionPrice,
			want:      0,
		},
		{
			name:      "related product types",
			a:         product("A", "", "Velvet Accent Chair", 0),
			b:         product("B", "", "Wooden Bar Stool", 0),
			criterion: CriterionCategory,
			want:      14,
		},
		{
			name:      "same product type",
			a:         product("A", "", "Velvet Accent Chair", 0),
			b:         product("B", "", "Leather Office Chair", 0),
			criterion: CriterionCategory,
			want:      20,
		},
		{
			name:      "material family",
			a:         product("A", "", "Solid Oak Bench", 0),
			b:         product("B", "", "Wooden Dining Bench", 0),
			criterion: CriterionMaterial,
			want:      15,
		},
		{
			name:      "shared feature keywords",
			a:         product("A", "", "Adjustable Swivel Office Chair", 0),
			b:         product("B", "", "Ergonomic Swivel Chair, Adjustable Height", 0),
			criterion: CriterionFeatures,
			want:      10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.a, tt.b)
			assert.InDelta(t, tt.want, res.Breakdown[tt.criterion], 1e-9)
		})
	}
}

func TestScoreCategoryFromRecord(t *testing.T) {
	a := product("A", "", "", 0)
	a.Categories.Primary = "Furniture"
	b := product("B", "", "", 0)
	b.Categories.Tags = []string{"furniture"}

	assert.Equal(t, 20.0, Score(a, b).Breakdown[CriterionCategory])
}

func TestScoreColorPrefersSelectedSwatch(t *testing.T) {
	a := product("A", "", "Accent Chair", 0)
	a.Variants.Colors = []models.Swatch{{Name: "Grey"}, {Name: "Blue", Selected: true}}
	b := product("B", "", "Accent Chair, Blue", 0)

	assert.Equal(t, 15.0, Score(a, b).Breakdown[CriterionColor])

	b.Title.Full = "Accent Chair, Grey"
	assert.NotContains(t, Score(a, b).Breakdown, CriterionColor)
}

func TestScoreSameListing(t *testing.T) {
	a := withDims(product("B0CHAIR001", "Acme", "Acme Velvet Accent Chair with Wooden Legs, Green", 100),
		models.Dimensions{"W": inches(28), "H": inches(30)})
	a.Variants.Colors = []models.Swatch{{Name: "Green"}}
	b := withDims(product("TCIN-1", "ACME", "Acme Velvet Accent Chair Wooden Legs Green", 110),
		models.Dimensions{"W": {Value: 71.12, Unit: "cm"}, "H": {Value: 76.2, Unit: "cm"}})

	res := Score(a, b)

	var sum float64
	for _, v := range res.Breakdown {
		sum += v
	}
	assert.InDelta(t, sum, res.Score, 1e-9)
	assert.InDelta(t, 245, res.Score, 1e-9)
	assert.Equal(t, ConfidenceVeryHigh, res.Confidence)
	assert.NotContains(t, res.Breakdown, CriterionFeatures)
}

func TestScoreNilRecord(t *testing.T) {
	res := Score(nil, product("A", "Acme", "Chair", 10))
	assert.Zero(t, res.Score)
	assert.Empty(t, res.Breakdown)
	assert.Equal(t, ConfidenceNone, res.Confidence)
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Confidence
	}{
		{150, ConfidenceVeryHigh},
		{120, ConfidenceVeryHigh},
		{119.9, ConfidenceHigh},
		{80, ConfidenceHigh},
		{50, ConfidenceMedium},
		{25, ConfidenceLow},
		{10, ConfidenceVeryLow},
		{9.99, ConfidenceNone},
		{0, ConfidenceNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceFor(tt.score), "score %v", tt.score)
	}
}

func TestBestMatches(t *testing.T) {
	chairA := product("B0CHAIR001", "Acme", "Acme Velvet Accent Chair Green", 100)
	tableA := product("B0TABLE001", "Zinus", "Zinus Oak Side Table", 50)
	chairB := product("T-CHAIR", "Acme", "Acme Velvet Accent Chair, Green", 105)
	tableB := product("T-TABLE", "Zinus", "Zinus Oak Side Table Brown", 55)
	hose := product("T-HOSE", "Other", "Garden Hose 50ft", 20)

	scorer := NewScorer(DefaultWeights())
	left := []*models.ProductRecord{tableA, chairA, nil}
	right := []*models.ProductRecord{hose, tableB, chairB}

	pairs := scorer.BestMatches(left, right, 25)
	require.Len(t, pairs, 2)
	assert.Same(t, chairA, pairs[0].Left)
	assert.Same(t, chairB, pairs[0].Right)
	assert.Same(t, tableA, pairs[1].Left)
	assert.Same(t, tableB, pairs[1].Right)
	assert.GreaterOrEqual(t, pairs[0].Score, pairs[1].Score)

	pairs = scorer.BestMatches(left, right, 180)
	require.Len(t, pairs, 1)
	assert.Same(t, chairA, pairs[0].Left)

	assert.Empty(t, scorer.BestMatches(left, nil, 0))
}
