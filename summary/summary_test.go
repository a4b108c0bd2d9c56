package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aluiziolira/go-scrape-products/models"
)

func record(id, brand string, price, rating float64, reviews int, sponsored bool) *models.ProductRecord {
	rec := models.NewProductRecord(id)
	rec.Brand.Name = brand
	rec.Pricing.CurrentPrice.Amount = price
	rec.Reviews.Rating.Value = rating
	rec.Reviews.Count = reviews
	rec.Advertising.IsSponsored = sponsored
	return rec
}

func TestSummarizeEmpty(t *testing.T) {
	for name, input := range map[string][]*models.ProductRecord{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			stats := Summarize(input)
			require.NotNil(t, stats)
			assert.True(t, stats.NoData)
			assert.Equal(t, NoProductsMessage, stats.Message)
			assert.Zero(t, stats.TotalCount)
			assert.Nil(t, stats.AverageRating)
		})
	}
}

func TestSummarizeIgnoresNilRecords(t *testing.T) {
	stats := Summarize([]*models.ProductRecord{record("A", "Acme", 10, 4, 3, true), nil})
	assert.Equal(t, 1, stats.TotalCount)
	assert.Equal(t, 1, stats.SponsoredCount)
	assert.Zero(t, stats.OrganicCount)
	assert.Equal(t, stats.TotalCount, stats.SponsoredCount+stats.OrganicCount)

	stats = Summarize([]*models.ProductRecord{nil, nil})
	assert.True(t, stats.NoData)
	assert.Zero(t, stats.TotalCount)
}

func TestSummarizeAveragesOnlyReviewedRecords(t *testing.T) {
	records := []*models.ProductRecord{
		record("A", "Acme", 10, 5, 12, false),
		record("B", "Acme", 0, 0, 0, true),
		record("C", "Other", 30, 3, 4, false),
	}
	records[0].Images.Primary.URL = "https://img.example/a.jpg"
	records[2].Shipping.FreeShipping = true

	stats := Summarize(records)

	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.0, *stats.AverageRating, 1e-9)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 1, stats.SponsoredCount)
	assert.Equal(t, 2, stats.OrganicCount)
	assert.Equal(t, 2, stats.CountWithReviews)
	assert.Equal(t, 1, stats.CountWithImages)
	assert.Equal(t, 1, stats.FreeShippingCount)
	assert.Equal(t, models.PriceRange{Min: 10, Max: 30, Avg: 20, Count: 2}, stats.PriceRange)
	assert.False(t, stats.NoData)
}

func TestSummarizeWithoutReviews(t *testing.T) {
	stats := Summarize([]*models.ProductRecord{record("A", "", 0, 0, 0, false)})
	assert.Nil(t, stats.AverageRating)
	assert.Zero(t, stats.PriceRange.Count)
}

func TestFilters(t *testing.T) {
	records := []*models.ProductRecord{
		record("A", "Acme", 10, 4.6, 10, false),
		record("B", "Acme", 50, 3.9, 3, true),
		record("C", "Zed", 0, 4.9, 0, false),
	}

	tests := []struct {
		name string
		got  []*models.ProductRecord
		want []string
	}{
		{"price range closed", FilterByPriceRange(records, 5, 20), []string{"A"}},
		{"price range open", FilterByPriceRange(records, 20, 0), []string{"B"}},
		{"rating", FilterByRating(records, 4.0), []string{"A"}},
		{"sponsored", FilterSponsored(records, true), []string{"B"}},
		{"organic", FilterSponsored(records, false), []string{"A", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, 0, len(tt.got))
			for _, rec := range tt.got {
				ids = append(ids, rec.Identifier)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestBrandBreakdown(t *testing.T) {
	rows := BrandBreakdown([]*models.ProductRecord{
		record("A", "Zed", 10, 4, 1, false),
		record("B", "acme", 20, 5, 2, false),
		record("C", "Acme", 40, 0, 0, false),
		record("D", "", 0, 0, 0, false),
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "acme", rows[0].Brand)
	assert.Equal(t, 2, rows[0].Count)
	assert.InDelta(t, 30.0, rows[0].AveragePrice, 1e-9)
	require.NotNil(t, rows[0].AverageRating)
	assert.InDelta(t, 5.0, *rows[0].AverageRating, 1e-9)
	assert.Equal(t, "Zed", rows[1].Brand)
	assert.Equal(t, "unknown", rows[2].Brand)
	assert.Nil(t, rows[2].AverageRating)
}
