// Package summary aggregates assembled product records.
package summary

import (
	"math"
	"sort"
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
)

// NoProductsMessage is the message carried by an empty summary.
const NoProductsMessage = "no products found"

// Summarize computes batch statistics. Ratings are averaged over records
// with at least one review; price stats cover records with a positive
// current price. Nil entries are ignored; an input without records yields
// only the no-data indicator.
func Summarize(records []*models.ProductRecord) *models.SummaryStats {
	records = filter(records, func(*models.ProductRecord) bool { return true })
	if len(records) == 0 {
		return &models.SummaryStats{NoData: true, Message: NoProductsMessage}
	}

	stats := &models.SummaryStats{TotalCount: len(records)}
	var ratingSum, priceSum float64
	var rated int

	for _, rec := range records {
		if rec.Advertising.IsSponsored {
			stats.SponsoredCount++
		} else {
			stats.OrganicCount++
		}
		if rec.Reviews.Count > 0 {
			stats.CountWithReviews++
			ratingSum += rec.Reviews.Rating.Value
			rated++
		}
		if rec.Images.Primary.URL != "" {
			stats.CountWithImages++
		}
		if rec.Shipping.FreeShipping {
			stats.FreeShippingCount++
		}
		if price := rec.Pricing.CurrentPrice.Amount; price > 0 {
			if stats.PriceRange.Count == 0 || price < stats.PriceRange.Min {
				stats.PriceRange.Min = price
			}
			if price > stats.PriceRange.Max {
				stats.PriceRange.Max = price
			}
			priceSum += price
			stats.PriceRange.Count++
		}
	}

	if rated > 0 {
		avg := round2(ratingSum / float64(rated))
		stats.AverageRating = &avg
	}
	if stats.PriceRange.Count > 0 {
		stats.PriceRange.Avg = round2(priceSum / float64(stats.PriceRange.Count))
	}
	return stats
}

// FilterByPriceRange keeps records whose current price lies in [min, max].
// A zero max leaves the range open above. Unpriced records are dropped.
func FilterByPriceRange(records []*models.ProductRecord, min, max float64) []*models.ProductRecord {
	return filter(records, func(rec *models.ProductRecord) bool {
		price := rec.Pricing.CurrentPrice.Amount
		if price <= 0 || price < min {
			return false
		}
		return max <= 0 || price <= max
	})
}

// FilterByRating keeps reviewed records rated at least min.
func FilterByRating(records []*models.ProductRecord, min float64) []*models.ProductRecord {
	return filter(records, func(rec *models.ProductRecord) bool {
		return rec.Reviews.Count > 0 && rec.Reviews.Rating.Value >= min
	})
}

// FilterSponsored keeps sponsored records when sponsored is true, organic
// ones otherwise.
func FilterSponsored(records []*models.ProductRecord, sponsored bool) []*models.ProductRecord {
	return filter(records, func(rec *models.ProductRecord) bool {
		return rec.Advertising.IsSponsored == sponsored
	})
}

// BrandCount is one row of a brand breakdown.
type BrandCount struct {
	Brand         string   `json:"brand"`
	Count         int      `json:"count"`
	AveragePrice  float64  `json:"averagePrice"`
	AverageRating *float64 `json:"averageRating"`
}

// BrandBreakdown groups records by brand name, most frequent first.
// Brands compare case-insensitively; the first spelling seen is kept.
func BrandBreakdown(records []*models.ProductRecord) []BrandCount {
	type acc struct {
		name                string
		count               int
		priceSum, ratingSum float64
		priced, rated       int
		order               int
	}
	groups := map[string]*acc{}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		name := strings.TrimSpace(rec.Brand.Name)
		if name == "" {
			name = "unknown"
		}
		key := strings.ToLower(name)
		g, ok := groups[key]
		if !ok {
			g = &acc{name: name, order: len(groups)}
			groups[key] = g
		}
		g.count++
		if price := rec.Pricing.CurrentPrice.Amount; price > 0 {
			g.priceSum += price
			g.priced++
		}
		if rec.Reviews.Count > 0 {
			g.ratingSum += rec.Reviews.Rating.Value
			g.rated++
		}
	}

	ordered := make([]*acc, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].order < ordered[j].order
	})

	out := make([]BrandCount, 0, len(ordered))
	for _, g := range ordered {
		row := BrandCount{Brand: g.name, Count: g.count}
		if g.priced > 0 {
			row.AveragePrice = round2(g.priceSum / float64(g.priced))
		}
		if g.rated > 0 {
			avg := round2(g.ratingSum / float64(g.rated))
			row.AverageRating = &avg
		}
		out = append(out, row)
	}
	return out
}

func filter(records []*models.ProductRecord, keep func(*models.ProductRecord) bool) []*models.ProductRecord {
	out := make([]*models.ProductRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil && keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
