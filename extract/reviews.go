package extract

import (
	"strings"

	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/parser"
)

func extractReviews(l *listing) models.Reviews {
	r := models.EmptyReviews()

	if label := l.p.Rating.First(l.c); label != "" {
		if value, scale, ok := parser.ParseRating(label); ok {
			r.Rating = models.Rating{Value: value, Scale: scale, Text: label}
		}
	}
	r.Count = parser.ParseCount(l.p.RatingCount.First(l.c))

	for _, row := range l.c.FindAll(l.p.BreakdownSelector) {
		label := l.p.BreakdownLabel.From(row)
		if label == "" {
			continue
		}
		r.RatingBreakdown[label] = parser.ParseCount(l.p.BreakdownCount.From(row))
	}

	if m := recentActivityPattern.FindStringSubmatch(l.text); m != nil {
		unit := strings.ToLower(m[3])
		timeframe := "past_" + unit
		if m[2] != "" && m[2] != "1" {
			timeframe = "past_" + m[2] + "_" + unit + "s"
		}
		r.RecentActivity = models.RecentActivity{
			Detected:  true,
			Text:      m[0],
			Quantity:  parser.ParseCount(m[1]),
			Timeframe: timeframe,
		}
	}
	return r
}
