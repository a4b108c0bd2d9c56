package extract

import (
	"math"

	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/parser"
)

func extractPricing(l *listing) models.Pricing {
	pr := models.EmptyPricing()

	current := l.p.CurrentPrice.First(l.c)
	if low, high, ok := parser.SplitPriceRange(current); ok {
		pr.CurrentPrice = parser.ParsePrice(low)
		pr.MaxPrice = parser.ParsePrice(high)
	} else if current != "" {
		pr.CurrentPrice = parser.ParsePrice(current)
	}
	if bounds := texts(l.c.FindAll(l.p.PriceRangeSelector)); len(bounds) >= 2 {
		pr.CurrentPrice = parser.ParsePrice(bounds[0])
		pr.MaxPrice = parser.ParsePrice(bounds[len(bounds)-1])
	}

	if original := l.p.OriginalPrice.First(l.c); original != "" {
		pr.OriginalPrice = parser.ParsePrice(lowSide(original))
	}

	if list := l.p.ListPrice.First(l.c); list != "" {
		pr.ListPrice = parser.ParsePrice(lowSide(list))
	} else if m := listPricePattern.FindStringSubmatch(l.text); m != nil {
		pr.ListPrice = parser.ParsePrice(m[1])
	}

	if m := memberPricePattern.FindStringSubmatch(l.text); m != nil {
		pr.PrimeOrExpressPrice = parser.ParsePrice(m[1])
	}

	if coupon := l.p.Coupon.First(l.c); coupon != "" {
		amount, percent := parser.ParseCouponAmount(coupon)
		pr.Coupon = models.Coupon{
			Available: true,
			Text:      coupon,
			Amount:    amount,
			IsPercent: percent,
		}
	}

	if pr.CurrentPrice.RawText != "" {
		pr.Currency = pr.CurrentPrice.Currency
	}

	original, now := pr.OriginalPrice.Amount, pr.CurrentPrice.Amount
	if original > 0 && now > 0 && original > now {
		pr.Discount = math.Round((original-now)*100) / 100
	}
	return pr
}

// lowSide reduces a range to its lower bound; scalars pass through.
func lowSide(raw string) string {
	if low, _, ok := parser.SplitPriceRange(raw); ok {
		return low
	}
	return raw
}
