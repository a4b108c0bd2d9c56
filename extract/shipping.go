package extract

import (
	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/parser"
)

func extractShipping(l *listing) models.Shipping {
	s := models.EmptyShipping()
	s.FreeShipping = freeShippingPattern.MatchString(l.text)

	for _, pm := range l.p.Programs {
		if pm.Selector != "" && len(l.c.FindAll(pm.Selector)) > 0 {
			s.EligibleProgram = pm.Program
			break
		}
		if pm.Pattern != nil && pm.Pattern.MatchString(l.scopedText(pm.Scope)) {
			s.EligibleProgram = pm.Program
			break
		}
	}

	// Delivery dates are the emphasized spans of the delivery block; the
	// last one is the fastest option when the listing advertises one.
	bold := texts(l.c.FindAll(l.p.DeliveryEmphasis))
	if len(bold) > 0 {
		s.DeliveryDate.Primary = bold[0]
	}
	if len(bold) > 1 && fastestPattern.MatchString(l.text) {
		s.DeliveryDate.Fastest = bold[len(bold)-1]
	}
	if s.DeliveryDate.Primary == "" {
		s.DeliveryDate.Primary = l.p.DeliveryPrimary.First(l.c)
	}
	if s.DeliveryDate.Fastest == "" {
		s.DeliveryDate.Fastest = l.p.DeliveryFastest.First(l.c)
	}

	if !s.FreeShipping {
		if m := shippingCostPattern.FindStringSubmatch(l.text); m != nil {
			s.Cost = parser.ParsePrice(m[1])
		}
	}

	for _, opt := range shippingOptions {
		if opt.pattern.MatchString(l.text) {
			s.Options = append(s.Options, opt.label)
		}
	}
	return s
}
