package extract

import (
	"encoding/json"
	"html"
	"strconv"

	"github.com/aluiziolira/go-scrape-products/models"
)

// impressionProps is the subset of the ad impression logger payload we keep.
type impressionProps struct {
	URL string `json:"url"`
}

func extractAdvertising(l *listing) models.Advertising {
	ad := models.EmptyAdvertising()
	if label := l.sponsorLabel(); label != "" {
		ad.IsSponsored = true
		ad.AdType = label
		if l.position > 0 {
			ad.AdPosition = strconv.Itoa(l.position)
		}
	}

	// The payload is best effort: an undecodable blob leaves SponsorInfo empty.
	if payload := l.p.AdPayload.First(l.c); payload != "" {
		var props impressionProps
		if err := json.Unmarshal([]byte(html.UnescapeString(payload)), &props); err == nil {
			ad.SponsorInfo = models.SponsorInfo{TrackingURL: props.URL, Decoded: true}
		}
	}
	return ad
}

func extractBadges(l *listing) models.Badges {
	b := models.EmptyBadges()
	b.StoreChoice = storeChoicePattern.MatchString(l.text)
	b.BestSeller = bestSellerPattern.MatchString(l.text)
	b.Sustainability = sustainabilityPattern.MatchString(l.text)
	for _, q := range qualityBadges {
		if q.pattern.MatchString(l.text) {
			b.QualityBadges = append(b.QualityBadges, q.label)
		}
	}
	return b
}
