package models

import "time"

// BatchError records one per-item failure inside a batch. Field is empty
// when the whole container was rejected.
type BatchError struct {
	Index  int    `json:"index"`
	Field  string `json:"field,omitempty"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// BatchResult is everything derived from one page.
type BatchResult struct {
	Records []*ProductRecord `json:"records"`
	Errors  []BatchError     `json:"errors"`
	Summary *SummaryStats    `json:"summary"`
	// Containers is how many product containers the locator found.
	Containers int    `json:"containers"`
	Source     string `json:"source"`
}

type PriceRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// SummaryStats aggregates a batch. AverageRating is nil when no record
// carries reviews. NoData marks an empty input.
type SummaryStats struct {
	TotalCount        int        `json:"totalCount"`
	SponsoredCount    int        `json:"sponsoredCount"`
	OrganicCount      int        `json:"organicCount"`
	AverageRating     *float64   `json:"averageRating"`
	PriceRange        PriceRange `json:"priceRange"`
	CountWithReviews  int        `json:"countWithReviews"`
	CountWithImages   int        `json:"countWithImages"`
	FreeShippingCount int        `json:"freeShippingCount"`
	NoData            bool       `json:"noData,omitempty"`
	Message           string     `json:"message,omitempty"`
}

// DocumentMetadata is the provenance block of a persisted batch document.
type DocumentMetadata struct {
	SearchTerm string    `json:"searchTerm"`
	Source     string    `json:"source"`
	RunID      string    `json:"runId"`
	ScrapedAt  time.Time `json:"scrapedAt"`
	Pages      int       `json:"pages"`
	ErrorCount int       `json:"errorCount"`
}

// BatchDocument is the on-disk layout: products, metadata, summary.
type BatchDocument struct {
	Products []*ProductRecord `json:"products"`
	Metadata DocumentMetadata `json:"metadata"`
	Summary  *SummaryStats    `json:"summary"`
}

// ScraperResult holds the overall result of a scraping operation
type ScraperResult struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalCount      int
	ErrorCount      int
	FailedURLs      []string
	ErrorsByType    map[string]int
	RetryCount      int
	RequestCount    int
	PageCount       int
	ContainersSeen  int
	RecordsParsed   int
	ItemErrors      int
	ItemErrorsByKey map[string]int
}
