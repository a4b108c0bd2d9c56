package extract

// Observer receives extraction counters. scraper.Metrics implements it.
type Observer interface {
	IncContainers(n int)
	IncRecords()
	IncItemError(kind string)
	IncExtractorFailure(field string)
}

type nopObserver struct{}

func (nopObserver) IncContainers(int)          {}
func (nopObserver) IncRecords()                {}
func (nopObserver) IncItemError(string)        {}
func (nopObserver) IncExtractorFailure(string) {}
