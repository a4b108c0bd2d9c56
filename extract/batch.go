package extract

import (
	"errors"
	"log/slog"

	"github.com/aluiziolira/go-scrape-products/container"
	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/summary"
)

// Parser runs the locator and assembler over whole pages.
type Parser struct {
	assembler     *Assembler
	logger        *slog.Logger
	observer      Observer
	maxContainers int
}

// NewParser builds a batch parser. maxContainers caps how many containers
// of a page are assembled; zero means no cap.
func NewParser(logger *slog.Logger, observer Observer, maxContainers int) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Parser{
		assembler:     NewAssembler(logger, observer),
		logger:        logger,
		observer:      observer,
		maxContainers: maxContainers,
	}
}

type batchOptions struct {
	page          int
	maxContainers int
}

// BatchOption tunes a single ParseBatch call.
type BatchOption func(*batchOptions)

// WithPage stamps records with the results page they came from.
func WithPage(page int) BatchOption {
	return func(o *batchOptions) { o.page = page }
}

// WithMaxContainers overrides the parser's container cap for one call.
func WithMaxContainers(n int) BatchOption {
	return func(o *batchOptions) { o.maxContainers = n }
}

// ParseBatch locates and assembles every product on page. It never stops
// early: rejected containers and isolated extractor failures are reported
// in Errors, and a page the locator cannot read yields a single error with
// index -1. Records keep document order.
func (p *Parser) ParseBatch(page []byte, opts ...BatchOption) *models.BatchResult {
	o := batchOptions{maxContainers: p.maxContainers}
	for _, opt := range opts {
		opt(&o)
	}

	containers, profile, err := Locate(page)
	if err != nil {
		p.logger.Error("locate containers", slog.Any("error", err))
		p.observer.IncItemError(KindLocateFailure)
		return &models.BatchResult{
			Records: []*models.ProductRecord{},
			Errors:  []models.BatchError{{Index: -1, Kind: ErrorKind(err), Reason: err.Error()}},
			Summary: summary.Summarize(nil),
		}
	}
	return p.parse(containers, profile, o)
}

// ParseContainers assembles already located containers with profile.
func (p *Parser) ParseContainers(containers []container.Container, profile *Profile, opts ...BatchOption) *models.BatchResult {
	o := batchOptions{maxContainers: p.maxContainers}
	for _, opt := range opts {
		opt(&o)
	}
	return p.parse(containers, profile, o)
}

func (p *Parser) parse(containers []container.Container, profile *Profile, o batchOptions) *models.BatchResult {
	result := &models.BatchResult{
		Records:    make([]*models.ProductRecord, 0, len(containers)),
		Errors:     []models.BatchError{},
		Containers: len(containers),
	}
	if profile != nil {
		result.Source = profile.Name
	}
	if o.maxContainers > 0 && len(containers) > o.maxContainers {
		containers = containers[:o.maxContainers]
	}
	p.observer.IncContainers(len(containers))

	for i, c := range containers {
		prof := profile
		if prof == nil {
			prof = ProfileFor(c.Kind())
		}
		rec, err := p.assembler.assemble(c, prof, i+1, o.page)
		if err != nil {
			result.Errors = append(result.Errors, batchErrors(i, err)...)
		}
		if rec == nil {
			p.observer.IncItemError(ErrorKind(err))
			p.logger.Warn("container rejected",
				slog.Int("index", i),
				slog.Any("error", err),
			)
			continue
		}
		if err != nil {
			p.observer.IncItemError(KindExtractorFailure)
		}
		p.observer.IncRecords()
		result.Records = append(result.Records, rec)
	}

	result.Summary = summary.Summarize(result.Records)
	return result
}

func batchErrors(index int, err error) []models.BatchError {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		out := make([]models.BatchError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, models.BatchError{
				Index:  index,
				Field:  fe.Field,
				Kind:   KindExtractorFailure,
				Reason: fe.Err.Error(),
			})
		}
		return out
	}
	return []models.BatchError{{Index: index, Kind: ErrorKind(err), Reason: err.Error()}}
}
