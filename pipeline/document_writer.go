package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/summary"
)

// DocumentWriter collects every record of a run and persists them as one
// JSON document with products, metadata and summary on Close.
type DocumentWriter struct {
	filename string
	meta     models.DocumentMetadata

	mu      sync.Mutex
	records []*models.ProductRecord
	closed  bool
}

// NewDocumentWriter prepares a document writer. Missing RunID and ScrapedAt
// values in meta are filled in.
func NewDocumentWriter(filename string, meta models.DocumentMetadata) (*DocumentWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.ScrapedAt.IsZero() {
		meta.ScrapedAt = time.Now().UTC()
	}
	return &DocumentWriter{filename: filename, meta: meta}, nil
}

// RunID identifies the document being written.
func (dw *DocumentWriter) RunID() string {
	return dw.meta.RunID
}

// Annotate records crawl totals known only once the run has finished.
func (dw *DocumentWriter) Annotate(pages, errorCount int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.meta.Pages = pages
	dw.meta.ErrorCount = errorCount
}

func (dw *DocumentWriter) Write(records []*models.ProductRecord) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.closed {
		return ErrPipelineClosed
	}
	dw.records = append(dw.records, records...)
	return nil
}

// Close writes the document. Later calls are no-ops.
func (dw *DocumentWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.closed {
		return nil
	}
	dw.closed = true

	doc := BuildDocument(dw.records, dw.meta)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(dw.filename, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Validate checks the written file once the document has been closed.
func (dw *DocumentWriter) Validate() error {
	dw.mu.Lock()
	closed := dw.closed
	dw.mu.Unlock()
	if !closed {
		return nil
	}
	info, err := os.Stat(dw.filename)
	if err != nil {
		return fmt.Errorf("stat document: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("document file is empty")
	}
	return nil
}

// BuildDocument orders records by results page and position, since
// pipeline workers may deliver them out of order, and attaches the summary.
func BuildDocument(records []*models.ProductRecord, meta models.DocumentMetadata) *models.BatchDocument {
	products := make([]*models.ProductRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			products = append(products, rec)
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i].Metadata, products[j].Metadata
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.PositionInResults < b.PositionInResults
	})
	if meta.Source == "" && len(products) > 0 {
		meta.Source = products[0].Metadata.Source
	}
	return &models.BatchDocument{
		Products: products,
		Metadata: meta,
		Summary:  summary.Summarize(products),
	}
}
