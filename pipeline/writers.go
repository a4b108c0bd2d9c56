package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/aluiziolira/go-scrape-products/models"
)

// csvHeader lists the flattened record columns, one row per product.
var csvHeader = []string{
	"identifier", "title", "brand", "is_store_brand",
	"current_price", "max_price", "original_price", "discount", "currency", "coupon",
	"rating", "review_count", "image_url", "product_url",
	"free_shipping", "eligible_program", "delivery_date",
	"colors", "other_options", "categories",
	"is_sponsored", "best_seller", "store_choice",
	"position", "page", "source",
}

func csvRow(rec *models.ProductRecord) []string {
	colors := make([]string, 0, len(rec.Variants.Colors))
	for _, c := range rec.Variants.Colors {
		colors = append(colors, c.Name)
	}
	return []string{
		rec.Identifier,
		rec.Title.Full,
		rec.Brand.Name,
		strconv.FormatBool(rec.Brand.IsStoreBrand),
		formatAmount(rec.Pricing.CurrentPrice.Amount),
		formatAmount(rec.Pricing.MaxPrice.Amount),
		formatAmount(rec.Pricing.OriginalPrice.Amount),
		formatAmount(rec.Pricing.Discount),
		rec.Pricing.Currency,
		rec.Pricing.Coupon.Text,
		strconv.FormatFloat(rec.Reviews.Rating.Value, 'f', -1, 64),
		strconv.Itoa(rec.Reviews.Count),
		rec.Images.Primary.URL,
		rec.Links.ProductPage,
		strconv.FormatBool(rec.Shipping.FreeShipping),
		rec.Shipping.EligibleProgram,
		rec.Shipping.DeliveryDate.Primary,
		strings.Join(colors, "|"),
		strconv.Itoa(rec.Variants.OtherOptionsCount),
		strings.Join(rec.Categories.Tags, "|"),
		strconv.FormatBool(rec.Advertising.IsSponsored),
		strconv.FormatBool(rec.Badges.BestSeller),
		strconv.FormatBool(rec.Badges.StoreChoice),
		strconv.Itoa(rec.Metadata.PositionInResults),
		strconv.Itoa(rec.Metadata.Page),
		rec.Metadata.Source,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends records to the CSV output.
func (cw *CSVWriter) Write(records []*models.ProductRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, rec := range records {
		if err := cw.writer.Write(csvRow(rec)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header.
func (cw *CSVWriter) Validate() error {
	info, err := os.Stat(cw.file.Name())
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter writes newline-delimited JSON records.
type JSONWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSONL writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONWriter{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write appends records in JSONL format.
func (jw *JSONWriter) Write(records []*models.ProductRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, rec := range records {
		if err := jw.encoder.Encode(rec); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}

	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := os.Stat(jw.file.Name())
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
