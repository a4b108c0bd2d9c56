package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-products/models"
)

func sampleRecord(id string, page, position int) *models.ProductRecord {
	rec := models.NewProductRecord(id)
	rec.Title.Full = "Oak Side Table"
	rec.Brand.Name = "Oakworks"
	rec.Pricing.CurrentPrice = models.PriceInfo{RawText: "$45.00", Amount: 45, Currency: "USD"}
	rec.Reviews.Rating = models.Rating{Value: 4.5, Scale: 5}
	rec.Reviews.Count = 12
	rec.Variants.Colors = []models.Swatch{{Name: "Oak"}, {Name: "Walnut"}}
	rec.Metadata.Page = page
	rec.Metadata.PositionInResults = position
	rec.Metadata.Source = "amazon"
	return rec
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}

	if err := writer.Write([]*models.ProductRecord{sampleRecord("B01", 1, 1)}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2", len(records))
	}
	if records[0][0] != "identifier" || records[0][1] != "title" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if len(records[1]) != len(csvHeader) {
		t.Fatalf("row has %d columns, header has %d", len(records[1]), len(csvHeader))
	}
	if records[1][0] != "B01" || records[1][4] != "45.00" || records[1][17] != "Oak|Walnut" {
		t.Fatalf("unexpected row: %v", records[1])
	}
}

func TestJSONWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.jsonl")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}

	records := []*models.ProductRecord{sampleRecord("B01", 1, 1), sampleRecord("B02", 1, 2)}
	if err := writer.Write(records); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.ProductRecord
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		if decoded.Identifier == "" {
			t.Fatalf("decoded record lost its identifier")
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan json: %v", err)
	}
	if count != 2 {
		t.Fatalf("json lines=%d, want 2", count)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "products.csv")
	jsonPath := filepath.Join(dir, "products.jsonl")

	writer, err := NewDualWriter(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}

	if err := writer.Write([]*models.ProductRecord{sampleRecord("B01", 1, 1)}); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}

	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Fatalf("csv file missing or empty")
	}
	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
}

func TestDocumentWriterOrdersAndSummarizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "products.json")

	scrapedAt := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	writer, err := NewDocumentWriter(path, models.DocumentMetadata{SearchTerm: "side table", ScrapedAt: scrapedAt})
	if err != nil {
		t.Fatalf("create document writer: %v", err)
	}
	if writer.RunID() == "" {
		t.Fatalf("expected generated run id")
	}

	// Workers deliver batches out of order.
	if err := writer.Write([]*models.ProductRecord{sampleRecord("P2-1", 2, 1), sampleRecord("P1-3", 1, 3)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Write([]*models.ProductRecord{sampleRecord("P1-1", 1, 1)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	writer.Annotate(2, 1)

	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Write([]*models.ProductRecord{sampleRecord("late", 3, 1)}); err == nil {
		t.Fatalf("expected write after close to fail")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	var doc models.BatchDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}

	var order []string
	for _, rec := range doc.Products {
		order = append(order, rec.Identifier)
	}
	if len(order) != 3 || order[0] != "P1-1" || order[1] != "P1-3" || order[2] != "P2-1" {
		t.Fatalf("product order = %v", order)
	}
	if doc.Metadata.SearchTerm != "side table" || doc.Metadata.Source != "amazon" {
		t.Fatalf("unexpected metadata: %+v", doc.Metadata)
	}
	if doc.Metadata.RunID != writer.RunID() || !doc.Metadata.ScrapedAt.Equal(scrapedAt) {
		t.Fatalf("run metadata not persisted: %+v", doc.Metadata)
	}
	if doc.Metadata.Pages != 2 || doc.Metadata.ErrorCount != 1 {
		t.Fatalf("annotations not persisted: %+v", doc.Metadata)
	}
	if doc.Summary == nil || doc.Summary.TotalCount != 3 || doc.Summary.AverageRating == nil {
		t.Fatalf("unexpected summary: %+v", doc.Summary)
	}
}

func TestBuildDocumentEmpty(t *testing.T) {
	doc := BuildDocument(nil, models.DocumentMetadata{})
	if len(doc.Products) != 0 || doc.Products == nil {
		t.Fatalf("expected empty, non-nil products")
	}
	if !doc.Summary.NoData {
		t.Fatalf("expected no-data summary")
	}
}
