package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aluiziolira/go-scrape-products/config"
	"github.com/aluiziolira/go-scrape-products/extract"
	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/pipeline"
	"github.com/aluiziolira/go-scrape-products/summary"
)

// extract parses a saved search results page (HTML or JSON) and writes the
// product document without touching the network.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "Saved search results page (defaults to first argument, - for stdin)")
	output := flag.String("output", "", "Output file (defaults to stdout)")
	query := flag.String("query", "", "Search term recorded in the document metadata")
	page := flag.Int("page", 1, "Results page number stamped on each record")
	maxContainers := flag.Int("max-containers", 0, "Cap on product containers parsed (0 = no cap)")
	minRating := flag.Float64("min-rating", 0, "Keep products rated at least this value")
	minPrice := flag.Float64("min-price", 0, "Keep products priced at least this value")
	maxPrice := flag.Float64("max-price", 0, "Keep products priced at most this value (0 = no limit)")
	sponsored := flag.String("sponsored", "", "Keep only sponsored (true) or organic (false) products")
	brands := flag.Bool("brands", false, "Print a per-brand breakdown to stderr")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger := newLogger(*verbose)
	slog.SetDefault(logger)

	path := *input
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path == "" {
		slog.Error("no input page given")
		flag.Usage()
		os.Exit(2)
	}

	body, err := readInput(path)
	if err != nil {
		slog.Error("reading input", slog.String("path", path), slog.Any("error", err))
		os.Exit(1)
	}

	parser := extract.NewParser(logger, nil, *maxContainers)
	result := parser.ParseBatch(body, extract.WithPage(*page))
	for _, e := range result.Errors {
		slog.Warn("item error",
			slog.Int("index", e.Index),
			slog.String("kind", e.Kind),
			slog.String("field", e.Field),
			slog.String("reason", e.Reason),
		)
	}

	records := result.Records
	if *minPrice > 0 || *maxPrice > 0 {
		records = summary.FilterByPriceRange(records, *minPrice, *maxPrice)
	}
	if *minRating > 0 {
		records = summary.FilterByRating(records, *minRating)
	}
	if *sponsored != "" {
		want, err := strconv.ParseBool(*sponsored)
		if err != nil {
			slog.Error("invalid -sponsored value", slog.String("value", *sponsored))
			os.Exit(2)
		}
		records = summary.FilterSponsored(records, want)
	}

	doc := pipeline.BuildDocument(records, models.DocumentMetadata{
		SearchTerm: *query,
		Source:     result.Source,
		RunID:      uuid.NewString(),
		ScrapedAt:  time.Now().UTC(),
		Pages:      1,
		ErrorCount: len(result.Errors),
	})

	if err := writeDocument(doc, *output); err != nil {
		slog.Error("writing document", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("extraction complete",
		slog.String("source", result.Source),
		slog.Int("containers", result.Containers),
		slog.Int("records", len(result.Records)),
		slog.Int("kept", len(records)),
		slog.Int("errors", len(result.Errors)),
	)

	if *brands {
		printBrands(os.Stderr, summary.BrandBreakdown(records))
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeDocument(doc *models.BatchDocument, output string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(output, data, 0o644)
}

func printBrands(w io.Writer, counts []summary.BrandCount) {
	fmt.Fprintln(w, "Brand breakdown")
	for _, bc := range counts {
		rating := "-"
		if bc.AverageRating != nil {
			rating = strconv.FormatFloat(*bc.AverageRating, 'f', 2, 64)
		}
		fmt.Fprintf(w, "  %-24s %4d  avg price %8.2f  avg rating %s\n", bc.Brand, bc.Count, bc.AveragePrice, rating)
	}
}

// newLogger writes to stderr so stdout stays a clean JSON document.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if isTerminal(os.Stderr) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
