package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aluiziolira/go-scrape-products/config"
	"github.com/aluiziolira/go-scrape-products/extract"
	"github.com/aluiziolira/go-scrape-products/match"
	"github.com/aluiziolira/go-scrape-products/models"
)

// Report is the JSON document written by the match command.
type Report struct {
	RunID       string      `json:"runId"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Left        PageSummary `json:"left"`
	Right       PageSummary `json:"right"`
	MinScore    float64     `json:"minScore"`
	Matches     []MatchRow  `json:"matches"`
}

type PageSummary struct {
	Path    string `json:"path"`
	Source  string `json:"source"`
	Records int    `json:"records"`
	Errors  int    `json:"errors"`
}

type MatchRow struct {
	LeftIdentifier  string                      `json:"leftIdentifier"`
	LeftTitle       string                      `json:"leftTitle"`
	RightIdentifier string                      `json:"rightIdentifier"`
	RightTitle      string                      `json:"rightTitle"`
	Score           float64                     `json:"score"`
	Confidence      match.Confidence            `json:"confidence"`
	Breakdown       map[match.Criterion]float64 `json:"breakdown"`
}

// match pairs the listings of two saved search pages, usually one per
// retailer, and reports the best counterpart for each left-hand product.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	leftPath := flag.String("left", "", "Saved search results page to match from (defaults to first argument)")
	rightPath := flag.String("right", "", "Saved search results page to match against (defaults to second argument)")
	output := flag.String("output", "", "Output file (defaults to stdout)")
	minScore := flag.Float64("min-score", 25, "Drop pairs scoring below this value")
	maxContainers := flag.Int("max-containers", 0, "Cap on product containers parsed per page (0 = no cap)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger := newLogger(*verbose)
	slog.SetDefault(logger)

	if *leftPath == "" && flag.NArg() > 0 {
		*leftPath = flag.Arg(0)
	}
	if *rightPath == "" && flag.NArg() > 1 {
		*rightPath = flag.Arg(1)
	}
	if *leftPath == "" || *rightPath == "" {
		slog.Error("two input pages are required")
		flag.Usage()
		os.Exit(2)
	}

	parser := extract.NewParser(logger, nil, *maxContainers)
	left, leftSummary, err := parsePage(parser, *leftPath)
	if err != nil {
		slog.Error("reading input", slog.String("path", *leftPath), slog.Any("error", err))
		os.Exit(1)
	}
	right, rightSummary, err := parsePage(parser, *rightPath)
	if err != nil {
		slog.Error("reading input", slog.String("path", *rightPath), slog.Any("error", err))
		os.Exit(1)
	}

	pairs := match.NewScorer(match.DefaultWeights()).BestMatches(left, right, *minScore)

	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Left:        leftSummary,
		Right:       rightSummary,
		MinScore:    *minScore,
		Matches:     make([]MatchRow, 0, len(pairs)),
	}
	for _, p := range pairs {
		report.Matches = append(report.Matches, MatchRow{
			LeftIdentifier:  p.Left.Identifier,
			LeftTitle:       p.Left.Title.Full,
			RightIdentifier: p.Right.Identifier,
			RightTitle:      p.Right.Title.Full,
			Score:           p.Score,
			Confidence:      p.Confidence,
			Breakdown:       p.Breakdown,
		})
	}

	if err := writeReport(report, *output); err != nil {
		slog.Error("writing report", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("matching complete",
		slog.Int("left", len(left)),
		slog.Int("right", len(right)),
		slog.Int("matches", len(pairs)),
	)
}

func parsePage(parser *extract.Parser, path string) ([]*models.ProductRecord, PageSummary, error) {
	body, err := readInput(path)
	if err != nil {
		return nil, PageSummary{}, err
	}
	result := parser.ParseBatch(body)
	for _, e := range result.Errors {
		slog.Debug("item error",
			slog.String("path", path),
			slog.Int("index", e.Index),
			slog.String("kind", e.Kind),
			slog.String("reason", e.Reason),
		)
	}
	return result.Records, PageSummary{
		Path:    path,
		Source:  result.Source,
		Records: len(result.Records),
		Errors:  len(result.Errors),
	}, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeReport(report *Report, output string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
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
