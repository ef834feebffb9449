package cmd

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/rentcli/internal/export"
	"github.com/jimezsa/rentcli/internal/history"
	"github.com/jimezsa/rentcli/internal/models"
	"github.com/jimezsa/rentcli/internal/scan"
)

func testQuote(url string, start string, price float64) models.Quote {
	day, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}
	return models.Quote{
		Window:     models.Window{Start: day, End: day.AddDate(0, 0, 1)},
		Listing:    models.Listing{Provider: "turo", URL: url, DailyPrice: price, Currency: "USD"},
		DailyPrice: price,
	}
}

func TestResolveFormatWithOutputPathRespectsGlobalFlags(t *testing.T) {
	ctx := &Context{Out: io.Discard, JSONOutput: true}
	got, err := resolveFormat(ctx, ScanOptions{}, "quotes.json")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatJSON {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatJSON)
	}

	ctx = &Context{Out: io.Discard, PlainText: true}
	got, err = resolveFormat(ctx, ScanOptions{}, "quotes.tsv")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatTSV {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatTSV)
	}
}

func TestResolveFormatDefaultsToCSVForFiles(t *testing.T) {
	ctx := &Context{Out: io.Discard}
	got, err := resolveFormat(ctx, ScanOptions{}, "quotes.out")
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatCSV {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatCSV)
	}
}

func TestParseFormatUnknown(t *testing.T) {
	if _, err := parseFormat("yaml"); err == nil {
		t.Fatalf("parseFormat(yaml) error = nil, want error")
	}
}

func TestUpdateQuoteHistoryCreatesFileAndMerges(t *testing.T) {
	dir := t.TempDir()
	historyPath := filepath.Join(dir, "quotes_seen.json")

	input := []models.Quote{
		testQuote("https://turo.com/car-rental/1", "2026-08-29", 45),
	}

	if err := updateQuoteHistory(historyPath, input); err != nil {
		t.Fatalf("updateQuoteHistory() error = %v", err)
	}

	got, err := history.ReadQuotes(historyPath)
	if err != nil {
		t.Fatalf("ReadQuotes() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}

	// Calling it again with the same quote should be idempotent.
	if err := updateQuoteHistory(historyPath, input); err != nil {
		t.Fatalf("updateQuoteHistory() (2nd) error = %v", err)
	}
	got, err = history.ReadQuotes(historyPath)
	if err != nil {
		t.Fatalf("ReadQuotes() (2nd) error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) after 2nd update = %d, want 1", len(got))
	}

	input2 := []models.Quote{
		testQuote("https://turo.com/car-rental/1", "2026-08-29", 45),
		testQuote("https://turo.com/car-rental/2", "2026-09-05", 39),
	}
	if err := updateQuoteHistory(historyPath, input2); err != nil {
		t.Fatalf("updateQuoteHistory() (3rd) error = %v", err)
	}
	got, err = history.ReadQuotes(historyPath)
	if err != nil {
		t.Fatalf("ReadQuotes() (3rd) error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) after 3rd update = %d, want 2", len(got))
	}
}

func TestFormatScanSummary(t *testing.T) {
	t.Run("no deals", func(t *testing.T) {
		got := formatScanSummary(scan.Report{})
		if got != "no deals found" {
			t.Fatalf("formatScanSummary() = %q, want %q", got, "no deals found")
		}
	})

	t.Run("cheapest quote", func(t *testing.T) {
		quote := testQuote("https://turo.com/car-rental/2", "2026-09-05", 39)
		got := formatScanSummary(scan.Report{Cheapest: &quote})
		want := "cheapest: 2026-09-05..2026-09-06 at $39.00/day https://turo.com/car-rental/2"
		if got != want {
			t.Fatalf("formatScanSummary() = %q, want %q", got, want)
		}
	})
}

func TestRunScanValidation(t *testing.T) {
	ctx := &Context{Out: io.Discard, Err: io.Discard}

	t.Run("new-only requires history", func(t *testing.T) {
		err := runScan(ctx, "94040", 2, "all", ScanOptions{NewOnly: true})
		if err == nil || !strings.Contains(err.Error(), "--new-only requires --history") {
			t.Fatalf("runScan() error = %v, want --new-only validation", err)
		}
	})

	t.Run("history-update requires history", func(t *testing.T) {
		err := runScan(ctx, "94040", 2, "all", ScanOptions{HistoryUpdate: true})
		if err == nil || !strings.Contains(err.Error(), "--history-update requires --history") {
			t.Fatalf("runScan() error = %v, want --history-update validation", err)
		}
	})

	t.Run("invalid zip fails fast", func(t *testing.T) {
		err := runScan(ctx, "abc", 2, "all", ScanOptions{})
		if err == nil || !strings.Contains(err.Error(), "not a valid US zip code") {
			t.Fatalf("runScan() error = %v, want zip validation", err)
		}
	})

	t.Run("weekend count bounds", func(t *testing.T) {
		if err := runScan(ctx, "94040", 0, "all", ScanOptions{}); err == nil {
			t.Fatalf("runScan(0 weekends) error = nil, want error")
		}
		if err := runScan(ctx, "94040", 53, "all", ScanOptions{}); err == nil {
			t.Fatalf("runScan(53 weekends) error = nil, want error")
		}
	})
}

func TestFirstNonEmptyAndDefaultInt(t *testing.T) {
	if got := firstNonEmpty(" ", "", "Model 3", "Model Y"); got != "Model 3" {
		t.Fatalf("firstNonEmpty() = %q, want %q", got, "Model 3")
	}
	if got := defaultInt(0, 20); got != 20 {
		t.Fatalf("defaultInt(0, 20) = %d, want 20", got)
	}
	if got := defaultInt(5, 20); got != 5 {
		t.Fatalf("defaultInt(5, 20) = %d, want 5", got)
	}
}
