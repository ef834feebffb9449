package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/rentcli/internal/models"
)

func sampleQuote() models.Quote {
	start := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	return models.Quote{
		Window: models.Window{Start: start, End: start.AddDate(0, 0, 1)},
		Listing: models.Listing{
			Provider:   "turo",
			URL:        "https://turo.com/car-rental/1",
			Make:       "Tesla",
			Model:      "Model 3",
			Year:       2023,
			Trim:       "long",
			DailyPrice: 45.5,
			Currency:   "USD",
		},
		DailyPrice: 45.5,
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(39, "USD"); got != "$39.00" {
		t.Fatalf("FormatPrice(USD) = %q", got)
	}
	if got := FormatPrice(39.5, ""); got != "$39.50" {
		t.Fatalf("FormatPrice(empty currency) = %q", got)
	}
	if got := FormatPrice(50, "cad"); got != "50.00 CAD" {
		t.Fatalf("FormatPrice(CAD) = %q", got)
	}
}

func TestWriteQuotesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQuotes(&buf, []models.Quote{sampleQuote()}, FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteQuotes() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "weekend_start,weekend_end,provider,daily_price") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "2026-08-29,2026-08-30,turo,45.50") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestWriteQuotesJSONAlwaysEmitsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQuotes(&buf, nil, FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("WriteQuotes() error = %v", err)
	}

	var decoded []models.Quote
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("len(decoded) = %d, want 0", len(decoded))
	}
}

func TestWriteQuotesMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQuotes(&buf, []models.Quote{sampleQuote()}, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("WriteQuotes() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "**2026-08-29..2026-08-30** at $45.50/day") {
		t.Fatalf("markdown missing heading: %s", out)
	}
	if !strings.Contains(out, "Vehicle: 2023 Tesla Model 3 long") {
		t.Fatalf("markdown missing vehicle: %s", out)
	}
}

func TestShortURLLabel(t *testing.T) {
	got := shortURLLabel("https://www.turo.com/car-rental/mountain-view/tesla-model-3-12345")
	if got != "turo.com/car-rental/mountain-view/tesla-model-3-12345" {
		t.Fatalf("shortURLLabel() = %q", got)
	}
}
