package history

import (
	"testing"
	"time"

	"github.com/jimezsa/rentcli/internal/models"
)

func quote(url string, start string, price float64) models.Quote {
	day, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}
	return models.Quote{
		Window:     models.Window{Start: day, End: day.AddDate(0, 0, 1)},
		Listing:    models.Listing{Provider: "turo", URL: url, DailyPrice: price},
		DailyPrice: price,
	}
}

func TestKey(t *testing.T) {
	q := quote("https://turo.com/car-rental/1", "2026-08-29", 45)
	key, ok := Key(q)
	if !ok {
		t.Fatalf("Key() ok = false, want true")
	}
	if key != "https://turo.com/car-rental/1::2026-08-29" {
		t.Fatalf("Key() = %q", key)
	}

	q.Listing.URL = "  "
	if _, ok := Key(q); ok {
		t.Fatalf("Key() without URL ok = true, want false")
	}

	q = quote("https://turo.com/car-rental/1", "2026-08-29", 45)
	q.Window = models.Window{}
	if _, ok := Key(q); ok {
		t.Fatalf("Key() without window ok = true, want false")
	}
}

func TestKeyNormalizesURLCase(t *testing.T) {
	a := quote("https://turo.com/CAR-rental/1", "2026-08-29", 45)
	b := quote(" https://turo.com/car-rental/1 ", "2026-08-29", 39)

	keyA, _ := Key(a)
	keyB, _ := Key(b)
	if keyA != keyB {
		t.Fatalf("keys differ: %q vs %q", keyA, keyB)
	}
}

func TestDiff(t *testing.T) {
	seen := []models.Quote{
		quote("https://turo.com/car-rental/1", "2026-08-29", 45),
	}
	fresh := []models.Quote{
		quote("https://turo.com/car-rental/1", "2026-08-29", 45), // already seen
		quote("https://turo.com/car-rental/1", "2026-09-05", 41), // same car, new weekend
		quote("https://turo.com/car-rental/2", "2026-08-29", 39), // new car
		quote("", "2026-08-29", 10),                              // invalid
		quote("https://turo.com/car-rental/2", "2026-08-29", 39), // duplicate
	}

	unseen, stats := Diff(fresh, seen)
	if len(unseen) != 2 {
		t.Fatalf("len(unseen) = %d, want 2", len(unseen))
	}
	if stats.TotalNew != 5 || stats.TotalSeen != 1 {
		t.Fatalf("unexpected totals: %#v", stats)
	}
	if stats.InvalidNew != 1 {
		t.Fatalf("InvalidNew = %d, want 1", stats.InvalidNew)
	}
	if stats.Unseen != 2 {
		t.Fatalf("Unseen = %d, want 2", stats.Unseen)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := []models.Quote{
		quote("https://turo.com/car-rental/1", "2026-08-29", 45),
	}
	input := []models.Quote{
		quote("https://turo.com/car-rental/1", "2026-08-29", 45),
		quote("https://turo.com/car-rental/2", "2026-09-05", 39),
	}

	merged, stats := Merge(existing, input)
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	if stats.Added != 1 {
		t.Fatalf("Added = %d, want 1", stats.Added)
	}

	again, stats := Merge(merged, input)
	if len(again) != 2 {
		t.Fatalf("len(again) = %d, want 2", len(again))
	}
	if stats.Added != 0 {
		t.Fatalf("Added on repeat = %d, want 0", stats.Added)
	}
}

func TestMergeKeepsInvalidExistingEntries(t *testing.T) {
	existing := []models.Quote{
		quote("", "2026-08-29", 45), // invalid but preserved
	}
	input := []models.Quote{
		quote("https://turo.com/car-rental/2", "2026-09-05", 39),
	}

	merged, stats := Merge(existing, input)
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	if stats.InvalidSeen != 1 {
		t.Fatalf("InvalidSeen = %d, want 1", stats.InvalidSeen)
	}
}
