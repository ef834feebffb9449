package cache

import (
	"testing"
	"time"

	"github.com/jimezsa/rentcli/internal/models"
)

func TestListingKeyShape(t *testing.T) {
	criteria := models.Criteria{
		ZipCode:      "94040",
		Make:         "Tesla",
		Model:        "Model 3",
		MaxMiles:     20,
		ItemsPerPage: 200,
		Window: models.Window{
			Start: time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	got := listingKey("turo", criteria)
	want := "listings:turo:94040:2026-08-29:Tesla:Model 3:20:200:plain"
	if got != want {
		t.Fatalf("listingKey() = %q, want %q", got, want)
	}
}

func TestListingKeySeparatesDetailedScans(t *testing.T) {
	criteria := models.Criteria{
		ZipCode:      "94040",
		Make:         "Tesla",
		Model:        "Model 3",
		MaxMiles:     20,
		ItemsPerPage: 200,
		Window: models.Window{
			Start: time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC),
		},
	}
	detailed := criteria
	detailed.FetchDetails = true

	if listingKey("turo", criteria) == listingKey("turo", detailed) {
		t.Fatalf("detailed scan shares a cache key with a plain scan")
	}
}

func TestListingKeyDistinguishesWindows(t *testing.T) {
	base := models.Criteria{ZipCode: "94040", Make: "Tesla", Model: "Model 3", MaxMiles: 20}

	a := base
	a.Window = models.Window{Start: time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)}
	b := base
	b.Window = models.Window{Start: time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)}

	if listingKey("turo", a) == listingKey("turo", b) {
		t.Fatalf("keys for different windows collide")
	}
}
