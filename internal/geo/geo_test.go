package geo

import (
	"strings"
	"testing"
)

func TestValidateZip(t *testing.T) {
	t.Run("five digits", func(t *testing.T) {
		got, err := ValidateZip(" 94040 ")
		if err != nil {
			t.Fatalf("ValidateZip() error = %v", err)
		}
		if got != "94040" {
			t.Fatalf("ValidateZip() = %q, want %q", got, "94040")
		}
	})

	t.Run("zip plus four truncates", func(t *testing.T) {
		got, err := ValidateZip("94040-1234")
		if err != nil {
			t.Fatalf("ValidateZip() error = %v", err)
		}
		if got != "94040" {
			t.Fatalf("ValidateZip() = %q, want %q", got, "94040")
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, input := range []string{"", "9404", "940400", "abcde", "94040-12"} {
			if _, err := ValidateZip(input); err == nil {
				t.Fatalf("ValidateZip(%q) error = nil, want error", input)
			}
		}
	})
}

func TestParseLocation(t *testing.T) {
	payload := `{
		"post code": "94040",
		"country": "United States",
		"places": [
			{"place name": "Mountain View", "state abbreviation": "CA", "latitude": "37.3855", "longitude": "-122.0881"}
		]
	}`

	loc, err := parseLocation([]byte(payload))
	if err != nil {
		t.Fatalf("parseLocation() error = %v", err)
	}
	if loc.ZipCode != "94040" || loc.PlaceName != "Mountain View" || loc.State != "CA" {
		t.Fatalf("unexpected location: %#v", loc)
	}
	if loc.Latitude != 37.3855 || loc.Longitude != -122.0881 {
		t.Fatalf("unexpected coordinates: %f, %f", loc.Latitude, loc.Longitude)
	}
}

func TestParseLocationErrors(t *testing.T) {
	if _, err := parseLocation([]byte(`{"places": []}`)); err == nil {
		t.Fatalf("parseLocation() error = nil, want no-places error")
	}
	if _, err := parseLocation([]byte(`{`)); err == nil || !strings.Contains(err.Error(), "parse zip lookup response") {
		t.Fatalf("parseLocation() error = %v, want parse error", err)
	}
	bad := `{"post code":"94040","places":[{"latitude":"north","longitude":"-122"}]}`
	if _, err := parseLocation([]byte(bad)); err == nil {
		t.Fatalf("parseLocation() error = nil, want latitude parse error")
	}
}
