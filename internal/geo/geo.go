// Package geo validates US zip codes and resolves them to coordinates.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/jimezsa/rentcli/internal/network"
)

const lookupBaseURL = "https://api.zippopotam.us/us/"

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Location is a resolved postal code.
type Location struct {
	ZipCode   string
	PlaceName string
	State     string
	Latitude  float64
	Longitude float64
}

// ValidateZip checks the shape of a US zip code without a network call.
func ValidateZip(zip string) (string, error) {
	zip = strings.TrimSpace(zip)
	if !zipPattern.MatchString(zip) {
		return "", fmt.Errorf("not a valid US zip code: %q", zip)
	}
	// Lookups only use the 5-digit prefix.
	if idx := strings.IndexByte(zip, '-'); idx > 0 {
		zip = zip[:idx]
	}
	return zip, nil
}

type Resolver struct {
	client  *network.Client
	backoff network.Backoff
}

func NewResolver(client *network.Client) *Resolver {
	return &Resolver{client: client, backoff: network.DefaultBackoff()}
}

// Resolve validates zip and fetches its coordinates.
func (r *Resolver) Resolve(ctx context.Context, zip string) (Location, error) {
	zip, err := ValidateZip(zip)
	if err != nil {
		return Location{}, err
	}

	var body []byte
	err = r.backoff.Retry(ctx, func() error {
		req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, lookupBaseURL+zip, nil)
		if err != nil {
			return err
		}
		req.Header.Set("accept", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == 404 {
			return fmt.Errorf("unknown zip code: %s", zip)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("http %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return Location{}, err
	}

	return parseLocation(body)
}

type lookupResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		PlaceName string `json:"place name"`
		State     string `json:"state abbreviation"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

func parseLocation(data []byte) (Location, error) {
	var decoded lookupResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Location{}, fmt.Errorf("parse zip lookup response: %w", err)
	}
	if len(decoded.Places) == 0 {
		return Location{}, fmt.Errorf("zip lookup returned no places")
	}

	place := decoded.Places[0]
	lat, err := strconv.ParseFloat(place.Latitude, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse latitude %q: %w", place.Latitude, err)
	}
	long, err := strconv.ParseFloat(place.Longitude, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parse longitude %q: %w", place.Longitude, err)
	}

	return Location{
		ZipCode:   decoded.PostCode,
		PlaceName: place.PlaceName,
		State:     place.State,
		Latitude:  lat,
		Longitude: long,
	}, nil
}
