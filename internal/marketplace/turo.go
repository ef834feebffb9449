package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jimezsa/rentcli/internal/models"
	"github.com/jimezsa/rentcli/internal/network"
)

const (
	turoRootURL = "https://turo.com"

	// Marketplace search uses fixed pickup/dropoff times.
	pickupTime  = "10:00"
	dropoffTime = "10:00"
)

type Turo struct {
	client  *network.Client
	backoff network.Backoff
}

func NewTuro(client *network.Client) *Turo {
	return &Turo{client: client, backoff: network.DefaultBackoff()}
}

func (t *Turo) Name() string {
	return ProviderTuro
}

func (t *Turo) Search(ctx context.Context, criteria models.Criteria) ([]models.Listing, error) {
	searchURL := buildTuroURL(criteria)

	var body []byte
	err := t.backoff.Retry(ctx, func() error {
		var fetchErr error
		body, fetchErr = fetchBody(ctx, t.client, searchURL, turoHeaders())
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	raw, err := decodeTuroSearch(body)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(raw))
	for _, entry := range raw {
		listing, err := mapTuroListing(entry)
		if err != nil {
			// A listing without a usable price would report $0 and mask
			// every real deal. Drop it.
			continue
		}
		listings = append(listings, listing)
	}

	if criteria.FetchDetails {
		for i := range listings {
			if err := t.enrichListing(ctx, &listings[i]); err != nil {
				// Details are best effort; the search result already has a price.
				continue
			}
		}
	}

	return listings, nil
}

func buildTuroURL(criteria models.Criteria) string {
	values := url.Values{}
	values.Set("country", criteria.Country)
	values.Set("startDate", criteria.Window.StartUS())
	values.Set("startTime", pickupTime)
	values.Set("endDate", criteria.Window.EndUS())
	values.Set("endTime", dropoffTime)
	values.Set("itemsPerPage", strconv.Itoa(criteria.ItemsPerPage))
	values.Set("location", criteria.ZipCode)
	values.Set("locationType", "ZIP")
	values.Set("maximumDistanceInMiles", strconv.Itoa(criteria.MaxMiles))
	values.Set("Latitude", formatCoordinate(criteria.Latitude))
	values.Set("Longitude", formatCoordinate(criteria.Longitude))
	values.Set("sortType", "RELEVANCE")
	values.Set("makes", criteria.Make)
	values.Set("models", criteria.Model)
	return fmt.Sprintf("%s/api/search?%s", turoRootURL, values.Encode())
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func turoHeaders() map[string]string {
	return map[string]string{
		"accept":        "*/*",
		"referer":       turoRootURL + "/search?",
		"pragma":        "no-cache",
		"cache-control": "no-cache",
		"connection":    "keep-alive",
	}
}

type turoSearchResponse struct {
	List []turoListing `json:"list"`
}

type turoListing struct {
	InstantBookDisplayed bool `json:"instantBookDisplayed"`
	Location             struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Owner struct {
		AllStarHost bool `json:"allStarHost"`
	} `json:"owner"`
	Rate struct {
		AverageDailyPrice json.Number `json:"averageDailyPrice"`
		CurrencyCode      string      `json:"currencyCode"`
	} `json:"rate"`
	Rating           json.Number `json:"rating"`
	ReviewCount      int         `json:"reviewCount"`
	RenterTripsTaken int         `json:"renterTripsTaken"`
	Vehicle          struct {
		Make  string `json:"make"`
		Model string `json:"model"`
		Trim  string `json:"trim"`
		Year  int    `json:"year"`
		URL   string `json:"url"`
	} `json:"vehicle"`
}

func decodeTuroSearch(data []byte) ([]turoListing, error) {
	var decoded turoSearchResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return decoded.List, nil
}

func mapTuroListing(entry turoListing) (models.Listing, error) {
	price, err := entry.Rate.AverageDailyPrice.Float64()
	if err != nil {
		return models.Listing{}, fmt.Errorf("listing %q: daily price: %w", entry.Vehicle.URL, err)
	}
	if price <= 0 {
		return models.Listing{}, fmt.Errorf("listing %q: daily price %v out of range", entry.Vehicle.URL, price)
	}
	rating, _ := entry.Rating.Float64()

	return models.Listing{
		Provider:    ProviderTuro,
		URL:         absoluteURL(turoRootURL, entry.Vehicle.URL),
		Make:        entry.Vehicle.Make,
		Model:       entry.Vehicle.Model,
		Year:        entry.Vehicle.Year,
		Trim:        entry.Vehicle.Trim,
		DailyPrice:  price,
		Currency:    entry.Rate.CurrencyCode,
		Rating:      rating,
		ReviewCount: entry.ReviewCount,
		TripsTaken:  entry.RenterTripsTaken,
		AllStarHost: entry.Owner.AllStarHost,
		InstantBook: entry.InstantBookDisplayed,
		Latitude:    entry.Location.Latitude,
		Longitude:   entry.Location.Longitude,
	}, nil
}
