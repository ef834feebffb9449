// Package sink uploads scan results to BigQuery for later analysis.
package sink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"

	"github.com/jimezsa/rentcli/internal/models"
)

type BigQuery struct {
	client *bigquery.Client
	logger zerolog.Logger
}

// NewBigQuery authenticates with GOOGLE_APPLICATION_CREDENTIALS and detects
// the project from them.
func NewBigQuery(ctx context.Context, logger zerolog.Logger) (*BigQuery, error) {
	client, err := bigquery.NewClient(ctx, bigquery.DetectProjectID)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}
	return &BigQuery{client: client, logger: logger}, nil
}

func (b *BigQuery) Close() error {
	return b.client.Close()
}

type listingRow struct {
	DateAccessed    time.Time `bigquery:"date_accessed"`
	Weekend         time.Time `bigquery:"weekend"`
	Provider        string    `bigquery:"provider"`
	URL             string    `bigquery:"vehicle_url"`
	Make            string    `bigquery:"make"`
	Model           string    `bigquery:"model"`
	Year            int       `bigquery:"vehicle_year"`
	Trim            string    `bigquery:"trim"`
	DailyPrice      float64   `bigquery:"average_daily_price"`
	Currency        string    `bigquery:"currency"`
	Rating          float64   `bigquery:"rating"`
	ReviewCount     int       `bigquery:"review_count"`
	TripsTaken      int       `bigquery:"renter_trips_taken"`
	AllStarHost     bool      `bigquery:"all_star_host"`
	InstantBook     bool      `bigquery:"instant_book"`
	Latitude        float64   `bigquery:"latitude"`
	Longitude       float64   `bigquery:"longitude"`
	Description     string    `bigquery:"description"`
	DayMiles        string    `bigquery:"day_miles"`
	WeekMiles       string    `bigquery:"week_miles"`
	MonthMiles      string    `bigquery:"month_miles"`
	PerformanceHits int       `bigquery:"performance_score"`
}

// Upload replaces the per-weekend table under the zip code's dataset with
// the scanned listings and returns the fully qualified table id.
func (b *BigQuery) Upload(ctx context.Context, zipCode string, window models.Window, listings []models.Listing) (string, error) {
	dataset := b.client.Dataset(zipCode)
	if err := b.ensureDataset(ctx, dataset); err != nil {
		return "", err
	}

	table := dataset.Table(window.TableName())
	if err := b.replaceTable(ctx, table); err != nil {
		return "", err
	}

	rows := make([]listingRow, 0, len(listings))
	accessed := time.Now().UTC()
	for _, listing := range listings {
		rows = append(rows, rowFromListing(listing, window, accessed))
	}

	if err := table.Inserter().Put(ctx, rows); err != nil {
		return "", fmt.Errorf("insert listings: %w", err)
	}

	tableID := fmt.Sprintf("%s.%s.%s", b.client.Project(), zipCode, window.TableName())
	b.logger.Info().Str("table", tableID).Int("rows", len(rows)).Msg("uploaded listings")
	return tableID, nil
}

func (b *BigQuery) ensureDataset(ctx context.Context, dataset *bigquery.Dataset) error {
	_, err := dataset.Metadata(ctx)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("check dataset %s: %w", dataset.DatasetID, err)
	}

	if err := dataset.Create(ctx, &bigquery.DatasetMetadata{Location: "US"}); err != nil {
		return fmt.Errorf("create dataset %s: %w", dataset.DatasetID, err)
	}
	b.logger.Info().Str("dataset", dataset.DatasetID).Msg("created dataset")
	return nil
}

// replaceTable emulates a truncating load: the weekend table always holds
// only the latest scan.
func (b *BigQuery) replaceTable(ctx context.Context, table *bigquery.Table) error {
	if err := table.Delete(ctx); err != nil && !isNotFound(err) {
		return fmt.Errorf("drop table %s: %w", table.TableID, err)
	}

	schema, err := bigquery.InferSchema(listingRow{})
	if err != nil {
		return fmt.Errorf("infer schema: %w", err)
	}
	if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		return fmt.Errorf("create table %s: %w", table.TableID, err)
	}
	return nil
}

func rowFromListing(listing models.Listing, window models.Window, accessed time.Time) listingRow {
	return listingRow{
		DateAccessed:    accessed,
		Weekend:         window.Start,
		Provider:        listing.Provider,
		URL:             listing.URL,
		Make:            listing.Make,
		Model:           listing.Model,
		Year:            listing.Year,
		Trim:            listing.Trim,
		DailyPrice:      listing.DailyPrice,
		Currency:        listing.Currency,
		Rating:          listing.Rating,
		ReviewCount:     listing.ReviewCount,
		TripsTaken:      listing.TripsTaken,
		AllStarHost:     listing.AllStarHost,
		InstantBook:     listing.InstantBook,
		Latitude:        listing.Latitude,
		Longitude:       listing.Longitude,
		Description:     listing.Description,
		DayMiles:        listing.DayMiles,
		WeekMiles:       listing.WeekMiles,
		MonthMiles:      listing.MonthMiles,
		PerformanceHits: listing.PerformanceHits,
	}
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
