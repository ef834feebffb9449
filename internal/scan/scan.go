// Package scan runs the weekend price sweep and the minimum-price reduction.
package scan

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jimezsa/rentcli/internal/marketplace"
	"github.com/jimezsa/rentcli/internal/models"
)

// ListingCache lets a scan reuse recent lookups for identical criteria.
type ListingCache interface {
	Get(ctx context.Context, provider string, criteria models.Criteria) ([]models.Listing, bool)
	Set(ctx context.Context, provider string, criteria models.Criteria, listings []models.Listing)
}

// Failure records one provider lookup that produced no usable listings.
type Failure struct {
	Window         models.Window
	Provider       string
	Err            error
	NotImplemented bool
}

// WindowResult is the outcome of one weekend window.
type WindowResult struct {
	Window   models.Window
	Listings []models.Listing
	Quote    *models.Quote
	Failures []Failure
}

// Report is the full scan outcome.
type Report struct {
	Results  []WindowResult
	Cheapest *models.Quote
}

// NoDeals reports whether no window yielded a quote.
func (r Report) NoDeals() bool {
	return r.Cheapest == nil
}

// Quotes returns the per-window quotes that were actually obtained.
func (r Report) Quotes() []models.Quote {
	quotes := make([]models.Quote, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Quote != nil {
			quotes = append(quotes, *res.Quote)
		}
	}
	return quotes
}

// Failures collects every per-provider failure across windows.
func (r Report) Failures() []Failure {
	var failures []Failure
	for _, res := range r.Results {
		failures = append(failures, res.Failures...)
	}
	return failures
}

type Scanner struct {
	Providers []marketplace.Provider
	Cache     ListingCache
	Logger    zerolog.Logger
}

func New(providers []marketplace.Provider) *Scanner {
	return &Scanner{Providers: providers, Logger: zerolog.Nop()}
}

// Run sweeps the windows in order. A failed window never aborts the scan;
// it is recorded and the remaining windows are still queried.
func (s *Scanner) Run(ctx context.Context, base models.Criteria, windows []models.Window) Report {
	report := Report{Results: make([]WindowResult, 0, len(windows))}

	for _, window := range windows {
		criteria := base
		criteria.Window = window

		s.Logger.Debug().
			Str("window", window.Label()).
			Str("zip", criteria.ZipCode).
			Msg("scanning weekend")

		result := s.scanWindow(ctx, criteria)
		report.Results = append(report.Results, result)

		if result.Quote == nil {
			continue
		}
		if report.Cheapest == nil || result.Quote.DailyPrice < report.Cheapest.DailyPrice {
			quote := *result.Quote
			report.Cheapest = &quote
		}
	}

	return report
}

func (s *Scanner) scanWindow(ctx context.Context, criteria models.Criteria) WindowResult {
	result := WindowResult{Window: criteria.Window}

	var (
		wg      sync.WaitGroup
		results = make(chan providerResult, len(s.Providers))
	)

	for _, provider := range s.Providers {
		wg.Add(1)
		go func(provider marketplace.Provider) {
			defer wg.Done()
			listings, err := s.search(ctx, provider, criteria)
			results <- providerResult{provider: provider.Name(), listings: listings, err: err}
		}(provider)
	}

	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			result.Failures = append(result.Failures, Failure{
				Window:         criteria.Window,
				Provider:       res.provider,
				Err:            res.err,
				NotImplemented: errors.Is(res.err, marketplace.ErrNotImplemented),
			})
			continue
		}
		result.Listings = append(result.Listings, res.listings...)
	}

	sortListings(result.Listings)
	sortFailures(result.Failures)

	if len(result.Listings) > 0 {
		best := result.Listings[0]
		result.Quote = &models.Quote{
			Window:     criteria.Window,
			Listing:    best,
			DailyPrice: best.DailyPrice,
		}
	}

	return result
}

func (s *Scanner) search(ctx context.Context, provider marketplace.Provider, criteria models.Criteria) ([]models.Listing, error) {
	if s.Cache != nil {
		if listings, ok := s.Cache.Get(ctx, provider.Name(), criteria); ok {
			s.Logger.Debug().
				Str("provider", provider.Name()).
				Str("window", criteria.Window.Label()).
				Msg("cache hit")
			return listings, nil
		}
	}

	listings, err := provider.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, provider.Name(), criteria, listings)
	}
	return listings, nil
}

type providerResult struct {
	provider string
	listings []models.Listing
	err      error
}

// sortListings orders by price, then URL, so repeated scans against a stable
// feed report the same cheapest listing.
func sortListings(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].DailyPrice != listings[j].DailyPrice {
			return listings[i].DailyPrice < listings[j].DailyPrice
		}
		return listings[i].URL < listings[j].URL
	})
}

func sortFailures(failures []Failure) {
	sort.SliceStable(failures, func(i, j int) bool {
		return strings.ToLower(failures[i].Provider) < strings.ToLower(failures[j].Provider)
	})
}
