package marketplace

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jimezsa/rentcli/internal/models"
)

var (
	trimPattern    = regexp.MustCompile(`(performance)|(standard)|(long)`)
	mileagePattern = regexp.MustCompile(
		`Distance includedDay(\d+ mi|Unlimited)Week(\d+ mi|Unlimited)Month(\d+ mi|Unlimited)`)
)

// enrichListing fetches the vehicle page for details the search result omits.
func (t *Turo) enrichListing(ctx context.Context, listing *models.Listing) error {
	if listing.URL == "" {
		return fmt.Errorf("listing has no URL")
	}

	var doc *goquery.Document
	err := t.backoff.Retry(ctx, func() error {
		var fetchErr error
		doc, fetchErr = fetchDocument(ctx, t.client, listing.URL, nil)
		return fetchErr
	})
	if err != nil {
		return err
	}

	parseTuroDetails(doc, listing)
	return nil
}

func parseTuroDetails(doc *goquery.Document, listing *models.Listing) {
	if trim := detectTrim(doc); trim != "" {
		listing.Trim = trim
		if trim == "performance" {
			listing.PerformanceHits++
		}
	}

	doc.Find("div.vehicleDetails-descriptionText").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		listing.Description = cleanText(printable(s.Text()))
		return false
	})
	if strings.Contains(strings.ToLower(listing.Description), "performance") {
		listing.PerformanceHits++
	}

	doc.Find("div.reservationBox").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if match := mileagePattern.FindStringSubmatch(s.Text()); match != nil {
			listing.DayMiles = match[1]
			listing.WeekMiles = match[2]
			listing.MonthMiles = match[3]
		}
		return false
	})
}

func detectTrim(doc *goquery.Document) string {
	var trims []string
	doc.Find("div.vehicleLabel").Each(func(_ int, s *goquery.Selection) {
		match := trimPattern.FindStringSubmatch(strings.ToLower(s.Text()))
		if match == nil {
			return
		}
		for _, group := range match[1:] {
			if group != "" {
				trims = append(trims, group)
				return
			}
		}
	})
	if len(trims) == 0 {
		return ""
	}
	return trims[0]
}
