package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/jimezsa/rentcli/internal/models"
	"github.com/jimezsa/rentcli/internal/ui"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// WriteQuotes renders the per-weekend quotes in the requested format.
func WriteQuotes(w io.Writer, quotes []models.Quote, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, quotes)
	case FormatCSV:
		return writeCSV(w, quotes, ',')
	case FormatTSV:
		return writeCSV(w, quotes, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, quotes)
	default:
		return writeTable(w, quotes, opts)
	}
}

func writeJSON(w io.Writer, quotes []models.Quote) error {
	if quotes == nil {
		quotes = []models.Quote{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(quotes)
}

func writeCSV(w io.Writer, quotes []models.Quote, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, quote := range quotes {
		if err := writer.Write(csvRow(quote)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, quotes []models.Quote, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, quote := range quotes {
		fmt.Fprintln(tw, strings.Join(tableRow(quote, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, quotes []models.Quote) error {
	if len(quotes) == 0 {
		_, err := fmt.Fprintln(w, "No quotes.")
		return err
	}
	for _, quote := range quotes {
		urlLine := "  URL: -"
		if link := safe(quote.Listing.URL); link != "" {
			urlLine = fmt.Sprintf("  URL: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** at %s/day", quote.Window.Label(), FormatPrice(quote.DailyPrice, quote.Listing.Currency)),
			fmt.Sprintf("  Vehicle: %s", vehicleLabel(quote.Listing)),
			fmt.Sprintf("  Provider: %s", safe(quote.Listing.Provider)),
			urlLine,
		}
		if quote.Listing.Rating > 0 {
			lines = append(lines, fmt.Sprintf("  Rating: %.1f (%d reviews)", quote.Listing.Rating, quote.Listing.ReviewCount))
		}
		if quote.Listing.TripsTaken > 0 {
			lines = append(lines, fmt.Sprintf("  Trips: %d", quote.Listing.TripsTaken))
		}
		if quote.Listing.AllStarHost {
			lines = append(lines, "  All-star host: yes")
		}
		if quote.Listing.DayMiles != "" {
			lines = append(lines, fmt.Sprintf("  Miles/day: %s", safe(quote.Listing.DayMiles)))
		}
		if quote.Listing.Description != "" {
			lines = append(lines, fmt.Sprintf("  Summary: %s", truncate(safe(quote.Listing.Description), 240)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatPrice renders a daily price with its currency symbol or code.
func FormatPrice(price float64, currency string) string {
	amount := strconv.FormatFloat(price, 'f', 2, 64)
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "", "USD":
		return "$" + amount
	default:
		return amount + " " + strings.ToUpper(currency)
	}
}

func csvHeader() []string {
	return []string{
		"weekend_start",
		"weekend_end",
		"provider",
		"daily_price",
		"currency",
		"year",
		"make",
		"model",
		"trim",
		"rating",
		"review_count",
		"trips_taken",
		"all_star_host",
		"instant_book",
		"url",
	}
}

func csvRow(quote models.Quote) []string {
	listing := quote.Listing
	return []string{
		quote.Window.Start.Format("2006-01-02"),
		quote.Window.End.Format("2006-01-02"),
		listing.Provider,
		strconv.FormatFloat(quote.DailyPrice, 'f', 2, 64),
		listing.Currency,
		intString(listing.Year),
		listing.Make,
		listing.Model,
		listing.Trim,
		floatString(listing.Rating),
		intString(listing.ReviewCount),
		intString(listing.TripsTaken),
		boolString(listing.AllStarHost),
		boolString(listing.InstantBook),
		listing.URL,
	}
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func intString(value int) string {
	if value == 0 {
		return ""
	}
	return strconv.Itoa(value)
}

func floatString(value float64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func vehicleLabel(listing models.Listing) string {
	parts := make([]string, 0, 4)
	if listing.Year > 0 {
		parts = append(parts, strconv.Itoa(listing.Year))
	}
	if listing.Make != "" {
		parts = append(parts, listing.Make)
	}
	if listing.Model != "" {
		parts = append(parts, listing.Model)
	}
	if listing.Trim != "" {
		parts = append(parts, listing.Trim)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func tableHeader() []string {
	return []string{
		"weekend",
		"price/day",
		"vehicle",
		"url",
	}
}

func tableRow(quote models.Quote, output *termenv.Output, opts WriteOptions) []string {
	link := safe(quote.Listing.URL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		displayURL = ui.ColorizeLink(output, opts.ColorEnabled, displayURL)
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}

	price := ui.ColorizePrice(output, opts.ColorEnabled, FormatPrice(quote.DailyPrice, quote.Listing.Currency))

	return []string{
		quote.Window.Label(),
		price,
		vehicleLabel(quote.Listing),
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}

func truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return strings.TrimSpace(value[:max]) + "..."
}
