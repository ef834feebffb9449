package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/jimezsa/rentcli/internal/cache"
	"github.com/jimezsa/rentcli/internal/config"
	"github.com/jimezsa/rentcli/internal/export"
	"github.com/jimezsa/rentcli/internal/geo"
	"github.com/jimezsa/rentcli/internal/history"
	"github.com/jimezsa/rentcli/internal/marketplace"
	"github.com/jimezsa/rentcli/internal/models"
	"github.com/jimezsa/rentcli/internal/network"
	"github.com/jimezsa/rentcli/internal/scan"
	"github.com/jimezsa/rentcli/internal/sink"
	"github.com/jimezsa/rentcli/internal/weekend"
)

type ScanCmd struct {
	ZipCode           string `name:"zip_code" required:"" help:"US zip code to search around."`
	NumFutureWeekends int    `name:"num_future_weekends" required:"" help:"How many upcoming weekends to scan (1-52)."`
	Providers         string `help:"Comma-separated list of providers (default: all)." default:"all"`
	ScanOptions
}

type SiteScanCmd struct {
	ZipCode           string `name:"zip_code" required:"" help:"US zip code to search around."`
	NumFutureWeekends int    `name:"num_future_weekends" required:"" help:"How many upcoming weekends to scan (1-52)."`
	ScanOptions
	Provider string `kong:"-"`
}

type ScanOptions struct {
	Make          string `help:"Vehicle make filter." env:"RENTCLI_DEFAULT_MAKE"`
	Model         string `help:"Vehicle model filter." env:"RENTCLI_DEFAULT_MODEL"`
	MaxMiles      int    `name:"max_miles" help:"Maximum search radius in miles."`
	Details       bool   `help:"Fetch listing detail pages (trim, description, mileage)."`
	Format        string `help:"Output format: csv, json, md." enum:",csv,json,md,tsv,table" default:""`
	Links         string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output        string `name:"output" short:"o" help:"Write output to a file."`
	Proxies       string `help:"Comma-separated proxy URLs." env:"RENTCLI_PROXIES"`
	NoCache       bool   `help:"Bypass the Redis listing cache."`
	History       string `help:"Path to quote history JSON file."`
	NewOnly       bool   `help:"Output only quotes not in --history."`
	HistoryUpdate bool   `help:"Merge new quotes into --history after the scan."`
	Upload        bool   `help:"Upload scanned listings to BigQuery (requires GOOGLE_APPLICATION_CREDENTIALS)."`
}

func (s *ScanCmd) Run(ctx *Context) error {
	return runScan(ctx, s.ZipCode, s.NumFutureWeekends, s.Providers, s.ScanOptions)
}

func (s *SiteScanCmd) Run(ctx *Context) error {
	return runScan(ctx, s.ZipCode, s.NumFutureWeekends, s.Provider, s.ScanOptions)
}

func runScan(ctx *Context, zipCode string, numWeekends int, providersArg string, opts ScanOptions) error {
	if opts.NewOnly && strings.TrimSpace(opts.History) == "" {
		return fmt.Errorf("--new-only requires --history")
	}
	if opts.HistoryUpdate && strings.TrimSpace(opts.History) == "" {
		return fmt.Errorf("--history-update requires --history")
	}
	if opts.Upload && strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")) == "" {
		return fmt.Errorf("--upload requires GOOGLE_APPLICATION_CREDENTIALS")
	}
	if _, err := geo.ValidateZip(zipCode); err != nil {
		return err
	}

	cfg := ctx.Config
	startDay, err := weekend.ParseStartDay(cfg.WeekendStart)
	if err != nil {
		return err
	}
	windows, err := weekend.Windows(time.Now(), numWeekends, startDay)
	if err != nil {
		return err
	}

	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return err
		}
	}

	registry, err := marketplace.Registry(rotator)
	if err != nil {
		return err
	}
	selected, err := selectProviders(registry, providersArg)
	if err != nil {
		return err
	}

	geoClient, err := network.NewClient(rotator)
	if err != nil {
		return err
	}
	location, err := geo.NewResolver(geoClient).Resolve(context.Background(), zipCode)
	if err != nil {
		return fmt.Errorf("resolve zip code: %w", err)
	}
	ctx.Logger.Debug().
		Str("zip", location.ZipCode).
		Str("place", location.PlaceName).
		Float64("lat", location.Latitude).
		Float64("long", location.Longitude).
		Msg("resolved location")

	criteria := models.Criteria{
		ZipCode:      location.ZipCode,
		Latitude:     location.Latitude,
		Longitude:    location.Longitude,
		Country:      cfg.Country,
		Make:         firstNonEmpty(opts.Make, cfg.DefaultMake),
		Model:        firstNonEmpty(opts.Model, cfg.DefaultModel),
		MaxMiles:     defaultInt(opts.MaxMiles, cfg.DefaultMaxMiles),
		ItemsPerPage: cfg.ItemsPerPage,
		FetchDetails: opts.Details,
	}

	scanner := scan.New(selected)
	scanner.Logger = ctx.Logger
	if listingCache := openCache(ctx, cfg, opts); listingCache != nil {
		defer listingCache.Close()
		scanner.Cache = listingCache
	}

	stopIndicator := startScanIndicator(ctx)
	if stopIndicator != nil {
		defer stopIndicator()
	}

	report := scanner.Run(context.Background(), criteria, windows)

	reportScanFailures(ctx, report.Failures())

	quotes := report.Quotes()

	var unseenQuotes []models.Quote
	if strings.TrimSpace(opts.History) != "" {
		seenQuotes, err := history.ReadQuotesAllowMissing(opts.History)
		if err != nil {
			return fmt.Errorf("read --history: %w", err)
		}
		unseenQuotes, _ = history.Diff(quotes, seenQuotes)
	}

	outputQuotes := quotes
	if opts.NewOnly {
		outputQuotes = unseenQuotes
	}

	outputPath := strings.TrimSpace(opts.Output)
	if outputPath != "" && pathsEqual(outputPath, opts.History) {
		return fmt.Errorf("--output path must differ from --history")
	}

	format, err := resolveFormat(ctx, opts, outputPath)
	if err != nil {
		return err
	}

	writer := ctx.Out
	var file *os.File
	if outputPath != "" {
		file, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	if err := export.WriteQuotes(writer, outputQuotes, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	}); err != nil {
		return err
	}

	if opts.HistoryUpdate && strings.TrimSpace(opts.History) != "" {
		if err := updateQuoteHistory(opts.History, unseenQuotes); err != nil {
			return err
		}
	}

	if opts.Upload {
		if err := uploadReport(ctx, location.ZipCode, report); err != nil {
			return err
		}
	}

	printScanSummary(ctx, report)

	return nil
}

func openCache(ctx *Context, cfg config.Config, opts ScanOptions) *cache.ListingCache {
	if opts.NoCache || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}

	listingCache := cache.New(cfg.RedisAddr, time.Duration(cfg.CacheTTLMinutes)*time.Minute, ctx.Logger)
	if err := listingCache.Ping(context.Background()); err != nil {
		ctx.UI.Warnf("cache unavailable at %s: %v", cfg.RedisAddr, err)
		_ = listingCache.Close()
		return nil
	}
	return listingCache
}

func uploadReport(ctx *Context, zipCode string, report scan.Report) error {
	uploader, err := sink.NewBigQuery(context.Background(), ctx.Logger)
	if err != nil {
		return err
	}
	defer uploader.Close()

	var tables []string
	for _, result := range report.Results {
		if len(result.Listings) == 0 {
			continue
		}
		tableID, err := uploader.Upload(context.Background(), zipCode, result.Window, result.Listings)
		if err != nil {
			return fmt.Errorf("upload weekend %s: %w", result.Window.Label(), err)
		}
		tables = append(tables, tableID)
	}

	if len(tables) > 0 {
		ctx.UI.Infof("Uploaded:\n - %s", strings.Join(tables, "\n - "))
	}
	return nil
}

func updateQuoteHistory(historyPath string, inputQuotes []models.Quote) error {
	seenQuotes, err := history.ReadQuotesAllowMissing(historyPath)
	if err != nil {
		return fmt.Errorf("read --history: %w", err)
	}

	mergedQuotes, _ := history.Merge(seenQuotes, inputQuotes)
	if err := history.WriteQuotes(historyPath, mergedQuotes); err != nil {
		return fmt.Errorf("write --history: %w", err)
	}

	return nil
}

func printScanSummary(ctx *Context, report scan.Report) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatScanSummary(report))
}

func formatScanSummary(report scan.Report) string {
	if report.NoDeals() {
		return "no deals found"
	}

	cheapest := report.Cheapest
	return fmt.Sprintf("cheapest: %s at %s/day %s",
		cheapest.Window.Label(),
		export.FormatPrice(cheapest.DailyPrice, cheapest.Listing.Currency),
		cheapest.Listing.URL,
	)
}

func reportScanFailures(ctx *Context, failures []scan.Failure) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	if !ctx.Verbose {
		return
	}

	if len(failures) == 0 {
		return
	}

	ctx.UI.Warnf("\nLookup errors:")
	for _, failure := range failures {
		ctx.UI.Warnf("  %s %s: %v", failure.Window.Label(), failure.Provider, failure.Err)
	}
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func resolveFormat(ctx *Context, opts ScanOptions, outputPath string) (export.Format, error) {
	if outputPath != "" {
		if ctx.JSONOutput {
			return export.FormatJSON, nil
		}
		if ctx.PlainText {
			return export.FormatTSV, nil
		}
		if opts.Format == "" {
			return export.FormatCSV, nil
		}
		return parseFormat(opts.Format)
	}

	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return parseFormat(opts.Format)
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func selectProviders(registry map[string]marketplace.Provider, providersArg string) ([]marketplace.Provider, error) {
	requested := marketplace.NormalizeProviders(strings.Split(providersArg, ","))
	if len(requested) == 0 || (len(requested) == 1 && requested[0] == "all") {
		requested = make([]string, 0, len(registry))
		for name := range registry {
			requested = append(requested, name)
		}
	}

	selected := make([]marketplace.Provider, 0, len(requested))
	for _, name := range requested {
		provider, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown provider: %s", name)
		}
		selected = append(selected, provider)
	}

	return selected, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startScanIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KScanning... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
