package history

import (
	"strings"

	"github.com/jimezsa/rentcli/internal/models"
)

const keySeparator = "::"

// DiffStats captures stats for new-quote filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

// InvalidSkipped returns the total invalid records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidSeen  int
	InvalidInput int
	Added        int
	TotalOut     int
}

// InvalidSkipped returns the total invalid records skipped during merge.
func (s MergeStats) InvalidSkipped() int {
	return s.InvalidSeen + s.InvalidInput
}

// Normalize applies the key normalization.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key builds the vehicle-URL + weekend-start key for a quote. A quote with
// no listing URL or no window can't be tracked across runs.
func Key(quote models.Quote) (string, bool) {
	url := Normalize(quote.Listing.URL)
	if url == "" || quote.Window.Start.IsZero() {
		return "", false
	}
	return url + keySeparator + quote.Window.Start.Format("2006-01-02"), true
}

// Diff returns quotes from newQuotes that are not in the seen history.
func Diff(newQuotes []models.Quote, seenQuotes []models.Quote) ([]models.Quote, DiffStats) {
	stats := DiffStats{
		TotalNew:  len(newQuotes),
		TotalSeen: len(seenQuotes),
	}

	seenKeys := make(map[string]struct{}, len(seenQuotes))
	for _, quote := range seenQuotes {
		key, ok := Key(quote)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		seenKeys[key] = struct{}{}
	}

	newKeys := make(map[string]struct{}, len(newQuotes))
	unseen := make([]models.Quote, 0, len(newQuotes))
	for _, quote := range newQuotes {
		key, ok := Key(quote)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, exists := newKeys[key]; exists {
			continue
		}
		newKeys[key] = struct{}{}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		unseen = append(unseen, quote)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends unique new quotes into the history.
// Existing entries win collisions.
func Merge(existingSeen []models.Quote, inputQuotes []models.Quote) ([]models.Quote, MergeStats) {
	stats := MergeStats{
		TotalSeen:  len(existingSeen),
		TotalInput: len(inputQuotes),
	}

	keys := make(map[string]struct{}, len(existingSeen)+len(inputQuotes))
	out := make([]models.Quote, 0, len(existingSeen)+len(inputQuotes))

	for _, quote := range existingSeen {
		key, ok := Key(quote)
		if !ok {
			stats.InvalidSeen++
			out = append(out, quote)
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, quote)
	}

	for _, quote := range inputQuotes {
		key, ok := Key(quote)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, quote)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
