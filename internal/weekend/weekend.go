// Package weekend enumerates upcoming weekend rental windows.
package weekend

import (
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/rentcli/internal/models"
)

// MaxWindows bounds the scan so a typo can't turn into hundreds of API calls.
const MaxWindows = 52

// ParseStartDay accepts the configurable weekend start day.
func ParseStartDay(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "saturday", "sat":
		return time.Saturday, nil
	case "friday", "fri":
		return time.Friday, nil
	default:
		return time.Saturday, fmt.Errorf("unsupported weekend start day: %s (want friday or saturday)", value)
	}
}

// Windows returns n weekend windows starting from the weekend containing or
// following `from`. Each window runs startDay..Sunday of one calendar week;
// successive windows are exactly a week apart. If `from` already falls on
// startDay, that weekend is included.
func Windows(from time.Time, n int, startDay time.Weekday) ([]models.Window, error) {
	if n < 1 {
		return nil, fmt.Errorf("number of weekends must be at least 1, got %d", n)
	}
	if n > MaxWindows {
		return nil, fmt.Errorf("number of weekends must be at most %d, got %d", MaxWindows, n)
	}
	if startDay != time.Friday && startDay != time.Saturday {
		return nil, fmt.Errorf("weekend start day must be Friday or Saturday, got %s", startDay)
	}

	today := truncate(from)
	base := dayInWeek(startDay, today)
	if base.Before(today) {
		base = base.AddDate(0, 0, 7)
	}

	windows := make([]models.Window, 0, n)
	for week := 0; week < n; week++ {
		start := base.AddDate(0, 0, 7*week)
		windows = append(windows, models.Window{
			Start: start,
			End:   dayInWeek(time.Sunday, start),
		})
	}
	return windows, nil
}

// dayInWeek returns the date of target within the Monday-based week of date.
func dayInWeek(target time.Weekday, date time.Time) time.Time {
	return date.AddDate(0, 0, isoWeekday(target)-isoWeekday(date.Weekday()))
}

// isoWeekday maps Monday=1 .. Sunday=7.
func isoWeekday(day time.Weekday) int {
	if day == time.Sunday {
		return 7
	}
	return int(day)
}

func truncate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
