package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const StorageDateLayout = "2006-01-02"

var (
	relativeDaysRegex = regexp.MustCompile(`^\d+d$`)
	dateOnlyRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	offsetMarkerRegex = regexp.MustCompile(`(Z|[+-]\d{2}:?\d{2})$`)
)

var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func NormalizeToMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	return NormalizeToMidnight(a).Equal(NormalizeToMidnight(b))
}

// ParseFlexible reads "Nd" (N days from now), "YYYY-MM-DD" (local calendar date)
// or an ISO datetime. Datetimes carrying Z or an offset are moved so the local
// wall clock reads what was written in UTC, keeping the calendar day stable.
func ParseFlexible(input string, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}

	loc := now.Location()

	if relativeDaysRegex.MatchString(s) {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, days), true
	}

	if dateOnlyRegex.MatchString(s) {
		t, err := time.ParseInLocation(StorageDateLayout, s, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if offsetMarkerRegex.MatchString(s) {
		for _, layout := range zonedLayouts {
			t, err := time.Parse(layout, s)
			if err != nil {
				continue
			}
			u := t.UTC()
			return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), loc), true
		}
		return time.Time{}, false
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DaysBetween counts calendar days from one date to another. Both ends are
// reduced to their calendar date first, so the result is exact across DST.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(b.Sub(a).Hours() / 24)
}

func DaysRemaining(from, to time.Time) int {
	return max(DaysBetween(from, to), 0)
}

func FormatForStorage(t time.Time) string {
	return t.Format(StorageDateLayout)
}
