// Package calendar turns parsed event details into provider deep-links and
// ICS attachments. Date handling is deliberately forgiving: a link the user
// has to correct beats no link at all, so every resolution path terminates
// in a tomorrow-at-noon default instead of an error.
package calendar

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ordinalRe = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)`)

// stripOrdinals rewrites "29TH" as "29" so ordinal dates hit the plain
// layouts.
func stripOrdinals(s string) string {
	return ordinalRe.ReplaceAllString(s, "$1")
}

// dateLayouts are tried in order against the cleaned date string. Numeric
// layouts run day-first before month-first; see the README note on date
// ambiguity.
var dateLayouts = []string{
	"2/1/2006", "1/2/2006", "2006/1/2",
	"2-1-2006", "1-2-2006", "2006-1-2",
	"2.1.2006", "1.2.2006",
	"2 January 2006", "2 January, 2006",
	"January 2 2006", "January 2, 2006",
	"2 Jan 2006", "2 Jan, 2006",
	"Jan 2 2006", "Jan 2, 2006",
	"2 January", "January 2", "2 Jan", "Jan 2",
}

var tripletRe = regexp.MustCompile(`(\d{1,4})[/\-.](\d{1,4})[/\-.](\d{1,4})`)

var spaceRe = regexp.MustCompile(`\s+`)

// normalizeDate lowercases then re-capitalizes words so all-caps OCR output
// ("29 DECEMBER 2022") matches the named-month layouts, and collapses runs
// of whitespace.
func normalizeDate(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	words := strings.Fields(s)
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// resolveDate runs the date fallback chain: layout parsing on the cleaned
// raw string, numeric triplet interpretation, a triplet scan of the
// description, and finally tomorrow at noon.
func resolveDate(raw, description string, now time.Time) time.Time {
	if raw != "" {
		cleaned := normalizeDate(stripOrdinals(raw))
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, cleaned, time.Local); err == nil {
				return withYear(t, now)
			}
		}
		if t, ok := tripletDate(raw); ok {
			return t
		}
	}
	if description != "" {
		if t, ok := tripletDate(description); ok {
			return t
		}
	}
	return tomorrowNoon(now)
}

// withYear substitutes the current year when a layout without a year
// parsed (Go reports year 0 for those).
func withYear(t time.Time, now time.Time) time.Time {
	if t.Year() == 0 {
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	}
	return t
}

// tripletDate interprets the first N/N/N group in s as a date, trying
// day-month-year, then month-day-year, then year-month-day. Only
// interpretations with a plausible year (2000-2100 after two-digit
// normalization) and a calendar-valid day are accepted.
func tripletDate(s string) (time.Time, bool) {
	m := tripletRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	c, _ := strconv.Atoi(m[3])

	for _, try := range [][3]int{{c, b, a}, {c, a, b}, {a, b, c}} {
		if t, ok := dateFromParts(try[0], try[1], try[2]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateFromParts validates a year/month/day combination. Two-digit years
// are expanded pivoting at 50.
func dateFromParts(year, month, day int) (time.Time, bool) {
	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if year < 2000 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func tomorrowNoon(now time.Time) time.Time {
	d := now.AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
}

// clockPatterns match an explicit time. Group 1 is the hour, group 2 the
// optional minutes, group 3 the optional meridiem. The dotted form needs
// the meridiem so dotted date fragments ("03.01") are never read as times.
var clockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\.(\d{2})\s*(am|pm)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*()(am|pm)\b`),
	regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b()()`),
}

type clockTime struct {
	hour   int
	minute int
}

// findClockTime extracts an explicit clock time from s, normalizing am/pm
// to 24-hour.
func findClockTime(s string) *clockTime {
	if s == "" {
		return nil
	}
	for _, re := range clockPatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour > 23 || minute > 59 {
			continue
		}
		switch strings.ToLower(m[3]) {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		return &clockTime{hour: hour, minute: minute}
	}
	return nil
}

// inferHour guesses a start hour from meal and time-of-day words when no
// explicit time was printed.
func inferHour(text string) int {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "breakfast"), strings.Contains(lower, "morning"):
		return 8
	case strings.Contains(lower, "lunch"):
		return 12
	case strings.Contains(lower, "dinner"), strings.Contains(lower, "evening"):
		return 19
	default:
		return 12
	}
}
