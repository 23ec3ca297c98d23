package parser

import (
	"regexp"
	"strings"
)

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

// datePatterns are tried in order; the first match on a line wins. The raw
// matched substring is kept verbatim, interpretation happens later when a
// calendar link is built.
var datePatterns = []*regexp.Regexp{
	// 03/01/2015, 3.1.15
	regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{2,4})\b`),
	// 2015-01-03
	regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`),
	// January 3rd, 2015
	regexp.MustCompile(`(?i)\b(` + monthNames + `)[,\s]+(\d{1,2})(?:st|nd|rd|th)?(?:[,\s]+(\d{4}))?\b`),
	// 3rd January 2015, 29TH DECEMBER 2022
	regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?[,\s]+(` + monthNames + `)(?:[,\s]+(\d{4}))?\b`),
}

// timePatterns match clock times. Dotted times require an am/pm suffix so
// numeric dates like 03.01.2015 are never mistaken for a time.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(?:am|pm)?\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\.(\d{2})\s*(?:am|pm)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:am|pm)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*o'?clock\b`),
}

var dateKeywords = buildKeywordRes([]string{
	"date:", "when:", "day:", "on the", "on", "scheduled for",
	"event date", "start date", "begins on", "starting on",
})

// buildKeywordRes compiles word-bounded, case-insensitive matchers so "on"
// does not fire inside words like "reception".
func buildKeywordRes(keywords []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		pattern := `(?i)\b` + regexp.QuoteMeta(kw)
		if last := kw[len(kw)-1]; (last >= 'a' && last <= 'z') || (last >= 'A' && last <= 'Z') {
			pattern += `\b`
		}
		res = append(res, regexp.MustCompile(pattern))
	}
	return res
}

type dateTimeMatch struct {
	date string
	time string
}

func matchDate(s string) string {
	for _, re := range datePatterns {
		if m := re.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

func matchTime(s string) string {
	for _, re := range timePatterns {
		if m := re.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

func hasDateKeyword(line string) bool {
	for _, re := range dateKeywords {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// findDateTime locates the event date and an accompanying time. Lines with
// an explicit date keyword are preferred; then any line with a date; then
// the whole text. The time is looked up on the same line with the matched
// date removed, so date digits never shadow a real clock time.
func findDateTime(lines []string, text string) *dateTimeMatch {
	for _, line := range lines {
		if !hasDateKeyword(line) {
			continue
		}
		if d := matchDate(line); d != "" {
			return &dateTimeMatch{date: d, time: matchTime(strings.Replace(line, d, "", 1))}
		}
	}
	for _, line := range lines {
		if d := matchDate(line); d != "" {
			return &dateTimeMatch{date: d, time: matchTime(strings.Replace(line, d, "", 1))}
		}
	}
	if d := matchDate(text); d != "" {
		return &dateTimeMatch{date: d, time: matchTime(strings.Replace(text, d, "", 1))}
	}
	return nil
}

// findDateTimeAdvanced additionally sweeps every line for a standalone time
// when the date line carried none. Invitations often print "4 pm" on its
// own line below the date.
func findDateTimeAdvanced(lines []string, text string) *dateTimeMatch {
	m := findDateTime(lines, text)
	if m == nil || m.time != "" {
		return m
	}
	for _, line := range lines {
		if line == m.date {
			continue
		}
		if t := matchTime(line); t != "" {
			m.time = t
			break
		}
	}
	return m
}
