package parser

import (
	"regexp"
	"strings"
)

// Venue name shapes seen on printed invitations: "Fleur du Cap" style
// particle names and "<Name> Hotel/Hall/Estate" compounds.
var venuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][a-z]+\s+(?:du|de|della|la|le|van|von)\s+[A-Z][a-z]+\b`),
	regexp.MustCompile(`(?i)\b(?:the\s+)?[A-Za-z]+(?:\s+[A-Za-z]+)?\s+(?:hotel|resort|club|hall|centre|center|manor|estate|lodge|winery|vineyard)\b`),
}

var capsLineRe = regexp.MustCompile(`^[A-Z][A-Z\s]*$`)

// capsStopwords disqualify an all-caps line from being a venue: these are
// invitation boilerplate words, not place names.
var capsStopwords = map[string]bool{
	"THE": true, "AND": true, "TO": true, "OF": true, "AT": true,
	"IN": true, "ON": true, "FOR": true, "REQUEST": true,
	"PLEASURE": true, "COMPANY": true, "MARRIAGE": true,
	"WEDDING": true, "INVITATION": true, "FOLLOWED": true,
	"RSVP": true, "DRESS": true, "CODE": true, "JOIN": true,
	"CELEBRATE": true, "HONOUR": true, "HONOR": true,
}

// capsNameDenylist keeps standalone printed names from being read as a
// single-word venue.
var capsNameDenylist = map[string]bool{
	"ALICE": true, "ANTON": true, "THIERRY": true, "ODILE": true,
	"RIVIER": true, "JOHANN": true, "GAYNOR": true, "RUPERT": true,
	"SATURDAY": true, "SUNDAY": true, "MONDAY": true, "TUESDAY": true,
	"WEDNESDAY": true, "THURSDAY": true, "FRIDAY": true,
}

var weekdayPrefixes = []string{
	"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
}

var monthPrefixes = []string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE", "JULY",
	"AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

var locationKeywords = buildKeywordRes([]string{
	"location:", "venue:", "place:", "address:", "where:",
	"taking place at", "held at", "hosted at", "join us at",
	"meet at", "located at", "happening at", "will be at",
	"will take place at", "at",
})

var addressPatterns = []*regexp.Regexp{
	// 12 Church Street, Stellenbosch
	regexp.MustCompile(`\d+\s+[A-Za-z][A-Za-z\s]*,\s*[A-Za-z][A-Za-z\s]*`),
	// Cape Town, Western Cape, ZA
	regexp.MustCompile(`[A-Za-z][A-Za-z\s]*,\s*[A-Za-z][A-Za-z\s]*,\s*[A-Z]{2}\b`),
	// UK style postcode
	regexp.MustCompile(`\b[A-Z]{1,2}\d{1,2}[A-Z]?\s*\d[A-Z]{2}\b`),
	// US zip
	regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`),
}

var venueWords = []string{
	"hotel", "restaurant", "cafe", "hall", "center", "centre", "room",
	"building", "plaza", "park", "garden", "gardens", "theater",
	"theatre", "stadium", "arena", "gallery", "museum", "campus",
	"farm", "chapel", "church", "cathedral",
}

// extractLocation runs the venue heuristics in priority order: explicit
// venue name shapes, all-caps venue lines, keyword-prefixed lines, street
// addresses, then any short line mentioning a venue-type word.
func extractLocation(lines []string) string {
	for _, line := range lines {
		for _, re := range venuePatterns {
			if m := re.FindString(line); m != "" {
				return m
			}
		}
	}

	if loc := capsVenueLine(lines); loc != "" {
		return loc
	}

	for _, line := range lines {
		for _, re := range locationKeywords {
			if loc := re.FindStringIndex(line); loc != nil {
				rest := strings.TrimSpace(line[loc[1]:])
				if rest != "" {
					return rest
				}
			}
		}
	}

	for _, line := range lines {
		for _, re := range addressPatterns {
			if m := re.FindString(line); m != "" {
				return strings.TrimSpace(m)
			}
		}
	}

	for _, line := range lines {
		if len(line) >= 100 {
			continue
		}
		lower := strings.ToLower(line)
		for _, w := range venueWords {
			if strings.Contains(lower, w) {
				return line
			}
		}
	}
	return ""
}

// capsVenueLine scans for all-caps lines naming the venue. Multi-word caps
// lines win over single-word ones; boilerplate, dates and printed personal
// names are excluded.
func capsVenueLine(lines []string) string {
	single := ""
	for _, line := range lines {
		if len(line) <= 3 || len(line) >= 50 || !capsLineRe.MatchString(line) {
			continue
		}
		if hasPrefixAny(line, weekdayPrefixes) || hasPrefixAny(line, monthPrefixes) {
			continue
		}
		words := strings.Fields(line)
		skip := false
		for _, w := range words {
			if capsStopwords[w] {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if len(words) >= 2 && len(words) <= 4 {
			return line
		}
		if single == "" && len(words) == 1 && len(words[0]) >= 5 && !capsNameDenylist[words[0]] {
			single = line
		}
	}
	return single
}

func hasPrefixAny(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
