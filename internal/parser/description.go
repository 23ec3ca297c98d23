package parser

import (
	"regexp"
	"strings"
)

var descriptionKeywords = buildKeywordRes([]string{
	"description:", "details:", "info:", "information:", "about:",
	"agenda:", "program:", "programme:", "schedule:",
})

// boilerplateRe drops administrative lines from assembled descriptions.
var boilerplateRe = regexp.MustCompile(`(?i)^(rsvp|dress code|please|contact|more information|invited by)`)

// findDescription returns the text after an explicit description keyword,
// or assembles one from the lines not already consumed by other fields.
func findDescription(lines []string, details *EventDetails) string {
	for _, line := range lines {
		for _, re := range descriptionKeywords {
			if loc := re.FindStringIndex(line); loc != nil {
				if rest := strings.TrimSpace(line[loc[1]:]); rest != "" {
					return rest
				}
			}
		}
	}

	var leftover []string
	for _, line := range lines {
		if len(line) <= 5 || lineConsumed(line, details) || boilerplateRe.MatchString(line) {
			continue
		}
		leftover = append(leftover, line)
	}
	return strings.Join(leftover, " ")
}

// lineConsumed reports whether a line already contributed to another field.
func lineConsumed(line string, details *EventDetails) bool {
	lower := strings.ToLower(line)
	for _, field := range []string{details.Title, details.Date, details.Time, details.Location} {
		if field != "" && strings.Contains(lower, strings.ToLower(field)) {
			return true
		}
	}
	return false
}

// hostLineRe matches "Gabriella Squilloni and Marco Cavallaro" style lines
// near the top of a wedding invitation: one or two capitalized words on
// each side of the connective.
var hostLineRe = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\s+(?:and|AND)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?$`)

var weddingExtraKeywords = []string{
	"followed by", "dress code", "cocktail", "dinner", "dancing",
	"reception", "rsvp", "@",
}

// weddingDescription composes a description for wedding invitations: a
// "Hosted by" block from the host names printed at the top, plus any
// logistics lines (reception, dress code, RSVP contacts).
func weddingDescription(lines []string, details *EventDetails) string {
	var parts []string

	limit := 4
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if hostLineRe.MatchString(line) {
			parts = append(parts, "Hosted by "+line)
			break
		}
	}

	var extras []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range weddingExtraKeywords {
			if strings.Contains(lower, kw) {
				extras = append(extras, toProperCase(line))
				break
			}
		}
	}
	if len(extras) > 0 {
		parts = append(parts, strings.Join(extras, "\n"))
	}

	if len(parts) == 0 {
		return "Wedding celebration invitation"
	}
	return strings.Join(parts, "\n\n")
}
