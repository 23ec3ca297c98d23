package parser

import (
	"regexp"
	"strings"
)

// coupleNameRe matches "NAME & NAME" or "NAME and NAME" where each side is
// one or two words, as printed on most invitations.
var coupleNameRe = regexp.MustCompile(`(?i)\b([A-Za-z]+(?:\s+[A-Za-z]+)?)(?:\s+and\s+|\s*&\s*)([A-Za-z]+(?:\s+[A-Za-z]+)?)\b`)

// coupleToRe splits "ALICE to ANTON" style phrasing.
var coupleToRe = regexp.MustCompile(`(?i)\s+to\s+`)

var coupleAnchors = []string{"marriage of", "wedding of", "marriage"}

// capsNameRe matches a standalone all-caps name line ("ALICE").
var capsNameRe = regexp.MustCompile(`^[A-Z]+$`)

var capsNameStopwords = map[string]bool{
	"THE": true, "AND": true, "TO": true, "OF": true,
	"AT": true, "IN": true, "ON": true, "FOR": true,
}

// findCoupleNames locates the couple being married. It anchors on phrases
// like "marriage of" and scans the next few lines for a joined pair of
// names; failing that it looks for the NAME / TO / NAME stacking many
// invitations use.
func findCoupleNames(lines []string) string {
	for _, anchor := range coupleAnchors {
		for i, line := range lines {
			lower := strings.ToLower(line)
			idx := strings.Index(lower, anchor)
			if idx < 0 {
				continue
			}
			if couple := coupleNear(lines, i, line[idx+len(anchor):]); couple != "" {
				return couple
			}
		}
	}
	return coupleFromStackedNames(lines)
}

// coupleNear scans the anchor line's remainder and the following window of
// lines for a name pair.
func coupleNear(lines []string, anchorIdx int, remainder string) string {
	candidates := []string{strings.TrimSpace(remainder)}
	end := anchorIdx + 5
	if end > len(lines) {
		end = len(lines)
	}
	candidates = append(candidates, lines[anchorIdx+1:end]...)

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if parts := coupleToRe.Split(candidate, 2); len(parts) == 2 {
			left := strings.TrimSpace(parts[0])
			right := strings.TrimSpace(parts[1])
			if isNameish(left) && isNameish(right) {
				return left + " and " + right
			}
		}
		if m := coupleNameRe.FindStringSubmatch(candidate); m != nil {
			left := strings.TrimSpace(m[1])
			right := strings.TrimSpace(m[2])
			if isNameish(left) && isNameish(right) {
				return left + " and " + right
			}
		}
	}
	return ""
}

// coupleFromStackedNames handles the NAME / TO / NAME layout: two all-caps
// name lines separated by a line containing just "TO".
func coupleFromStackedNames(lines []string) string {
	for i := 0; i+2 < len(lines); i++ {
		if !strings.EqualFold(lines[i+1], "to") {
			continue
		}
		if isCapsName(lines[i]) && isCapsName(lines[i+2]) {
			return lines[i] + " and " + lines[i+2]
		}
	}
	return ""
}

func isCapsName(line string) bool {
	if len(line) < 3 || len(line) > 19 {
		return false
	}
	return capsNameRe.MatchString(line) && !capsNameStopwords[line]
}

// isNameish rejects candidates that are clearly not personal names: too
// long, containing digits, or made of connective words.
func isNameish(s string) bool {
	if s == "" || len(s) > 40 {
		return false
	}
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		if capsNameStopwords[strings.ToUpper(w)] {
			return false
		}
		for _, r := range w {
			if r >= '0' && r <= '9' {
				return false
			}
		}
	}
	return true
}

// eventKeywords flag a line as a plausible generic event title.
var eventKeywords = []string{
	"wedding", "invitation", "celebration", "party", "ceremony", "event",
	"invites you", "meeting", "conference", "webinar", "seminar",
	"concert", "festival", "gathering", "birthday", "anniversary",
	"graduation", "lunch", "dinner", "brunch", "breakfast", "reception",
	"workshop", "class", "training", "appointment", "interview",
	"shower", "reunion", "fundraiser",
}

// titleDetailPrefixRe rejects second-pass candidates that open like a
// date, time, or address line rather than a title.
var titleDetailPrefixRe = regexp.MustCompile(`(?i)^(at|on|when|where|date|time)\b`)

var titleAddressPrefixRe = regexp.MustCompile(`^\d+\s+[A-Za-z]`)

// findEventTitle scans the first ten lines, accepting per line an event
// keyword, an all-caps line longer than three characters, or a digit-free
// name pair joined by "and"/"&". A second pass over the first five lines
// takes the first short line that does not open like a date, time, or
// address. Falls back to the first line; never returns "".
func findEventTitle(lines []string) string {
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range lines[:limit] {
		lower := strings.ToLower(line)
		for _, kw := range eventKeywords {
			if strings.Contains(lower, kw) {
				return line
			}
		}
		if len(line) > 3 && line == strings.ToUpper(line) {
			return line
		}
		if strings.Contains(line, " and ") || strings.Contains(line, " & ") {
			if !strings.ContainsAny(line, "0123456789") {
				return line
			}
		}
	}

	limit = len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		if len(line) <= 3 || len(line) >= 50 {
			continue
		}
		if line[0] >= '0' && line[0] <= '9' {
			continue
		}
		if titleDetailPrefixRe.MatchString(line) || titleAddressPrefixRe.MatchString(line) {
			continue
		}
		return line
	}

	return lines[0]
}

var formalTitleKeywords = []string{
	"conference", "meeting", "celebration", "ceremony", "gala",
	"dinner", "lunch", "reception", "symposium", "banquet",
}

// findFormalEventTitle prefers lines naming the formal occasion before
// falling back to the generic title search.
func findFormalEventTitle(lines []string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range formalTitleKeywords {
			if strings.Contains(lower, kw) {
				return line
			}
		}
	}
	return findEventTitle(lines)
}

// toProperCase title-cases each word. "RSVP" stays upper and anything with
// an '@' (emails) goes lower.
func toProperCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		switch {
		case strings.EqualFold(w, "rsvp"):
			words[i] = "RSVP"
		case strings.Contains(w, "@"):
			words[i] = strings.ToLower(w)
		default:
			lower := strings.ToLower(w)
			words[i] = strings.ToUpper(lower[:1]) + lower[1:]
		}
	}
	return strings.Join(words, " ")
}

// properCaseNames title-cases a "X and Y" couple string while keeping the
// connective lowercase.
func properCaseNames(couple string) string {
	parts := strings.SplitN(couple, " and ", 2)
	for i, p := range parts {
		parts[i] = toProperCase(p)
	}
	return strings.Join(parts, " and ")
}
