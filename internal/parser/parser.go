// Package parser turns raw OCR text from an invitation image into a
// structured event record. It is the heart of the assistant: everything else
// is transport glue around Parse.
//
// Extraction is heuristic. The text is classified into one of three
// strategies (wedding, formal, generic) and each strategy runs its own
// bundle of field extractors over the trimmed lines. Extractors are pure
// functions; they degrade to an empty field instead of failing the whole
// parse.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"kairos/internal/common/logging"
)

// Strategy selects which extraction heuristics apply to an invitation.
type Strategy string

const (
	// StrategyWedding extracts couple names, venues and wedding boilerplate
	StrategyWedding Strategy = "wedding"
	// StrategyFormal extracts formal event titles (conference, gala, ...)
	StrategyFormal Strategy = "formal"
	// StrategyGeneric is the fallback extraction used for everything else
	StrategyGeneric Strategy = "generic"
)

// EventDetails is the structured record extracted from an invitation.
// Date and Time hold the raw matched substrings, not normalized timestamps:
// the original wording is preserved for display, and normalization only
// happens when a calendar link is built.
type EventDetails struct {
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// Usable reports whether enough was extracted to act on. A parse without
// both a title and a date is treated as insufficient data by callers.
func (d *EventDetails) Usable() bool {
	return d != nil && d.Title != "" && d.Date != ""
}

// framingRe matches the optional "=== EVENT INVITATION ===" style markers
// some callers wrap around OCR text.
var framingRe = regexp.MustCompile(`^={2,}.*={2,}$`)

// splitLines returns the trimmed, non-empty lines of text with any framing
// markers removed.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || framingRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Parse extracts event details from raw OCR text. It returns nil when the
// text is empty or an unexpected error occurs; otherwise the result always
// carries a title. Parse never panics outward: the assistant must always be
// able to answer the user.
func Parse(text string) (details *EventDetails) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("event parsing recovered from panic", fmt.Errorf("%v", r))
			details = nil
		}
	}()

	lines := splitLines(text)
	if len(lines) == 0 {
		return nil
	}
	cleaned := strings.Join(lines, "\n")

	switch Classify(cleaned) {
	case StrategyWedding:
		details = parseWedding(lines, cleaned)
	case StrategyFormal:
		details = parseFormal(lines, cleaned)
	default:
		details = parseGeneric(lines, cleaned)
	}
	return details
}

// parseWedding handles wedding invitations: couple names become the title,
// the venue is title-cased and the description gets a "Hosted by" block.
func parseWedding(lines []string, text string) *EventDetails {
	details := &EventDetails{}

	if couple := findCoupleNames(lines); couple != "" {
		details.Title = "Wedding of " + properCaseNames(couple)
	} else {
		details.Title = "Wedding Celebration"
	}

	if m := findDateTimeAdvanced(lines, text); m != nil {
		details.Date = m.date
		details.Time = m.time
	}

	if loc := extractLocation(lines); loc != "" {
		details.Location = toProperCase(loc)
	}

	details.Description = weddingDescription(lines, details)
	return details
}

// parseFormal handles formal event invitations.
func parseFormal(lines []string, text string) *EventDetails {
	details := &EventDetails{}

	details.Title = findFormalEventTitle(lines)

	if m := findDateTimeAdvanced(lines, text); m != nil {
		details.Date = m.date
		details.Time = m.time
	}

	details.Location = extractLocation(lines)

	if desc := findDescription(lines, details); desc != "" {
		details.Description = desc
	} else {
		details.Description = "Formal event invitation"
	}
	return details
}

// parseGeneric is the fallback extraction for anything not recognized as a
// wedding or formal invitation.
func parseGeneric(lines []string, text string) *EventDetails {
	details := &EventDetails{}

	details.Title = findEventTitle(lines)

	if m := findDateTime(lines, text); m != nil {
		details.Date = m.date
		details.Time = m.time
	}

	details.Location = extractLocation(lines)
	details.Description = findDescription(lines, details)
	return details
}
