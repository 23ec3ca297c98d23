package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"kairos/internal/common/logging"
	"kairos/internal/parser"
)

// Provider keys present in every Links map.
const (
	ProviderGoogle  = "google"
	ProviderOutlook = "outlook"
	ProviderYahoo   = "yahoo"
	ProviderApple   = "apple"
	ProviderIOS     = "ios"
	// ProviderAll aliases the default shareable link (Google).
	ProviderAll = "all"
)

// Links maps provider keys to add-to-calendar deep-link URLs.
type Links map[string]string

const linkTimeLayout = "20060102T150405"

// BuildLinks converts parsed details into calendar deep-links for every
// supported provider. It never panics and never returns an empty map: an
// unexpected failure degrades to a reduced link set with default timing.
func BuildLinks(details *parser.EventDetails) (links Links) {
	now := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.Error("calendar link build recovered from panic", fmt.Errorf("%v", r))
			links = fallbackLinks(details, now)
		}
	}()
	if details == nil {
		return fallbackLinks(nil, now)
	}
	return buildLinks(details, now)
}

func buildLinks(details *parser.EventDetails, now time.Time) Links {
	start := resolveDate(details.Date, details.Description, now)
	start = applyTime(start, details)
	if start.Year() < 2000 || start.Year() > 2100 {
		start = tomorrowNoon(now)
	}
	end := start.Add(eventDuration(details.Title))

	location := resolveLocation(details)
	title := displayTitle(details, location)
	description := composeDescription(details)

	startStr := start.Format(linkTimeLayout)
	endStr := end.Format(linkTimeLayout)
	qTitle := url.QueryEscape(title)
	qDesc := url.QueryEscape(description)
	qLoc := url.QueryEscape(location)

	google := fmt.Sprintf(
		"https://calendar.google.com/calendar/render?action=TEMPLATE&text=%s&dates=%s/%s&location=%s&details=%s&sf=true&output=xml",
		qTitle, startStr, endStr, qLoc, qDesc)

	links := Links{
		ProviderGoogle: google,
		ProviderOutlook: fmt.Sprintf(
			"https://outlook.office.com/calendar/action/compose?subject=%s&startdt=%s&enddt=%s&body=%s&location=%s",
			qTitle,
			url.QueryEscape(start.Format(time.RFC3339)),
			url.QueryEscape(end.Format(time.RFC3339)),
			qDesc, qLoc),
		ProviderYahoo: fmt.Sprintf(
			"https://calendar.yahoo.com/?title=%s&st=%s&et=%s&desc=%s&in_loc=%s",
			qTitle, startStr, endStr, qDesc, qLoc),
		ProviderApple: fmt.Sprintf(
			"https://calendar.google.com/calendar/ical/%s/%s/%s.ics?ctz=local&action=TEMPLATE&dates=%s/%s&text=%s&details=%s&location=%s",
			qTitle, startStr, endStr, startStr, endStr, qTitle, qDesc, qLoc),
		ProviderIOS: fmt.Sprintf(
			"calshow://?title=%s&start=%s&end=%s&notes=%s&location=%s",
			qTitle, startStr, endStr, qDesc, qLoc),
	}
	links[ProviderAll] = links[ProviderGoogle]
	return links
}

// applyTime resolves the event's clock time onto the start date: explicit
// time field, then a time mentioned in the description, then keyword
// inference from the title and description.
func applyTime(start time.Time, details *parser.EventDetails) time.Time {
	ct := findClockTime(details.Time)
	if ct == nil {
		ct = findClockTime(details.Description)
	}
	if ct == nil {
		ct = &clockTime{hour: inferHour(details.Title + " " + details.Description)}
	}
	return time.Date(start.Year(), start.Month(), start.Day(), ct.hour, ct.minute, 0, 0, start.Location())
}

// eventDuration picks a default duration from the event type named in the
// title.
func eventDuration(title string) time.Duration {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "wedding"), strings.Contains(lower, "reception"):
		return 4 * time.Hour
	case strings.Contains(lower, "conference"), strings.Contains(lower, "workshop"), strings.Contains(lower, "seminar"):
		return 6 * time.Hour
	case strings.Contains(lower, "meeting"):
		return time.Hour
	case strings.Contains(lower, "lunch"), strings.Contains(lower, "dinner"), strings.Contains(lower, "breakfast"), strings.Contains(lower, "brunch"):
		return 2 * time.Hour
	default:
		return 2 * time.Hour
	}
}

// resolveLocation cleans up a wedding location that accidentally captured
// invitation boilerplate by re-scanning the description for a venue.
func resolveLocation(details *parser.EventDetails) string {
	loc := details.Location
	if loc == "" || !strings.Contains(strings.ToLower(details.Title), "wedding") {
		return loc
	}
	lower := strings.ToLower(loc)
	if !strings.Contains(lower, "marriage") && !strings.Contains(lower, "wedding") && !strings.Contains(lower, "invite") {
		return loc
	}
	if venue := venueFromDescription(details.Description); venue != "" {
		return venue
	}
	return loc
}

var venueMarkers = map[string]bool{
	"AT": true, "VENUE:": true, "LOCATION:": true, "PLACE:": true,
}

func venueFromDescription(description string) string {
	fields := strings.Fields(description)
	for i, f := range fields {
		if !venueMarkers[strings.ToUpper(f)] || i+1 >= len(fields) {
			continue
		}
		next := strings.Trim(fields[i+1], ",.;")
		if len(next) > 3 && (next[0] < '0' || next[0] > '9') {
			return next
		}
	}
	return ""
}

// displayTitle appends the location to the title when it is not already
// part of it, so the calendar entry reads "Wedding of X and Y at Venue".
func displayTitle(details *parser.EventDetails, location string) string {
	title := details.Title
	if title == "" {
		title = "Event"
	}
	if location != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(location)) {
		title += " at " + location
	}
	return title
}

// composeDescription renders the calendar entry body: the parsed
// description followed by an event details block echoing the raw fields.
func composeDescription(details *parser.EventDetails) string {
	var b strings.Builder
	if details.Description != "" {
		b.WriteString(details.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("Event Details:")
	if details.Date != "" {
		b.WriteString("\nDate: " + details.Date)
	}
	if details.Time != "" {
		b.WriteString("\nTime: " + details.Time)
	}
	if details.Location != "" {
		b.WriteString("\nLocation: " + details.Location)
	}
	return b.String()
}

// fallbackLinks is the reduced link set used when link building fails:
// tomorrow at noon for two hours, with a note asking the user to fix the
// details by hand.
func fallbackLinks(details *parser.EventDetails, now time.Time) Links {
	title := "Calendar Event"
	if details != nil && details.Title != "" {
		title = details.Title
	}
	start := tomorrowNoon(now)
	end := start.Add(2 * time.Hour)
	startStr := start.UTC().Format("20060102T150405Z")
	endStr := end.UTC().Format("20060102T150405Z")
	qTitle := url.QueryEscape(title)
	qDesc := url.QueryEscape("Event details could not be fully processed. Please update the details manually.")

	links := Links{
		ProviderGoogle: fmt.Sprintf(
			"https://calendar.google.com/calendar/render?action=TEMPLATE&text=%s&dates=%s/%s&details=%s",
			qTitle, startStr, endStr, qDesc),
		ProviderOutlook: fmt.Sprintf(
			"https://outlook.live.com/calendar/0/deeplink/compose?subject=%s&startdt=%s&enddt=%s&body=%s",
			qTitle,
			url.QueryEscape(start.UTC().Format(time.RFC3339)),
			url.QueryEscape(end.UTC().Format(time.RFC3339)),
			qDesc),
		ProviderYahoo: fmt.Sprintf(
			"https://calendar.yahoo.com/?title=%s&st=%s&et=%s&desc=%s",
			qTitle, startStr, endStr, qDesc),
	}
	links[ProviderAll] = links[ProviderGoogle]
	return links
}
