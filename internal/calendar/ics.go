package calendar

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"kairos/internal/common/errors"
	"kairos/internal/parser"
)

// BuildICS renders the event as an iCalendar document so the assistant can
// send it as a file attachment alongside the deep-links. The timing rules
// are the same ones BuildLinks applies.
func BuildICS(details *parser.EventDetails) (string, error) {
	if details == nil {
		return "", errors.ValidationError("event details are required")
	}
	now := time.Now()

	start := resolveDate(details.Date, details.Description, now)
	start = applyTime(start, details)
	if start.Year() < 2000 || start.Year() > 2100 {
		start = tomorrowNoon(now)
	}
	end := start.Add(eventDuration(details.Title))

	location := resolveLocation(details)
	title := displayTitle(details, location)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uuid.NewString())
	event.Props.SetDateTime(ical.PropDateTimeStamp, now)
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, end)
	event.Props.SetText(ical.PropSummary, title)
	event.Props.SetText(ical.PropStatus, string(ical.EventConfirmed))
	if location != "" {
		event.Props.SetText(ical.PropLocation, location)
	}
	event.Props.SetText(ical.PropDescription, composeDescription(details))

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Kairos//Invitation Assistant//EN")
	cal.Children = append(cal.Children, event.Component)

	var buf strings.Builder
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", errors.InternalError("encoding calendar attachment failed", err)
	}
	return buf.String(), nil
}
