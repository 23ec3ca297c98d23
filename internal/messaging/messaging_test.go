package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kairos/internal/calendar"
	"kairos/internal/parser"
)

func TestFormatEventMessage(t *testing.T) {
	details := &parser.EventDetails{
		Title:    "Wedding of Silvia and James Edmund",
		Date:     "03.01.2015",
		Time:     "4 pm",
		Location: "Landtscap",
	}
	links := calendar.Links{
		calendar.ProviderGoogle:  "https://g.example/1",
		calendar.ProviderOutlook: "https://o.example/1",
		calendar.ProviderYahoo:   "https://y.example/1",
		calendar.ProviderApple:   "https://a.example/1",
		calendar.ProviderAll:     "https://g.example/1",
	}

	msg := FormatEventMessage(details, links)

	assert.Contains(t, msg, "Wedding of Silvia and James Edmund")
	assert.Contains(t, msg, "Date: 03.01.2015")
	assert.Contains(t, msg, "Time: 4 pm")
	assert.Contains(t, msg, "Location: Landtscap")
	assert.Contains(t, msg, "Google: https://g.example/1")
	assert.Contains(t, msg, "Outlook: https://o.example/1")
	assert.Contains(t, msg, "Yahoo: https://y.example/1")
	assert.Contains(t, msg, "Apple: https://a.example/1")
}

func TestFormatEventMessageSkipsEmptyFields(t *testing.T) {
	details := &parser.EventDetails{Title: "Mystery Party"}
	links := calendar.Links{calendar.ProviderGoogle: "https://g.example/2"}

	msg := FormatEventMessage(details, links)

	assert.Contains(t, msg, "Mystery Party")
	assert.NotContains(t, msg, "Date:")
	assert.NotContains(t, msg, "Location:")
	assert.NotContains(t, msg, "Outlook:")
}
