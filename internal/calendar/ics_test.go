package calendar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kairos/internal/parser"
)

func TestBuildICS(t *testing.T) {
	details := &parser.EventDetails{
		Title:    "Wedding of Silvia and James Edmund",
		Date:     "03.01.2015",
		Time:     "4 pm",
		Location: "Landtscap",
	}

	ics, err := BuildICS(details)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Contains(t, ics, "BEGIN:VEVENT")
	assert.Contains(t, ics, "SUMMARY:Wedding of Silvia and James Edmund at Landtscap")
	assert.Contains(t, ics, "LOCATION:Landtscap")
	assert.Contains(t, ics, "STATUS:CONFIRMED")
	assert.Contains(t, ics, "UID:")
	assert.Contains(t, ics, "20150103T160000")
}

func TestBuildICSNilDetails(t *testing.T) {
	_, err := BuildICS(nil)
	assert.Error(t, err)
}
