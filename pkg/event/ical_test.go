package event

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	e := Event{
		ID:          "event-1",
		Title:       "Summer Weekend",
		Description: "Bring sunscreen",
		Location:    "The Farm",
		StartTime:   time.Date(2025, 6, 13, 18, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	err := WriteICS(&buf, e)

	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "UID:event-1@potluck")
	assert.Contains(t, out, "SUMMARY:Summer Weekend")
	assert.Contains(t, out, "LOCATION:The Farm")
	assert.Contains(t, out, "DTSTART:20250613T180000Z")
	assert.Contains(t, out, "DTEND:20250615T120000Z")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestWriteICS_OmitsEmptyProps(t *testing.T) {
	e := Event{
		ID:        "event-2",
		Title:     "Picnic",
		StartTime: time.Date(2025, 7, 1, 11, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, e))

	out := buf.String()
	assert.NotContains(t, out, "DESCRIPTION")
	assert.NotContains(t, out, "LOCATION")
}
