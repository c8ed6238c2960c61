package event

import (
	"io"

	"github.com/emersion/go-ical"
)

// WriteICS renders the event as a single-VEVENT iCalendar document, suitable
// for importing into any calendar client.
func WriteICS(w io.Writer, e Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Potluck//Potluck//EN")

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID+"@potluck")
	ve.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}
	ve.Props.SetDateTime(ical.PropDateTimeStamp, e.UpdatedAt.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.UTC())
	cal.Children = append(cal.Children, ve)

	return ical.NewEncoder(w).Encode(cal)
}
