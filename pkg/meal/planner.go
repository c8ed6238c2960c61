package meal

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Planner derives a default meal schedule from an event's time window, one
// lunch and dinner per day the event plausibly covers.
type Planner struct {
	meals Service
}

func NewPlanner(meals Service) *Planner {
	return &Planner{meals: meals}
}

// PlanForEvent creates the default meals for an event running from start to
// end. Lunch is planned for days where the event is underway before noon,
// dinner for days where it lasts into the evening. Multi-day events get the
// weekday prefixed to the meal name ("Saturday Dinner"). Creation failures
// are logged and do not stop the remaining meals.
func (p *Planner) PlanForEvent(ctx context.Context, eventID string, start, end time.Time) {
	if !start.Before(end) {
		return
	}

	firstDay := startOfDay(start)
	lastDay := startOfDay(end)
	multiDay := !firstDay.Equal(lastDay)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		first := day.Equal(firstDay)
		last := day.Equal(lastDay)

		// A single-day event plans lunch on the start hour alone; the
		// end-before-noon rule only skips the last day of a longer event.
		wantLunch := true
		if first && start.Hour() > 11 {
			wantLunch = false
		}
		if last && !first && end.Hour() < 12 {
			wantLunch = false
		}

		wantDinner := true
		if last && end.Hour() < 20 {
			wantDinner = false
		}

		if wantLunch {
			p.plan(ctx, eventID, day, TypeLunch, multiDay)
		}
		if wantDinner {
			p.plan(ctx, eventID, day, TypeDinner, multiDay)
		}
	}
}

func (p *Planner) plan(ctx context.Context, eventID string, day time.Time, t Type, multiDay bool) {
	name := Label(t)
	if multiDay {
		name = day.Weekday().String() + " " + name
	}
	date := day.Format("2006-01-02")

	_, err := p.meals.Create(ctx, eventID, Draft{
		Name: name,
		Type: t,
		Date: &date,
	})
	if err != nil {
		log.Warnf("could not plan %s on %s for event %s: %v", t, date, eventID, err)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
