package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
)

// WorkingSet is the date-sorted, year-filtered sequence of events for one pass.
type WorkingSet []model.DerivedEvent

// ParseEvents converts store rows into events. A malformed date fails the whole batch.
func ParseEvents(raw []model.RawEvent) ([]model.Event, error) {
	events := make([]model.Event, 0, len(raw))
	for i, r := range raw {
		date, err := calendar.ParseDate(r.EventDate)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i, r.EventName, err)
		}
		events = append(events, model.Event{Name: r.EventName, Date: date, Notes: r.Notes})
	}
	return events, nil
}

// SortEvents returns a copy of events ordered by date. Same-day events keep their input order.
func SortEvents(events []model.Event) []model.Event {
	out := append([]model.Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// BuildWorkingSet filters events to the selected years, sorts them and
// derives calendar features and gaps.
func BuildWorkingSet(events []model.Event, years YearSet) WorkingSet {
	sorted := SortEvents(FilterByYears(events, years))
	ws := make(WorkingSet, 0, len(sorted))
	var prev time.Time
	for i, ev := range sorted {
		weekday, month, year := calendar.Derive(ev.Date)
		d := model.DerivedEvent{
			Event:        ev,
			WeekdayLabel: weekday,
			MonthLabel:   month,
			Year:         year,
		}
		if i > 0 {
			gap := calendar.DaysBetween(prev, ev.Date)
			d.GapDays = &gap
		}
		prev = ev.Date
		ws = append(ws, d)
	}
	return ws
}

// Len returns the number of events.
func (ws WorkingSet) Len() int {
	return len(ws)
}

// Last returns the most recent event.
func (ws WorkingSet) Last() (model.DerivedEvent, bool) {
	if len(ws) == 0 {
		return model.DerivedEvent{}, false
	}
	return ws[len(ws)-1], true
}
