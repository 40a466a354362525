// Package model defines shared data structures.
package model

import "time"

// DefaultEventName is used when an event is saved with a blank name.
const DefaultEventName = "Kopfschmerzen"

// RawEvent is an event row as the store returns it.
type RawEvent struct {
	EventName string `json:"event_name"`
	EventDate string `json:"event_date"`
	Notes     string `json:"notes"`
}

// Event is a parsed occurrence with a date-only timestamp in UTC.
type Event struct {
	Name  string
	Date  time.Time
	Notes string
}

// DerivedEvent is an Event with calendar features and the gap to its predecessor.
type DerivedEvent struct {
	Event
	WeekdayLabel string
	MonthLabel   string
	Year         int
	// GapDays is nil for the first event of a working set.
	GapDays *int
}

// StatsConfig defines the year selection for an analytics pass.
type StatsConfig struct {
	// Years is a selection expression: "", "all", "recent:N", "2022-2024" or "2022,2024".
	Years string
}
