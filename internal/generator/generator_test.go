package generator

import (
	"testing"
	"time"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
)

func TestGenerateWithinRangeAndSorted(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	events := NewWithSeed(42).Generate(Options{
		Count:    50,
		Start:    start,
		End:      end,
		Names:    []string{"Migräne", "Kopfschmerzen"},
		Notes:    DefaultNotes,
		NotesPct: 0.5,
	})
	if len(events) != 50 {
		t.Fatalf("expected 50 events, got %d", len(events))
	}
	var prev time.Time
	for i, ev := range events {
		d, err := calendar.ParseDate(ev.EventDate)
		if err != nil {
			t.Fatalf("event %d has bad date %q: %v", i, ev.EventDate, err)
		}
		if d.Before(start) || d.After(end) {
			t.Fatalf("event %d out of range: %s", i, ev.EventDate)
		}
		if i > 0 && d.Before(prev) {
			t.Fatalf("events not sorted at %d", i)
		}
		prev = d
		if ev.EventName != "Migräne" && ev.EventName != "Kopfschmerzen" {
			t.Fatalf("unexpected name %q", ev.EventName)
		}
	}
}

func TestGenerateDefaultsAndSwappedRange(t *testing.T) {
	day := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	events := NewWithSeed(1).Generate(Options{Count: 3, Start: day, End: day.AddDate(0, 0, -2)})
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.EventName != model.DefaultEventName {
			t.Fatalf("expected default name, got %q", ev.EventName)
		}
		if ev.Notes != "" {
			t.Fatalf("expected no notes, got %q", ev.Notes)
		}
		if ev.EventDate < "2024-05-08" || ev.EventDate > "2024-05-10" {
			t.Fatalf("date out of range: %s", ev.EventDate)
		}
	}
}

func TestGenerateWeekdayWeights(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := NewWithSeed(7).Generate(Options{
		Count:          40,
		Start:          start,
		End:            start.AddDate(0, 3, 0),
		WeekdayWeights: [7]float64{1, 0, 0, 0, 0, 0, 0},
	})
	for _, ev := range events {
		d, err := calendar.ParseDate(ev.EventDate)
		if err != nil {
			t.Fatalf("bad date: %v", err)
		}
		if d.Weekday() != time.Monday {
			t.Fatalf("expected only Mondays, got %s (%s)", ev.EventDate, d.Weekday())
		}
	}
}
