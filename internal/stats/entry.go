package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/store"
)

// NewEntry builds a store row. A blank name falls back to fallback, or to
// model.DefaultEventName when fallback is blank too.
func NewEntry(name string, date time.Time, notes, fallback string) model.RawEvent {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	if name == "" {
		name = model.DefaultEventName
	}
	return model.RawEvent{
		EventName: cases.Title(language.German, cases.NoLower).String(name),
		EventDate: calendar.FormatDate(date),
		Notes:     strings.TrimSpace(notes),
	}
}

// Record inserts one event. Callers rebuild their report afterwards.
func Record(ctx context.Context, gw store.Gateway, entry model.RawEvent) error {
	if err := gw.InsertEvent(ctx, entry); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	slog.Debug("event saved", "name", entry.EventName, "date", entry.EventDate)
	return nil
}
