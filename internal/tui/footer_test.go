package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/stats"
)

type memGateway struct {
	rows []model.RawEvent
}

func (g *memGateway) FetchAllEvents(context.Context) ([]model.RawEvent, error) {
	return append([]model.RawEvent(nil), g.rows...), nil
}

func (g *memGateway) InsertEvent(_ context.Context, ev model.RawEvent) error {
	g.rows = append(g.rows, ev)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
}

func scenarioGateway() *memGateway {
	return &memGateway{rows: []model.RawEvent{
		{EventName: "Kopfschmerzen", EventDate: "2024-01-10"},
		{EventName: "Kopfschmerzen", EventDate: "2024-01-20"},
		{EventName: "Kopfschmerzen", EventDate: "2024-02-05"},
	}}
}

func TestRenderFooterFormats(t *testing.T) {
	gw := scenarioGateway()
	report, err := stats.BuildReport(context.Background(), gw, model.StatsConfig{}, fixedNow())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	m := &Model{report: report, hasReport: true}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"3 Ereignisse (2024)", "Letztes 05.02.2024", "Ø 13,0 Tage", "Prognose 18.02.2024 (in 4 Tagen)"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterInsufficientData(t *testing.T) {
	gw := &memGateway{rows: []model.RawEvent{{EventName: "X", EventDate: "2024-01-10"}}}
	report, err := stats.BuildReport(context.Background(), gw, model.StatsConfig{}, fixedNow())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	m := &Model{report: report, hasReport: true}
	if out := m.renderFooter(); !strings.Contains(out, "Prognose zu wenig Daten") {
		t.Fatalf("expected insufficient data footer, got %s", out)
	}

	empty := &Model{report: stats.Report{}, hasReport: true}
	if out := empty.renderFooter(); !strings.Contains(out, "Noch keine Daten vorhanden.") {
		t.Fatalf("expected empty footer, got %s", out)
	}
}

func TestSaveRefetchesBeforeQuit(t *testing.T) {
	gw := scenarioGateway()
	m := NewModel(gw, model.StatsConfig{}, calendar.NewParser(), "")
	m.now = fixedNow
	m.input.Date = "2024-02-18"
	m.input.Notes = "Wetterwechsel"

	msg := m.save()()
	saved, ok := msg.(savedMsg)
	if !ok || saved.err != nil {
		t.Fatalf("unexpected save result: %#v", msg)
	}
	_, cmd := m.Update(saved)
	if cmd == nil {
		t.Fatalf("expected report reload after save")
	}
	if _, ok := cmd().(reportMsg); !ok {
		t.Fatalf("expected report message")
	}
	if len(gw.rows) != 4 {
		t.Fatalf("expected 4 stored rows, got %d", len(gw.rows))
	}
	entry, ok := m.Saved()
	if !ok {
		t.Fatalf("expected saved entry")
	}
	if entry.EventName != model.DefaultEventName || entry.EventDate != "2024-02-18" || entry.Notes != "Wetterwechsel" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestSaveRejectsBadDate(t *testing.T) {
	m := NewModel(scenarioGateway(), model.StatsConfig{}, calendar.NewParser(), "Migräne")
	m.now = fixedNow
	m.input.Date = "kein datum"

	msg := m.save()()
	saved, ok := msg.(savedMsg)
	if !ok || saved.err == nil {
		t.Fatalf("expected save error, got %#v", msg)
	}
	m.Update(saved)
	if m.Err() == nil {
		t.Fatalf("expected model error")
	}
	if _, ok := m.Saved(); ok {
		t.Fatalf("expected nothing saved")
	}
}

func TestEntryInputFallbackName(t *testing.T) {
	in := EntryInput{Date: "yesterday"}
	entry, err := in.Entry(calendar.NewParser(), fixedNow(), "migräne")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.EventName != "Migräne" || entry.EventDate != "2024-02-13" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
