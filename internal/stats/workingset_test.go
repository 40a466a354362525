package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func events(t *testing.T, dates ...string) []model.Event {
	t.Helper()
	out := make([]model.Event, 0, len(dates))
	for _, s := range dates {
		out = append(out, model.Event{Name: model.DefaultEventName, Date: day(t, s)})
	}
	return out
}

func TestParseEventsRejectsMalformedDate(t *testing.T) {
	raw := []model.RawEvent{
		{EventName: "Kopfschmerzen", EventDate: "2024-01-10"},
		{EventName: "Migräne", EventDate: "10.01.2024"},
	}
	_, err := ParseEvents(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
	assert.Contains(t, err.Error(), "row 1 (Migräne)")
}

func TestParseEventsKeepsRowOrder(t *testing.T) {
	raw := []model.RawEvent{
		{EventName: "B", EventDate: "2024-02-05", Notes: "spät"},
		{EventName: "A", EventDate: "2024-01-10"},
	}
	got, err := ParseEvents(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "spät", got[0].Notes)
	assert.Equal(t, day(t, "2024-01-10"), got[1].Date)
}

func TestBuildWorkingSetSortsAndDerives(t *testing.T) {
	evs := events(t, "2024-02-05", "2024-01-10", "2024-01-20")
	ws := BuildWorkingSet(evs, ExplicitYears(2024))
	require.Len(t, ws, 3)

	assert.Equal(t, day(t, "2024-01-10"), ws[0].Date)
	assert.Nil(t, ws[0].GapDays)
	assert.Equal(t, "Mi", ws[0].WeekdayLabel)
	assert.Equal(t, "Jan", ws[0].MonthLabel)
	assert.Equal(t, 2024, ws[0].Year)

	require.NotNil(t, ws[1].GapDays)
	assert.Equal(t, 10, *ws[1].GapDays)
	assert.Equal(t, "Sa", ws[1].WeekdayLabel)

	require.NotNil(t, ws[2].GapDays)
	assert.Equal(t, 16, *ws[2].GapDays)
	assert.Equal(t, "Mo", ws[2].WeekdayLabel)
	assert.Equal(t, "Feb", ws[2].MonthLabel)
}

func TestBuildWorkingSetSameDayIsStable(t *testing.T) {
	evs := []model.Event{
		{Name: "erst", Date: day(t, "2024-03-01")},
		{Name: "früher", Date: day(t, "2024-02-01")},
		{Name: "zweit", Date: day(t, "2024-03-01")},
	}
	ws := BuildWorkingSet(evs, ExplicitYears(2024))
	require.Len(t, ws, 3)
	assert.Equal(t, "früher", ws[0].Name)
	assert.Equal(t, "erst", ws[1].Name)
	assert.Equal(t, "zweit", ws[2].Name)
	require.NotNil(t, ws[2].GapDays)
	assert.Equal(t, 0, *ws[2].GapDays)
}

func TestBuildWorkingSetFiltersYears(t *testing.T) {
	evs := events(t, "2022-05-01", "2023-05-01", "2024-05-01")
	ws := BuildWorkingSet(evs, ExplicitYears(2023, 2024))
	require.Len(t, ws, 2)
	assert.Equal(t, 2023, ws[0].Year)
	assert.Nil(t, ws[0].GapDays)

	last, ok := ws.Last()
	require.True(t, ok)
	assert.Equal(t, 2024, last.Year)

	empty := BuildWorkingSet(evs, YearSet{})
	assert.Equal(t, 0, empty.Len())
	_, ok = empty.Last()
	assert.False(t, ok)
}
