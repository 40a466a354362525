package stats

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/store"
)

type fakeGateway struct {
	rows     []model.RawEvent
	fetchErr error
	fetches  int
}

func (f *fakeGateway) FetchAllEvents(context.Context) ([]model.RawEvent, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.RawEvent(nil), f.rows...), nil
}

func (f *fakeGateway) InsertEvent(_ context.Context, ev model.RawEvent) error {
	f.rows = append(f.rows, ev)
	return nil
}

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "evtrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for _, date := range []string{"2024-02-05", "2022-07-01", "2024-01-10", "2024-01-20"} {
		require.NoError(t, st.InsertEvent(ctx, model.RawEvent{EventName: "Kopfschmerzen", EventDate: date}))
	}

	now := day(t, "2024-02-14")
	report, err := BuildReport(ctx, st, model.StatsConfig{Years: "2023-2024"}, now)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, []int{2022, 2024}, report.AvailableYears)
	assert.Equal(t, []int{2023, 2024}, report.Selection.Sorted())
	require.Len(t, report.WorkingSet, 3)
	require.True(t, report.Forecast.Available())
	assert.InDelta(t, 13.0, report.Forecast.AvgGap, 1e-9)
	assert.Equal(t, day(t, "2024-02-18"), report.Forecast.NextDate())
	assert.Equal(t, []YearCount{{Year: 2024, Count: 3}}, report.ByYear)
	assert.Len(t, report.ByWeekday, 7)
	assert.Len(t, report.Timeline, 2)
	assert.Equal(t, []NameCount{{Name: "Kopfschmerzen", Count: 3}}, report.TopNames)
}

func TestBuildReportRefetchesAfterRecord(t *testing.T) {
	gw := &fakeGateway{rows: []model.RawEvent{{EventName: "Kopfschmerzen", EventDate: "2024-01-10"}}}
	ctx := context.Background()
	now := day(t, "2024-02-14")

	report, err := BuildReport(ctx, gw, model.StatsConfig{}, now)
	require.NoError(t, err)
	assert.False(t, report.Forecast.Available())

	entry := NewEntry("", day(t, "2024-01-20"), "", "")
	require.NoError(t, Record(ctx, gw, entry))

	report, err = BuildReport(ctx, gw, model.StatsConfig{}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.fetches)
	require.True(t, report.Forecast.Available())
	assert.Equal(t, []int{10}, report.Forecast.Gaps)
}

func TestBuildReportErrors(t *testing.T) {
	ctx := context.Background()
	now := day(t, "2024-02-14")

	boom := errors.New("offline")
	_, err := BuildReport(ctx, &fakeGateway{fetchErr: boom}, model.StatsConfig{}, now)
	assert.ErrorIs(t, err, boom)

	bad := &fakeGateway{rows: []model.RawEvent{{EventName: "X", EventDate: "gestern"}}}
	_, err = BuildReport(ctx, bad, model.StatsConfig{}, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse events")

	ok := &fakeGateway{rows: []model.RawEvent{{EventName: "X", EventDate: "2024-01-01"}}}
	_, err = BuildReport(ctx, ok, model.StatsConfig{Years: "2025-2024"}, now)
	assert.Error(t, err)
}

func TestBuildReportEmptySelection(t *testing.T) {
	gw := &fakeGateway{rows: []model.RawEvent{{EventName: "X", EventDate: "2024-01-01"}}}
	report, err := BuildReport(context.Background(), gw, model.StatsConfig{Years: "none"}, day(t, "2024-02-14"))
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Equal(t, 1, report.Total)
	assert.True(t, report.Heatmap.Empty())
	assert.Len(t, report.ByWeekday, 7)
	assert.Nil(t, report.Timeline)
}
