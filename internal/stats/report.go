package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/store"
)

const topNames = 5

// Report contains precomputed data for stats rendering.
type Report struct {
	GeneratedAt    time.Time
	Total          int
	AvailableYears []int
	Selection      YearSet
	WorkingSet     WorkingSet
	Forecast       Forecast
	YearlyGaps     []YearGap
	ByYear         []YearCount
	ByWeekday      []LabelCount
	ByMonth        []LabelCount
	Heatmap        Heatmap
	Timeline       []PeriodCount
	TopNames       []NameCount
}

// Empty reports whether the working set has no events.
func (r Report) Empty() bool {
	return len(r.WorkingSet) == 0
}

// BuildReport fetches every event and runs the analytics pipeline for the
// configured year selection.
func BuildReport(ctx context.Context, gw store.Gateway, cfg model.StatsConfig, now time.Time) (Report, error) {
	raw, err := gw.FetchAllEvents(ctx)
	if err != nil {
		return Report{}, err
	}
	events, err := ParseEvents(raw)
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse events: %w", err)
	}
	selection, err := ParseYearSelection(cfg.Years, events, now)
	if err != nil {
		return Report{}, err
	}
	return Analyze(events, selection, now), nil
}

// Analyze runs the pipeline over already parsed events.
func Analyze(events []model.Event, selection YearSet, now time.Time) Report {
	ws := BuildWorkingSet(events, selection)
	return Report{
		GeneratedAt:    now,
		Total:          len(events),
		AvailableYears: AvailableYears(events),
		Selection:      selection,
		WorkingSet:     ws,
		Forecast:       ComputeForecast(ws),
		YearlyGaps:     YearlyAverageGaps(ws),
		ByYear:         CountByYear(ws),
		ByWeekday:      CountByWeekday(ws),
		ByMonth:        CountByMonth(ws),
		Heatmap:        BuildHeatmap(ws),
		Timeline:       MonthlyTimeline(ws),
		TopNames:       TopNamesByFrequency(ws, topNames),
	}
}
