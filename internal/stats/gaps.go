package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/evtrack/internal/calendar"
)

// ForecastStatus tells whether a forecast could be computed.
type ForecastStatus int

const (
	// ForecastInsufficientData means fewer than two events were available.
	ForecastInsufficientData ForecastStatus = iota
	// ForecastAvailable means AvgGap and Next are set.
	ForecastAvailable
)

// Forecast is the gap summary and next-event prediction for a working set.
type Forecast struct {
	Status ForecastStatus
	Gaps   []int
	AvgGap float64
	MinGap int
	MaxGap int
	Last   time.Time
	Next   time.Time
}

// Available reports whether the forecast has numeric values.
func (f Forecast) Available() bool {
	return f.Status == ForecastAvailable
}

// NextDate returns the forecast date without its time component.
func (f Forecast) NextDate() time.Time {
	return calendar.Truncate(f.Next)
}

// DaysUntil returns whole days from now until the forecast date; negative when overdue.
func (f Forecast) DaysUntil(now time.Time) int {
	return calendar.DaysBetween(now, f.NextDate())
}

// YearGap is the average gap of one calendar year.
type YearGap struct {
	Year   int
	AvgGap float64
	Gaps   int
}

// Gaps returns the day differences between consecutive events.
func Gaps(ws WorkingSet) []int {
	if len(ws) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(ws)-1)
	for i := 1; i < len(ws); i++ {
		gaps = append(gaps, calendar.DaysBetween(ws[i-1].Date, ws[i].Date))
	}
	return gaps
}

// ComputeForecast averages the gaps and adds the mean to the last event date.
func ComputeForecast(ws WorkingSet) Forecast {
	gaps := Gaps(ws)
	if len(gaps) == 0 {
		return Forecast{Status: ForecastInsufficientData}
	}
	sum := 0
	minGap, maxGap := gaps[0], gaps[0]
	for _, g := range gaps {
		sum += g
		if g < minGap {
			minGap = g
		}
		if g > maxGap {
			maxGap = g
		}
	}
	avg := float64(sum) / float64(len(gaps))
	last := ws[len(ws)-1].Date
	return Forecast{
		Status: ForecastAvailable,
		Gaps:   gaps,
		AvgGap: avg,
		MinGap: minGap,
		MaxGap: maxGap,
		Last:   last,
		Next:   calendar.AddDays(last, avg),
	}
}

// YearlyAverageGaps groups gaps by the year of the later event. Years with
// fewer than two events in the working set are left out.
func YearlyAverageGaps(ws WorkingSet) []YearGap {
	counts := map[int]int{}
	for _, ev := range ws {
		counts[ev.Year]++
	}
	sums := map[int]int{}
	n := map[int]int{}
	for _, ev := range ws {
		if ev.GapDays == nil || counts[ev.Year] < 2 {
			continue
		}
		sums[ev.Year] += *ev.GapDays
		n[ev.Year]++
	}
	out := make([]YearGap, 0, len(n))
	for year, c := range n {
		out = append(out, YearGap{Year: year, AvgGap: float64(sums[year]) / float64(c), Gaps: c})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}
