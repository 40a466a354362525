package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/evtrack/internal/calendar"
)

// YearCount is the number of events in a year.
type YearCount struct {
	Year  int
	Count int
}

// LabelCount is the number of events for a weekday or month label.
type LabelCount struct {
	Label string
	Count int
}

// PeriodCount is the number of events in the month starting at Start.
type PeriodCount struct {
	Start time.Time
	Count int
}

// Heatmap is a weekday by month count matrix. Rows and columns only cover
// labels that occur, in canonical order.
type Heatmap struct {
	Rows   []string
	Cols   []string
	Counts [][]int
}

// Empty reports whether the heatmap has no cells.
func (h Heatmap) Empty() bool {
	return len(h.Rows) == 0 || len(h.Cols) == 0
}

// Max returns the largest cell count.
func (h Heatmap) Max() int {
	maxVal := 0
	for _, row := range h.Counts {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// Cell returns the count for a weekday/month label pair.
func (h Heatmap) Cell(weekday, month string) int {
	for i, r := range h.Rows {
		if r != weekday {
			continue
		}
		for j, c := range h.Cols {
			if c == month {
				return h.Counts[i][j]
			}
		}
	}
	return 0
}

// CountByYear counts events per year in ascending year order.
func CountByYear(ws WorkingSet) []YearCount {
	counts := map[int]int{}
	for _, ev := range ws {
		counts[ev.Year]++
	}
	out := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}

// CountByWeekday counts events per weekday. All seven weekdays are returned,
// Mo through So, with zero counts for absent days.
func CountByWeekday(ws WorkingSet) []LabelCount {
	return countLabels(ws, calendar.WeekdayLabels(), func(i int) string { return ws[i].WeekdayLabel })
}

// CountByMonth counts events per month. All twelve months are returned.
func CountByMonth(ws WorkingSet) []LabelCount {
	return countLabels(ws, calendar.MonthLabels(), func(i int) string { return ws[i].MonthLabel })
}

func countLabels(ws WorkingSet, labels []string, labelOf func(int) string) []LabelCount {
	counts := make(map[string]int, len(labels))
	for i := range ws {
		counts[labelOf(i)]++
	}
	out := make([]LabelCount, len(labels))
	for i, l := range labels {
		out[i] = LabelCount{Label: l, Count: counts[l]}
	}
	return out
}

// BuildHeatmap cross-tabulates weekday against month.
func BuildHeatmap(ws WorkingSet) Heatmap {
	var cells [7][12]int
	var rowSeen [7]bool
	var colSeen [12]bool
	for _, ev := range ws {
		r := calendar.WeekdayIndex(ev.WeekdayLabel)
		c := calendar.MonthIndex(ev.MonthLabel)
		if r < 0 || c < 0 {
			continue
		}
		cells[r][c]++
		rowSeen[r] = true
		colSeen[c] = true
	}

	weekdays := calendar.WeekdayLabels()
	months := calendar.MonthLabels()
	var h Heatmap
	var colIdx []int
	for c, seen := range colSeen {
		if seen {
			h.Cols = append(h.Cols, months[c])
			colIdx = append(colIdx, c)
		}
	}
	for r, seen := range rowSeen {
		if !seen {
			continue
		}
		h.Rows = append(h.Rows, weekdays[r])
		row := make([]int, len(colIdx))
		for j, c := range colIdx {
			row[j] = cells[r][c]
		}
		h.Counts = append(h.Counts, row)
	}
	return h
}

// MonthlyTimeline counts events per calendar month from the first to the
// last event. Months without events are included with zero.
func MonthlyTimeline(ws WorkingSet) []PeriodCount {
	if len(ws) == 0 {
		return nil
	}
	first := monthStart(ws[0].Date)
	last := monthStart(ws[len(ws)-1].Date)
	counts := map[time.Time]int{}
	for _, ev := range ws {
		counts[monthStart(ev.Date)]++
	}
	var out []PeriodCount
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, PeriodCount{Start: m, Count: counts[m]})
	}
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
