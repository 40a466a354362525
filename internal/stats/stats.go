// Package stats contains the event analytics pipeline and its text reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	sparkChars   = " .:-=+*#%@"
	trendWindow  = 3
	displayDate  = "02.01.2006"
	noDataText   = "Noch keine Daten vorhanden."
	notEnoughMsg = "zu wenig Daten"
)

var printer = message.NewPrinter(language.German)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatDays renders a day count with a German decimal comma, e.g. "13,0 Tage".
func FormatDays(days float64) string {
	return printer.Sprintf("%.1f Tage", days)
}

// FormatDate renders a date as DD.MM.YYYY.
func FormatDate(t time.Time) string {
	return t.Format(displayDate)
}

// FormatAvgGap renders the average gap or the insufficient-data marker.
func FormatAvgGap(f Forecast) string {
	if !f.Available() {
		return notEnoughMsg
	}
	return FormatDays(f.AvgGap)
}

// FormatForecast renders the forecast date relative to now.
func FormatForecast(f Forecast, now time.Time) string {
	if !f.Available() {
		return notEnoughMsg
	}
	days := f.DaysUntil(now)
	var rel string
	switch {
	case days == 0:
		rel = "heute"
	case days == 1:
		rel = "morgen"
	case days > 1:
		rel = fmt.Sprintf("in %d Tagen", days)
	case days == -1:
		rel = "seit 1 Tag überfällig"
	default:
		rel = fmt.Sprintf("seit %d Tagen überfällig", -days)
	}
	return fmt.Sprintf("%s (%s)", FormatDate(f.NextDate()), rel)
}

// RenderSummary prints the headline metrics of a report.
func RenderSummary(w io.Writer, r Report) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, noDataText)
		return err
	}
	lines := []string{
		"Übersicht",
		fmt.Sprintf("Ereignisse: %d (von %d gesamt)", len(r.WorkingSet), r.Total),
		fmt.Sprintf("Jahre: %s", r.Selection.String()),
		fmt.Sprintf("Ø Abstand: %s", FormatAvgGap(r.Forecast)),
		fmt.Sprintf("Nächste Prognose: %s", FormatForecast(r.Forecast, r.GeneratedAt)),
	}
	if r.Forecast.Available() {
		lines = append(lines,
			fmt.Sprintf("Kürzester Abstand: %d Tage", r.Forecast.MinGap),
			fmt.Sprintf("Längster Abstand: %d Tage", r.Forecast.MaxGap),
		)
	}
	if last, ok := r.WorkingSet.Last(); ok {
		lines = append(lines, fmt.Sprintf("Letztes Ereignis: %s %s (%s)", FormatDate(last.Date), last.WeekdayLabel, last.Name))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderYearTable prints counts and average gaps per year.
func RenderYearTable(w io.Writer, r Report) error {
	if len(r.ByYear) == 0 {
		return nil
	}
	gaps := make(map[int]YearGap, len(r.YearlyGaps))
	for _, g := range r.YearlyGaps {
		gaps[g.Year] = g
	}
	headers := []string{"Jahr", "Anzahl", "Ø Abstand"}
	rows := make([][]string, 0, len(r.ByYear))
	for _, yc := range r.ByYear {
		avg := "–"
		if g, ok := gaps[yc.Year]; ok {
			avg = FormatDays(g.AvgGap)
		}
		rows = append(rows, []string{strconv.Itoa(yc.Year), strconv.Itoa(yc.Count), avg})
	}
	return writeTable(w, "Nach Jahr", headers, rows, map[int]bool{1: true, 2: true})
}

// RenderHeatmap prints the weekday by month matrix.
func RenderHeatmap(w io.Writer, h Heatmap) error {
	if h.Empty() {
		return nil
	}
	headers := append([]string{""}, h.Cols...)
	rows := make([][]string, 0, len(h.Rows))
	rightAlign := map[int]bool{}
	for j := range h.Cols {
		rightAlign[j+1] = true
	}
	for i, label := range h.Rows {
		row := []string{label}
		for _, v := range h.Counts[i] {
			row = append(row, strconv.Itoa(v))
		}
		rows = append(rows, row)
	}
	return writeTable(w, "Wochentag × Monat", headers, rows, rightAlign)
}

// TimelinePlot builds the monthly "Verlauf" chart with a moving-average trend.
func TimelinePlot(timeline []PeriodCount) Plot {
	if len(timeline) == 0 {
		return Plot{}
	}
	counts := make([]float64, len(timeline))
	for i, p := range timeline {
		counts[i] = float64(p.Count)
	}
	return Plot{
		Title: "Verlauf (pro Monat)",
		Series: []Series{
			{Name: "Ereignisse", Values: counts},
			{Name: fmt.Sprintf("Trend (%d Monate)", trendWindow), Values: MovingAverage(counts, trendWindow)},
		},
		First: timeline[0].Start.Format("2006-01"),
		Last:  timeline[len(timeline)-1].Start.Format("2006-01"),
	}
}

// RenderTimeline prints the monthly chart sized to totalWidth.
func RenderTimeline(w io.Writer, timeline []PeriodCount, totalWidth, height int, useColor bool) error {
	if len(timeline) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return RenderPlot(w, TimelinePlot(timeline), width, height, useColor)
}

// RenderReport prints every section of a report.
func RenderReport(w io.Writer, r Report, totalWidth int) error {
	if err := RenderSummary(w, r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := RenderYearTable(w, r); err != nil {
		return err
	}
	if err := RenderBars(w, "Nach Wochentag", BarsFromLabels(r.ByWeekday), 0); err != nil {
		return err
	}
	if err := RenderBars(w, "Nach Monat", BarsFromLabels(r.ByMonth), 0); err != nil {
		return err
	}
	if err := RenderHeatmap(w, r.Heatmap); err != nil {
		return err
	}
	if len(r.TopNames) > 1 {
		rows := make([][]string, 0, len(r.TopNames))
		for _, n := range r.TopNames {
			rows = append(rows, []string{n.Name, strconv.Itoa(n.Count)})
		}
		if err := writeTable(w, "Häufigste Ereignisse", []string{"Name", "Anzahl"}, rows, map[int]bool{1: true}); err != nil {
			return err
		}
	}
	return RenderTimeline(w, r.Timeline, totalWidth, defaultPlotHeight, false)
}

// RenderEventList prints the working set as a raw data table.
func RenderEventList(w io.Writer, ws WorkingSet) error {
	if len(ws) == 0 {
		_, err := fmt.Fprintln(w, noDataText)
		return err
	}
	headers := []string{"Datum", "Tag", "Monat", "Abstand", "Name", "Notizen"}
	rows := make([][]string, 0, len(ws))
	for _, ev := range ws {
		gap := ""
		if ev.GapDays != nil {
			gap = strconv.Itoa(*ev.GapDays)
		}
		rows = append(rows, []string{
			FormatDate(ev.Date),
			ev.WeekdayLabel,
			ev.MonthLabel,
			gap,
			ev.Name,
			strings.ReplaceAll(ev.Notes, "\n", " "),
		})
	}
	return writeTable(w, "", headers, rows, map[int]bool{3: true})
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
