package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/evtrack/internal/stats"
)

const noDataText = "Keine Ereignisse im gewählten Zeitraum."

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	heatStyles     = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A2F1A")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#6B4F1D")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#C89A3A")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#FFC857")).Bold(true),
	}
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	expr := m.cfg.Years
	if expr == "" {
		expr = "all"
	}
	summary := fmt.Sprintf("Jahre: %s (%s)  Ereignisse: %d von %d", m.report.Selection.String(), expr, len(m.report.WorkingSet), m.report.Total)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Tabs: left/right  Scroll: up/down  Jahre: / y  1: dieses Jahr  3: letzte 3  0: alle  Neu: a  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("enter: anwenden  esc: abbrechen")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	switch {
	case m.errMsg != "":
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	case m.saving:
		return m.renderHelp() + "\n" + statusStyle.Render("Speichere...")
	case m.statusMsg != "":
		return m.renderHelp() + "\n" + statusStyle.Render(m.statusMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{
		"Jahresauswahl (enter anwenden, esc abbrechen)",
		m.filterInput.View(),
		headerStyle.Render("Verfügbar: " + joinYears(m.report.AvailableYears)),
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabRaw {
		if len(m.report.WorkingSet) == 0 {
			return fitLines(noDataText, m.width, height)
		}
		return fitLines(m.rawTable.View(), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderFormModal() string {
	title := "Neues Ereignis"
	if m.formKind == formYears {
		title = "Jahre auswählen"
	}
	body := []string{
		cardValueStyle.Render(title),
		m.form.View(),
		headerStyle.Render("esc: abbrechen"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderOverview(r stats.Report, width int) string {
	if r.Total == 0 {
		return "Noch keine Daten vorhanden."
	}
	if r.Empty() {
		return noDataText
	}
	summary := renderSummaryCards(r, width)
	timeline := renderTimeline(r, width)
	return strings.TrimRight(summary+"\n\n"+timeline, "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	last := "–"
	if ev, ok := r.WorkingSet.Last(); ok {
		last = stats.FormatDate(ev.Date)
	}
	forecast := "zu wenig Daten"
	if r.Forecast.Available() {
		forecast = stats.FormatForecast(r.Forecast, r.GeneratedAt)
	}
	cards := []string{
		metricCard("Ereignisse", strconv.Itoa(len(r.WorkingSet))),
		metricCard("Ø Abstand", stats.FormatAvgGap(r.Forecast)),
		metricCard("Nächste Prognose", forecast),
		metricCard("Letztes Ereignis", last),
	}
	if r.Forecast.Available() {
		cards = append(cards, metricCard("Kürzester / Längster", fmt.Sprintf("%d / %d Tage", r.Forecast.MinGap, r.Forecast.MaxGap)))
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderTimeline(r stats.Report, width int) string {
	if len(r.Timeline) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := stats.RenderTimeline(&buf, r.Timeline, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Verlauf konnte nicht gezeichnet werden: %v", err)
	}
	counts := make([]float64, len(r.Timeline))
	for i, p := range r.Timeline {
		counts[i] = float64(p.Count)
	}
	spark := headerStyle.Render("Monate: " + stats.Sparkline(counts))
	return strings.TrimRight(buf.String(), "\n") + "\n" + spark
}

func renderBreakdown(r stats.Report, width int) string {
	if r.Empty() {
		return noDataText
	}
	barWidth := maxInt(10, minInt(width-20, 40))
	var buf bytes.Buffer
	sections := []func() error{
		func() error { return stats.RenderBars(&buf, "Pro Jahr", stats.BarsFromYears(r.ByYear), barWidth) },
		func() error { return stats.RenderYearTable(&buf, r) },
		func() error { return stats.RenderBars(&buf, "Nach Wochentag", stats.BarsFromLabels(r.ByWeekday), barWidth) },
		func() error { return stats.RenderBars(&buf, "Nach Monat", stats.BarsFromLabels(r.ByMonth), barWidth) },
	}
	if len(r.TopNames) > 1 {
		bars := make([]stats.Bar, 0, len(r.TopNames))
		for _, n := range r.TopNames {
			bars = append(bars, stats.Bar{Label: n.Name, Value: float64(n.Count), Text: strconv.Itoa(n.Count)})
		}
		sections = append(sections, func() error { return stats.RenderBars(&buf, "Häufigste Ereignisse", bars, barWidth) })
	}
	for _, render := range sections {
		if err := render(); err != nil {
			return fmt.Sprintf("Verteilung konnte nicht gezeichnet werden: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

// renderHeatmap draws the weekday by month matrix with shaded cells.
func renderHeatmap(h stats.Heatmap) string {
	if h.Empty() {
		return noDataText
	}
	const cellWidth = 5
	maxVal := h.Max()
	var b strings.Builder
	b.WriteString(headerStyle.Render("Wochentag × Monat"))
	b.WriteString("\n\n   ")
	for _, col := range h.Cols {
		b.WriteString(padLeft(col, cellWidth))
	}
	b.WriteString("\n")
	for i, row := range h.Rows {
		b.WriteString(padRight(row, 3))
		for _, v := range h.Counts[i] {
			b.WriteString(heatStyles[heatLevel(v, maxVal)].Render(padLeft(strconv.Itoa(v), cellWidth)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Maximum pro Zelle: %d", maxVal)))
	return b.String()
}

func heatLevel(v, maxVal int) int {
	if v <= 0 || maxVal <= 0 {
		return 0
	}
	levels := len(heatStyles) - 1
	level := (v*levels + maxVal - 1) / maxVal
	if level < 1 {
		level = 1
	}
	if level > levels {
		level = levels
	}
	return level
}

func joinYears(years []int) string {
	if len(years) == 0 {
		return "-"
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}
