package statsui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/evtrack/internal/stats"
)

var tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))

var rawFixedColumns = []table.Column{
	{Title: "Datum", Width: 10},
	{Title: "Tag", Width: 3},
	{Title: "Monat", Width: 5},
	{Title: "Abstand", Width: 7},
	{Title: "Name", Width: 16},
}

const minNotesWidth = 10

func (m *Model) initRawTable() {
	m.rawTable = table.New(
		table.WithColumns(rawColumns(0)),
		table.WithHeight(1),
	)
	m.rawTable.SetStyles(rawTableStyles())
}

// rawColumns gives the notes column whatever width is left.
func rawColumns(width int) []table.Column {
	cols := append([]table.Column(nil), rawFixedColumns...)
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	notes := maxInt(minNotesWidth, width-used-2)
	return append(cols, table.Column{Title: "Notizen", Width: notes})
}

func buildRawRows(ws stats.WorkingSet) []table.Row {
	rows := make([]table.Row, 0, len(ws))
	for _, ev := range ws {
		gap := ""
		if ev.GapDays != nil {
			gap = strconv.Itoa(*ev.GapDays)
		}
		rows = append(rows, table.Row{
			stats.FormatDate(ev.Date),
			ev.WeekdayLabel,
			ev.MonthLabel,
			gap,
			ev.Name,
			strings.ReplaceAll(ev.Notes, "\n", " "),
		})
	}
	return rows
}

func applyRawTable(m *Model, ws stats.WorkingSet, width, height int) {
	rows := buildRawRows(ws)
	m.rawTable.SetRows(rows)
	m.rawLayout.rowCount = len(rows)
	m.rawLayout.width = 0
	m.setRawTableSize(width, height)
	m.rawTable.GotoBottom()
}

func (m *Model) setRawTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.rawLayout.width == width && m.rawLayout.height == viewportHeight {
		return
	}
	m.rawLayout.width = width
	m.rawLayout.height = viewportHeight
	m.rawTable.SetColumns(rawColumns(width))
	m.rawTable.SetWidth(width)
	m.rawTable.SetHeight(viewportHeight)
}

func rawTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0).
		Inherit(tableMutedStyle)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
