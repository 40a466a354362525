// Package tui provides the Bubble Tea quick-add interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/stats"
	"github.com/verte-zerg/evtrack/internal/store"
)

const (
	maxFormWidth = 60
	notesIndent  = "  "
)

var (
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	savedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	paddingStyle = lipgloss.NewStyle().Padding(1, 2)
)

type reportMsg struct {
	report stats.Report
	err    error
}

type savedMsg struct {
	entry model.RawEvent
	err   error
}

// Model implements the Bubble Tea quick-add UI: one form, one insert.
type Model struct {
	gw       store.Gateway
	cfg      model.StatsConfig
	parser   *calendar.Parser
	now      func() time.Time
	fallback string

	input *EntryInput
	form  *huh.Form
	width int

	report    stats.Report
	hasReport bool
	reportErr error

	saving  bool
	saved   *model.RawEvent
	err     error
	aborted bool
}

// NewModel constructs a quick-add model. fallbackName replaces a blank name.
func NewModel(gw store.Gateway, cfg model.StatsConfig, parser *calendar.Parser, fallbackName string) *Model {
	m := &Model{
		gw:       gw,
		cfg:      cfg,
		parser:   parser,
		now:      time.Now,
		fallback: fallbackName,
		input:    &EntryInput{},
	}
	m.form = NewEntryForm(m.input, parser, m.clock, fallbackName)
	return m
}

func (m *Model) clock() time.Time {
	return m.now()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.loadReport())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.form = m.form.WithWidth(formWidth(msg.Width))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (msg.Type == tea.KeyEsc && !m.saving) {
			m.aborted = true
			return m, tea.Quit
		}
	case reportMsg:
		m.report = msg.report
		m.reportErr = msg.err
		m.hasReport = msg.err == nil
		if m.saved != nil {
			return m, tea.Quit
		}
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		entry := msg.entry
		m.saved = &entry
		return m, m.loadReport()
	}

	if m.saving {
		return m, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.saving = true
		return m, tea.Batch(cmd, m.save())
	case huh.StateAborted:
		m.aborted = true
		return m, tea.Quit
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	switch {
	case m.saved != nil:
		b.WriteString(savedStyle.Render(fmt.Sprintf("Gespeichert: %s am %s", m.saved.EventName, m.saved.EventDate)))
		b.WriteString("\n")
		for _, line := range WrapText(m.saved.Notes, formWidth(m.width)-len(notesIndent)) {
			if line == "" {
				continue
			}
			b.WriteString(notesIndent + line + "\n")
		}
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.saving:
		b.WriteString("Speichere...\n")
	default:
		b.WriteString(m.form.View())
		b.WriteString("\n")
	}
	if footer := m.renderFooter(); footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	return paddingStyle.Render(b.String())
}

// Saved returns the stored row after a successful run.
func (m *Model) Saved() (model.RawEvent, bool) {
	if m.saved == nil {
		return model.RawEvent{}, false
	}
	return *m.saved, true
}

// Err returns the insert error, if any.
func (m *Model) Err() error {
	return m.err
}

// Aborted reports whether the user left without saving.
func (m *Model) Aborted() bool {
	return m.aborted
}

func (m *Model) renderFooter() string {
	if m.reportErr != nil {
		return errorStyle.Render(m.reportErr.Error())
	}
	if !m.hasReport {
		return ""
	}
	r := m.report
	if r.Empty() {
		return footerStyle.Render("Noch keine Daten vorhanden.")
	}
	segments := []string{fmt.Sprintf("%d Ereignisse (%s)", len(r.WorkingSet), r.Selection.String())}
	if last, ok := r.WorkingSet.Last(); ok {
		segments = append(segments, "Letztes "+stats.FormatDate(last.Date))
	}
	segments = append(segments, "Ø "+stats.FormatAvgGap(r.Forecast))
	segments = append(segments, "Prognose "+stats.FormatForecast(r.Forecast, r.GeneratedAt))
	return footerStyle.Render(strings.Join(segments, " · "))
}

func (m *Model) loadReport() tea.Cmd {
	gw, cfg, now := m.gw, m.cfg, m.now()
	return func() tea.Msg {
		report, err := stats.BuildReport(context.Background(), gw, cfg, now)
		return reportMsg{report: report, err: err}
	}
}

func (m *Model) save() tea.Cmd {
	entry, err := m.input.Entry(m.parser, m.now(), m.fallback)
	gw := m.gw
	return func() tea.Msg {
		if err != nil {
			return savedMsg{err: err}
		}
		if err := stats.Record(context.Background(), gw, entry); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{entry: entry}
	}
}

func formWidth(width int) int {
	if width <= 0 || width > maxFormWidth {
		return maxFormWidth
	}
	return width
}
