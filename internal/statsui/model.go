// Package statsui provides the Bubble Tea dashboard.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/stats"
	"github.com/verte-zerg/evtrack/internal/store"
	"github.com/verte-zerg/evtrack/internal/tui"
)

const (
	tabOverview = iota
	tabBreakdown
	tabHeatmap
	tabRaw
)

const (
	plotHeight = 10
)

type formKind int

const (
	formNone formKind = iota
	formYears
	formAdd
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	modalStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

type savedMsg struct {
	entry model.RawEvent
	err   error
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	gw       store.Gateway
	cfg      model.StatsConfig
	parser   *calendar.Parser
	now      func() time.Time
	fallback string

	report     stats.Report
	loadFailed bool
	errMsg     string
	statusMsg  string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	rawTable  table.Model
	rawLayout tableLayout

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filterError string

	form       *huh.Form
	formKind   formKind
	yearChoice []int
	entryInput *tui.EntryInput
	saving     bool
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a dashboard model. The gateway is used for every
// fetch and insert for the lifetime of the model.
func NewModel(gw store.Gateway, cfg model.StatsConfig, parser *calendar.Parser, fallbackName string) *Model {
	m := &Model{
		gw:       gw,
		cfg:      cfg,
		parser:   parser,
		now:      time.Now,
		fallback: fallbackName,
		tabs:     []string{"Übersicht", "Verteilung", "Heatmap", "Rohdaten"},
	}
	m.initFilterInput()
	m.initRawTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form = m.form.WithWidth(modalInnerWidth(m.width))
		}
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Gespeichert: %s am %s", msg.entry.EventName, msg.entry.EventDate)
		m.refreshReport()
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if keyMsg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.filterMode {
		return m.updateFilter(keyMsg)
	}
	if keyMsg.String() == "q" {
		return m, tea.Quit
	}
	if m.activeTab == tabRaw {
		m.rawTable.Focus()
	} else {
		m.rawTable.Blur()
	}
	switch keyMsg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "/":
		return m.startFilter()
	case "y":
		return m.startYearPicker()
	case "a":
		return m.startAddForm()
	case "1":
		m.applyPreset(strconv.Itoa(m.now().Year()))
		return m, nil
	case "3":
		m.applyPreset(fmt.Sprintf("recent:%d", stats.DefaultRecentYears))
		return m, nil
	case "0":
		m.applyPreset("all")
		return m, nil
	case "g", "home":
		if m.activeTab == tabRaw {
			m.rawTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabRaw {
			m.rawTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	default:
		if m.activeTab == tabRaw {
			var cmd tea.Cmd
			m.rawTable, cmd = m.rawTable.Update(keyMsg)
			return m, cmd
		}
		vp := m.viewports[m.activeTab]
		var cmd tea.Cmd
		vp, cmd = vp.Update(keyMsg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.form != nil {
		return fitLines(m.renderFormModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Selection returns the current year selection expression.
func (m *Model) Selection() string {
	return m.cfg.Years
}

// Report returns the most recent report.
func (m *Model) Report() stats.Report {
	return m.report
}

func (m *Model) clock() time.Time {
	return m.now()
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initFilterInput() {
	input := textinput.New()
	input.Prompt = "Jahre: "
	input.Placeholder = "all, recent:3, 2022-2024, 2021,2024"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	m.filterInput = input
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && (m.errMsg != "" || m.statusMsg != "") {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setRawTableSize(m.width, vpHeight)
	promptWidth := lipgloss.Width(m.filterInput.Prompt)
	m.filterInput.Width = maxInt(10, m.width-promptWidth-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabRaw {
		m.rawTable.Focus()
	} else {
		m.rawTable.Blur()
	}
}

func (m *Model) loadReport(cfg model.StatsConfig) (stats.Report, error) {
	return stats.BuildReport(context.Background(), m.gw, cfg, m.now())
}

// refreshReport re-runs the whole pipeline against a fresh fetch.
func (m *Model) refreshReport() {
	report, err := m.loadReport(m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.loadFailed = true
		m.renderTabContents()
		return
	}
	m.setReport(report)
}

func (m *Model) setReport(report stats.Report) {
	m.errMsg = ""
	m.loadFailed = false
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	applyRawTable(m, m.report.WorkingSet, width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.loadFailed {
		for i := range m.viewports {
			m.viewports[i].SetContent("Daten konnten nicht geladen werden.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabBreakdown].SetContent(renderBreakdown(m.report, width))
	m.viewports[tabHeatmap].SetContent(renderHeatmap(m.report.Heatmap))
}

func (m *Model) applyPreset(expr string) {
	if err := m.applySelection(expr); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.updateLayout()
}

// applySelection builds the report for expr with one fetch and keeps it.
// On error the current selection and report stay in place.
func (m *Model) applySelection(expr string) error {
	cfg := m.cfg
	cfg.Years = expr
	report, err := m.loadReport(cfg)
	if err != nil {
		return err
	}
	m.cfg = cfg
	m.statusMsg = ""
	m.setReport(report)
	return nil
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInput.SetValue(m.cfg.Years)
	m.filterInput.CursorEnd()
	return m, m.filterInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		if err := m.applySelection(strings.TrimSpace(m.filterInput.Value())); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.filterInput.Blur()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) startYearPicker() (tea.Model, tea.Cmd) {
	years := m.report.AvailableYears
	if len(years) == 0 {
		m.statusMsg = "Noch keine Daten vorhanden."
		return m, nil
	}
	m.yearChoice = m.report.Selection.Sorted()
	options := make([]huh.Option[int], 0, len(years))
	for _, y := range years {
		options = append(options, huh.NewOption(strconv.Itoa(y), y).Selected(m.report.Selection.Contains(y)))
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Jahre").
				Description("Leertaste wählt, Enter übernimmt").
				Value(&m.yearChoice).
				Options(options...),
		),
	).WithTheme(tui.FormTheme()).WithShowHelp(false).WithWidth(modalInnerWidth(m.width))
	m.formKind = formYears
	return m, m.form.Init()
}

func (m *Model) startAddForm() (tea.Model, tea.Cmd) {
	m.entryInput = &tui.EntryInput{}
	m.form = tui.NewEntryForm(m.entryInput, m.parser, m.clock, m.fallback).WithWidth(modalInnerWidth(m.width))
	m.formKind = formAdd
	return m, m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.closeForm()
			return m, nil
		}
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
		kind := m.formKind
		m.closeForm()
		switch kind {
		case formYears:
			m.applyYearChoice(m.yearChoice)
			return m, cmd
		case formAdd:
			m.saving = true
			return m, tea.Batch(cmd, m.save(*m.entryInput))
		}
	}
	return m, cmd
}

func (m *Model) applyYearChoice(years []int) {
	if len(years) == 0 {
		m.applyPreset("none")
		return
	}
	sorted := stats.ExplicitYears(years...).Sorted()
	parts := make([]string, len(sorted))
	for i, y := range sorted {
		parts[i] = strconv.Itoa(y)
	}
	m.applyPreset(strings.Join(parts, ","))
}

func (m *Model) save(in tui.EntryInput) tea.Cmd {
	entry, err := in.Entry(m.parser, m.now(), m.fallback)
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
