package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
	"github.com/verte-zerg/evtrack/internal/stats"
)

var (
	accentColor = lipgloss.Color("#C89A3A")
	textColor   = lipgloss.Color("#F0F0F0")
	dimColor    = lipgloss.Color("#8C8C8C")
)

// EntryInput holds the raw text of the add-event form.
type EntryInput struct {
	Name  string
	Date  string
	Notes string
}

// Entry validates the input and builds the store row. A blank date means today.
func (in EntryInput) Entry(parser *calendar.Parser, now time.Time, fallbackName string) (model.RawEvent, error) {
	date, err := parser.Parse(in.Date, now)
	if err != nil {
		return model.RawEvent{}, err
	}
	return stats.NewEntry(in.Name, date, in.Notes, fallbackName), nil
}

// FormTheme is the huh theme shared by the add-event and year forms.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(dimColor)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(accentColor)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(textColor)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(dimColor)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(accentColor)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(accentColor)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(textColor)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(dimColor)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(dimColor)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(dimColor)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(dimColor)
	return t
}

// NewEntryForm builds the add-event form writing into in.
func NewEntryForm(in *EntryInput, parser *calendar.Parser, now func() time.Time, fallbackName string) *huh.Form {
	placeholder := strings.TrimSpace(fallbackName)
	if placeholder == "" {
		placeholder = model.DefaultEventName
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Ereignis").
				Placeholder(placeholder).
				Value(&in.Name),
			huh.NewInput().
				Title("Datum").
				Description("leer = heute, 2024-03-14, 14.03.2024 oder \"yesterday\"").
				Placeholder(calendar.FormatDate(now())).
				Value(&in.Date).
				Validate(func(s string) error {
					_, err := parser.Parse(s, now())
					return err
				}),
			huh.NewText().
				Title("Notizen").
				Lines(3).
				Value(&in.Notes),
		),
	).WithTheme(FormTheme()).WithShowHelp(false)
}
