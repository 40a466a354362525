// Package generator builds random sample events.
package generator

import (
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
)

// DefaultNotes are attached to generated events at random.
var DefaultNotes = []string{
	"nach dem Aufstehen",
	"wenig geschlafen",
	"Wetterwechsel",
	"Ibuprofen genommen",
	"nach langer Bildschirmarbeit",
}

// Options controls a generation run.
type Options struct {
	Count int
	// Start and End bound the generated dates, both inclusive.
	Start time.Time
	End   time.Time
	// Names are drawn uniformly; empty means model.DefaultEventName.
	Names []string
	// Notes are drawn uniformly for a NotesPct share of events.
	Notes    []string
	NotesPct float64
	// WeekdayWeights biases dates toward weekdays, Monday first. A zero
	// value weighs every day equally.
	WeekdayWeights [7]float64
}

// Generator produces randomized sample events.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns opts.Count store rows in date order.
func (g *Generator) Generate(opts Options) []model.RawEvent {
	start := calendar.Truncate(opts.Start)
	end := calendar.Truncate(opts.End)
	if end.Before(start) {
		start, end = end, start
	}
	days := calendar.DaysBetween(start, end) + 1
	names := opts.Names
	if len(names) == 0 {
		names = []string{model.DefaultEventName}
	}

	weights, total := dayWeights(start, days, opts.WeekdayWeights)
	offsets := make([]int, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		offsets = append(offsets, g.pickDay(weights, total))
	}
	sort.Ints(offsets)

	result := make([]model.RawEvent, 0, opts.Count)
	for _, off := range offsets {
		result = append(result, model.RawEvent{
			EventName: names[g.rnd.Intn(len(names))],
			EventDate: calendar.FormatDate(start.AddDate(0, 0, off)),
			Notes:     applyNotes(g.rnd, opts.Notes, opts.NotesPct),
		})
	}
	return result
}

func dayWeights(start time.Time, days int, byWeekday [7]float64) ([]float64, float64) {
	uniform := true
	for _, w := range byWeekday {
		if w > 0 {
			uniform = false
			break
		}
	}
	weights := make([]float64, days)
	total := 0.0
	for i := range weights {
		w := 1.0
		if !uniform {
			w = byWeekday[calendar.WeekdayIndex(calendar.WeekdayLabel(start.AddDate(0, 0, i).Weekday()))]
		}
		weights[i] = w
		total += w
	}
	return weights, total
}

func (g *Generator) pickDay(weights []float64, total float64) int {
	if total <= 0 {
		return g.rnd.Intn(len(weights))
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for j, w := range weights {
		acc += w
		if r <= acc {
			return j
		}
	}
	return len(weights) - 1
}

func applyNotes(rnd *rand.Rand, notes []string, notesPct float64) string {
	if notesPct <= 0 || len(notes) == 0 {
		return ""
	}
	if rnd.Float64() > notesPct {
		return ""
	}
	return notes[rnd.Intn(len(notes))]
}

