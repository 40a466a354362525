package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	barFull       = '█'
	defaultBarMax = 40
)

// Bar is one labelled value of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string
}

// BarsFromLabels converts label counts to bars.
func BarsFromLabels(counts []LabelCount) []Bar {
	bars := make([]Bar, len(counts))
	for i, c := range counts {
		bars[i] = Bar{Label: c.Label, Value: float64(c.Count), Text: fmt.Sprintf("%d", c.Count)}
	}
	return bars
}

// BarsFromYears converts year counts to bars.
func BarsFromYears(counts []YearCount) []Bar {
	bars := make([]Bar, len(counts))
	for i, c := range counts {
		bars[i] = Bar{Label: fmt.Sprintf("%d", c.Year), Value: float64(c.Count), Text: fmt.Sprintf("%d", c.Count)}
	}
	return bars
}

// RenderBars prints a horizontal bar chart. maxWidth bounds the longest bar.
func RenderBars(w io.Writer, title string, bars []Bar, maxWidth int) error {
	if len(bars) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		maxWidth = defaultBarMax
	}
	labelWidth := 0
	maxVal := 0.0
	for _, b := range bars {
		if lw := runewidth.StringWidth(b.Label); lw > labelWidth {
			labelWidth = lw
		}
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(b.Value / maxVal * float64(maxWidth)))
		}
		label := runewidth.FillRight(b.Label, labelWidth)
		line := strings.TrimRight(fmt.Sprintf("%s %s %s", label, strings.Repeat(string(barFull), n), b.Text), " ")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
