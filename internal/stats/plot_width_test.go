package stats

import (
	"testing"
	"unicode/utf8"
)

func TestPlotWidthFor(t *testing.T) {
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	total := 80
	expected := total - axisWidth
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestFormatAxisValue(t *testing.T) {
	if got := formatAxisValue(3); got != "3" {
		t.Fatalf("expected integer label, got %q", got)
	}
	if got := formatAxisValue(1.5); got != "1.5" {
		t.Fatalf("expected one decimal, got %q", got)
	}
}
