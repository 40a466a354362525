package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderPlotSharedScale(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPlot(&buf, Plot{Title: "Test Plot", Series: []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}}, 5, 4, false)
	if err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
	if !strings.HasPrefix(lines[1], "     4 │ ") {
		t.Fatalf("expected shared max label on top row, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "     0 │ ") {
		t.Fatalf("expected zero baseline on bottom row, got %q", lines[4])
	}
}

func TestRenderPlotAxisFooter(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPlot(&buf, Plot{
		Title:  "Verlauf",
		Series: []Series{{Name: "Ereignisse", Values: []float64{0, 2, 1}}},
		First:  "2024-01",
		Last:   "2024-03",
	}, 20, 3, false)
	if err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2024-01") || !strings.Contains(out, "2024-03") {
		t.Fatalf("expected axis footer labels, got:\n%s", out)
	}
}

func TestRenderPlotSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPlot(&buf, Plot{Title: "Empty", Series: []Series{{Name: "A"}}}, 10, 3, false); err != nil {
		t.Fatalf("RenderPlot failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}
