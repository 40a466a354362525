package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "2024-13-01", "2024-02-30", "10.01.2024", "yesterday"} {
		if _, err := ParseDate(input); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", input, err)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 26 {
		t.Fatalf("expected 26 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -26 {
		t.Fatalf("expected -26 days, got %d", got)
	}
}

func TestDaysBetweenLongSpan(t *testing.T) {
	a := time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 191387 {
		t.Fatalf("expected 191387 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -191387 {
		t.Fatalf("expected -191387 days, got %d", got)
	}
}

func TestAddDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := AddDays(start, 191387); !got.Equal(time.Date(2548, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", got)
	}
	if got := Truncate(AddDays(start, 1.5)); !got.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", got)
	}
}

func TestParserFormats(t *testing.T) {
	p := NewParser()
	now := time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

	cases := map[string]string{
		"":           "2024-03-14",
		"2024-01-02": "2024-01-02",
		"02.01.2024": "2024-01-02",
		"yesterday":  "2024-03-13",
	}
	for input, want := range cases {
		got, err := p.Parse(input, now)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if FormatDate(got) != want {
			t.Fatalf("parse %q: got %s, want %s", input, FormatDate(got), want)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Fatalf("parse %q: expected midnight, got %s", input, got)
		}
	}
}

func TestParserRejectsGibberish(t *testing.T) {
	p := NewParser()
	if _, err := p.Parse("zzz qqq", time.Now()); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
