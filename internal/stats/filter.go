package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/evtrack/internal/model"
)

// DefaultRecentYears is the size of the "recent" year preset.
const DefaultRecentYears = 3

// YearSet is a selection of calendar years.
type YearSet map[int]struct{}

// Contains reports whether year is selected.
func (s YearSet) Contains(year int) bool {
	_, ok := s[year]
	return ok
}

// Sorted returns the selected years in ascending order.
func (s YearSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for y := range s {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// String renders the selection compactly, e.g. "2022-2024" or "2021,2024".
func (s YearSet) String() string {
	years := s.Sorted()
	switch {
	case len(years) == 0:
		return "none"
	case len(years) == 1:
		return strconv.Itoa(years[0])
	case years[len(years)-1]-years[0] == len(years)-1:
		return fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

// AvailableYears returns every year present in events, ascending.
func AvailableYears(events []model.Event) []int {
	return AllYears(events).Sorted()
}

// AllYears selects every year present in events.
func AllYears(events []model.Event) YearSet {
	set := YearSet{}
	for _, ev := range events {
		set[ev.Date.Year()] = struct{}{}
	}
	return set
}

// YearRange selects the inclusive range [from, to].
func YearRange(from, to int) YearSet {
	set := YearSet{}
	for y := from; y <= to; y++ {
		set[y] = struct{}{}
	}
	return set
}

// ExplicitYears selects exactly the given years.
func ExplicitYears(years ...int) YearSet {
	set := YearSet{}
	for _, y := range years {
		set[y] = struct{}{}
	}
	return set
}

// RecentYears selects the last n calendar years up to now that have data.
// When none of them has data it falls back to all years.
func RecentYears(events []model.Event, n int, now time.Time) YearSet {
	all := AllYears(events)
	set := YearSet{}
	for y := now.Year() - n + 1; y <= now.Year(); y++ {
		if all.Contains(y) {
			set[y] = struct{}{}
		}
	}
	if len(set) == 0 {
		return all
	}
	return set
}

// FilterByYears keeps the events whose year is selected.
func FilterByYears(events []model.Event, years YearSet) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if years.Contains(ev.Date.Year()) {
			out = append(out, ev)
		}
	}
	return out
}

// ParseYearSelection builds a YearSet from an expression:
// "" or "all", "none", "recent" or "recent:N", "2022-2024", "2022,2024".
func ParseYearSelection(expr string, events []model.Event, now time.Time) (YearSet, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	switch {
	case expr == "" || expr == "all":
		return AllYears(events), nil
	case expr == "none":
		return YearSet{}, nil
	case expr == "recent":
		return RecentYears(events, DefaultRecentYears, now), nil
	case strings.HasPrefix(expr, "recent:"):
		n, err := strconv.Atoi(strings.TrimPrefix(expr, "recent:"))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid recent count in %q", expr)
		}
		return RecentYears(events, n, now), nil
	case strings.Contains(expr, "-"):
		parts := strings.SplitN(expr, "-", 2)
		from, err := parseYear(parts[0])
		if err != nil {
			return nil, err
		}
		to, err := parseYear(parts[1])
		if err != nil {
			return nil, err
		}
		if from > to {
			return nil, fmt.Errorf("invalid year range %q (start after end)", expr)
		}
		return YearRange(from, to), nil
	}
	parts := strings.Split(expr, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		y, err := parseYear(part)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("invalid year selection %q", expr)
	}
	return ExplicitYears(years...), nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 1 || y > 9999 {
		return 0, fmt.Errorf("invalid year %q", strings.TrimSpace(s))
	}
	return y, nil
}
