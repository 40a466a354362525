package stats

import (
	"sort"
)

// NameCount is the number of events recorded under one name.
type NameCount struct {
	Name  string
	Count int
}

// TopNamesByFrequency returns the top N event names by occurrence count.
func TopNamesByFrequency(ws WorkingSet, n int) []NameCount {
	if n <= 0 || len(ws) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, ev := range ws {
		counts[ev.Name]++
	}
	items := make([]NameCount, 0, len(counts))
	for name, total := range counts {
		items = append(items, NameCount{Name: name, Count: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Name < items[j].Name
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
