// Package importer reads and writes raw events as CSV.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/evtrack/internal/calendar"
	"github.com/verte-zerg/evtrack/internal/model"
)

// Column names, in export order.
const (
	ColName  = "event_name"
	ColDate  = "event_date"
	ColNotes = "notes"
)

// Header is the CSV header written by WriteEvents.
var Header = []string{ColName, ColDate, ColNotes}

// ErrEmpty is returned when a file has a header but no rows.
var ErrEmpty = errors.New("no events in file")

// LoadFile reads events from a CSV file.
func LoadFile(path string) ([]model.RawEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return ReadEvents(file)
}

// ReadEvents parses CSV rows. The header row is required and may list the
// columns in any order; notes is optional. Dates must be YYYY-MM-DD.
func ReadEvents(r io.Reader) ([]model.RawEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var events []model.RawEvent
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		ev := model.RawEvent{
			EventName: strings.TrimSpace(field(record, cols[ColName])),
			EventDate: strings.TrimSpace(field(record, cols[ColDate])),
			Notes:     strings.TrimSpace(field(record, cols[ColNotes])),
		}
		if _, err := calendar.ParseDate(ev.EventDate); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return nil, ErrEmpty
	}
	return events, nil
}

// WriteEvents writes the header and one row per event.
func WriteEvents(w io.Writer, events []model.RawEvent) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, ev := range events {
		if err := writer.Write([]string{ev.EventName, ev.EventDate, ev.Notes}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func columnIndex(header []string) (map[string]int, error) {
	cols := map[string]int{ColName: -1, ColDate: -1, ColNotes: -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := cols[name]; ok {
			cols[name] = i
		}
	}
	if cols[ColName] < 0 || cols[ColDate] < 0 {
		return nil, fmt.Errorf("csv header must contain %s and %s", ColName, ColDate)
	}
	return cols, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
