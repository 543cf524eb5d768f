package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// ReadCSV parses rows previously written by WriteCSV. The slot index is not
// part of the table; it is reconstructed from the start-time order per date.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("export: read schedule csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("export: empty schedule csv")
	}
	header := records[0]
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, col := range []string{"summary", "start_time", "end_time", "company", "mentor", "date"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("export: schedule csv missing column %q", col)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []Row
	for n, rec := range records[1:] {
		start, err := time.Parse(time.RFC3339, field(rec, "start_time"))
		if err != nil {
			return nil, fmt.Errorf("export: row %d: bad start_time: %w", n+1, err)
		}
		end, err := time.Parse(time.RFC3339, field(rec, "end_time"))
		if err != nil {
			return nil, fmt.Errorf("export: row %d: bad end_time: %w", n+1, err)
		}
		var attendees []string
		for _, a := range strings.Split(field(rec, "attendees"), ",") {
			if a = strings.TrimSpace(a); a != "" {
				attendees = append(attendees, a)
			}
		}
		rows = append(rows, Row{
			Summary:     field(rec, "summary"),
			Start:       start,
			End:         end,
			Company:     field(rec, "company"),
			Mentor:      field(rec, "mentor"),
			Description: field(rec, "description"),
			Attendees:   attendees,
			Location:    field(rec, "location"),
			Date:        field(rec, "date"),
		})
	}
	restoreSlots(rows)
	return rows, nil
}

// restoreSlots rebuilds slot indices from the ordered distinct start times of
// each date.
func restoreSlots(rows []Row) {
	byDate := make(map[string][]time.Time)
	for _, r := range rows {
		byDate[r.Date] = append(byDate[r.Date], r.Start)
	}
	index := make(map[string]map[time.Time]int, len(byDate))
	for date, starts := range byDate {
		sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
		idx := make(map[time.Time]int)
		for _, t := range starts {
			if _, ok := idx[t]; !ok {
				idx[t] = len(idx)
			}
		}
		index[date] = idx
	}
	for i := range rows {
		rows[i].Slot = index[rows[i].Date][rows[i].Start]
	}
}

// FilterDate returns the rows belonging to one date.
func FilterDate(rows []Row, date string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}
