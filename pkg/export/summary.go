package export

import (
	"encoding/csv"
	"io"
	"sort"
)

// WriteDaySummary writes the per-day pivot table: one row per mentor, one
// column per slot start time, company names as cells.
func WriteDaySummary(w io.Writer, rows []Row) error {
	times := make(map[string]struct{})
	byMentor := make(map[string]map[string]string)
	for _, r := range rows {
		t := r.Start.Format("15:04")
		times[t] = struct{}{}
		if byMentor[r.Mentor] == nil {
			byMentor[r.Mentor] = make(map[string]string)
		}
		byMentor[r.Mentor][t] = r.Company
	}

	var cols []string
	for t := range times {
		cols = append(cols, t)
	}
	sort.Strings(cols)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"mentor"}, cols...)); err != nil {
		return err
	}
	for _, mentor := range mentorNames(rows) {
		rec := []string{mentor}
		for _, t := range cols {
			rec = append(rec, byMentor[mentor][t])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
