// Package export renders validated schedules into the artifacts handed to
// humans and downstream tools: the schedule table (CSV/JSON), per-mentor
// markdown descriptions and per-day summary tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/slots"
)

// Row is one scheduled meeting with everything the exporters and the calendar
// sync need, resolved from the rosters and the grid.
type Row struct {
	Summary     string    `json:"summary"`
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
	Company     string    `json:"company"`
	Mentor      string    `json:"mentor"`
	MentorID    string    `json:"mentor_id"`
	CompanyID   string    `json:"company_id"`
	Slot        int       `json:"slot_index"`
	Description string    `json:"description"`
	Attendees   []string  `json:"attendees"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
}

// BuildRows resolves the schedule against the grid and rosters. The lookbook
// base URL, when set, yields a per-mentor location link.
func BuildRows(sched model.Schedule, grid slots.Grid, mentors []model.Mentor, companies []model.Company, lookbookURL string) ([]Row, error) {
	mentorByID := make(map[string]model.Mentor, len(mentors))
	for _, m := range mentors {
		mentorByID[m.ID] = m
	}
	companyByID := make(map[string]model.Company, len(companies))
	for _, c := range companies {
		companyByID[c.ID] = c
	}
	grids := grid.Slots()

	rows := make([]Row, 0, len(sched.Meetings))
	for _, mt := range sched.Meetings {
		m, ok := mentorByID[mt.MentorID]
		if !ok {
			return nil, fmt.Errorf("export: unknown mentor %s", mt.MentorID)
		}
		c, ok := companyByID[mt.CompanyID]
		if !ok {
			return nil, fmt.Errorf("export: unknown company %s", mt.CompanyID)
		}
		if mt.Slot < 0 || mt.Slot >= len(grids) {
			return nil, fmt.Errorf("export: meeting slot %d outside grid", mt.Slot)
		}
		slot := grids[mt.Slot]
		location := ""
		if lookbookURL != "" {
			location = strings.TrimSuffix(lookbookURL, "/") + "/mentor/" + m.ID
		}
		rows = append(rows, Row{
			Summary:     fmt.Sprintf("%s <> %s", m.Name, c.Name),
			Start:       slot.Start,
			End:         slot.End,
			Company:     c.Name,
			Mentor:      m.Name,
			MentorID:    m.ID,
			CompanyID:   c.ID,
			Slot:        mt.Slot,
			Description: describeMentor(m),
			Attendees:   append([]string(nil), c.Attendees...),
			Location:    location,
			Date:        mt.Date,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Slot != rows[j].Slot {
			return rows[i].Slot < rows[j].Slot
		}
		return rows[i].MentorID < rows[j].MentorID
	})
	return rows, nil
}

func describeMentor(m model.Mentor) string {
	role := m.Role
	if role == "" {
		role = "Mentor"
	}
	return fmt.Sprintf("%s, %s, %s: %s", m.Name, role, m.Company, m.Bio)
}

// WriteJSON writes the schedule rows to w in JSON format.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes the schedule rows to w with the schedule table headers.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"summary", "start_time", "end_time", "company", "mentor", "description", "attendees", "location", "date"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Summary,
			r.Start.Format(time.RFC3339),
			r.End.Format(time.RFC3339),
			r.Company,
			r.Mentor,
			r.Description,
			strings.Join(r.Attendees, ", "),
			r.Location,
			r.Date,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
