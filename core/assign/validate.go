package assign

import (
	"fmt"
	"strings"

	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/slots"
)

// InvariantError reports meetings violating the hard schedule invariants.
// It indicates an assignment-engine defect; the engine never returns a
// schedule that fails validation.
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("schedule invariant violated: %s", strings.Join(e.Violations, "; "))
}

// Validate re-checks the hard invariants over the assembled meeting set,
// independently of the assignment logic:
//
//  1. no mentor appears twice in one slot
//  2. no company exceeds its per-slot capacity
//  3. no mentor exceeds its daily bound
//  4. no entity is scheduled into a slot marked unavailable for it
func Validate(grid slots.Grid, mentors []model.Mentor, companies []model.Company, sched model.Schedule) error {
	mentorByID := make(map[string]model.Mentor, len(mentors))
	for _, m := range mentors {
		mentorByID[m.ID] = m
	}
	companyByID := make(map[string]model.Company, len(companies))
	for _, c := range companies {
		companyByID[c.ID] = c
	}

	var violations []string
	mentorSlot := make(map[string]map[int]int)
	companySlot := make(map[string]map[int]int)
	mentorTotal := make(map[string]int)

	for _, mt := range sched.Meetings {
		if !grid.Contains(mt.Slot) {
			violations = append(violations, fmt.Sprintf("meeting %s/%s references slot %d outside the grid", mt.MentorID, mt.CompanyID, mt.Slot))
			continue
		}
		m, ok := mentorByID[mt.MentorID]
		if !ok {
			violations = append(violations, fmt.Sprintf("meeting references unknown mentor %s", mt.MentorID))
			continue
		}
		c, ok := companyByID[mt.CompanyID]
		if !ok {
			violations = append(violations, fmt.Sprintf("meeting references unknown company %s", mt.CompanyID))
			continue
		}
		if m.UnavailableIn(mt.Slot) {
			violations = append(violations, fmt.Sprintf("mentor %s scheduled in unavailable slot %d", m.ID, mt.Slot))
		}
		if c.UnavailableIn(mt.Slot) {
			violations = append(violations, fmt.Sprintf("company %s scheduled in unavailable slot %d", c.ID, mt.Slot))
		}
		if mentorSlot[m.ID] == nil {
			mentorSlot[m.ID] = make(map[int]int)
		}
		mentorSlot[m.ID][mt.Slot]++
		if mentorSlot[m.ID][mt.Slot] > 1 {
			violations = append(violations, fmt.Sprintf("mentor %s double-booked in slot %d", m.ID, mt.Slot))
		}
		if companySlot[c.ID] == nil {
			companySlot[c.ID] = make(map[int]int)
		}
		companySlot[c.ID][mt.Slot]++
		if companySlot[c.ID][mt.Slot] > c.SlotCapacity {
			violations = append(violations, fmt.Sprintf("company %s over capacity in slot %d", c.ID, mt.Slot))
		}
		mentorTotal[m.ID]++
		if mentorTotal[m.ID] > m.MaxPerDay {
			violations = append(violations, fmt.Sprintf("mentor %s exceeds daily bound of %d", m.ID, m.MaxPerDay))
		}
	}

	if len(violations) > 0 {
		return &InvariantError{Violations: violations}
	}
	return nil
}
