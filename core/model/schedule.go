package model

import "sort"

// Schedule is the full set of meetings for one date. It is assembled once by
// the assignment engine and treated as immutable after validation.
type Schedule struct {
	Date     string
	Meetings []Meeting
}

// MentorCounts returns the number of meetings per mentor.
func (s Schedule) MentorCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range s.Meetings {
		counts[m.MentorID]++
	}
	return counts
}

// CompanyCounts returns the number of meetings per company.
func (s Schedule) CompanyCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range s.Meetings {
		counts[m.CompanyID]++
	}
	return counts
}

// BySlot groups meetings by slot index.
func (s Schedule) BySlot() map[int][]Meeting {
	out := make(map[int][]Meeting)
	for _, m := range s.Meetings {
		out[m.Slot] = append(out[m.Slot], m)
	}
	return out
}

// ByMentor returns the meetings of one mentor ordered by slot.
func (s Schedule) ByMentor(mentorID string) []Meeting {
	var out []Meeting
	for _, m := range s.Meetings {
		if m.MentorID == mentorID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// MentorIDs returns the sorted set of mentors appearing in the schedule.
func (s Schedule) MentorIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range s.Meetings {
		if _, ok := seen[m.MentorID]; !ok {
			seen[m.MentorID] = struct{}{}
			ids = append(ids, m.MentorID)
		}
	}
	sort.Strings(ids)
	return ids
}
