// Package slots builds the ordered time-slot grid for a scheduling day.
package slots

import (
	"fmt"
	"time"

	"github.com/techstars-london/mentormagic/core/model"
)

// Block describes one contiguous run of meeting slots, e.g. the morning block
// starting at 09:30 with five 25-minute meetings and 5-minute breaks.
type Block struct {
	Start       string `json:"start" yaml:"start"` // HH:MM, local to the scheduling day
	Count       int    `json:"count" yaml:"count"`
	MeetingMins int    `json:"meeting_minutes" yaml:"meeting_minutes"`
	BreakMins   int    `json:"break_minutes" yaml:"break_minutes"`
}

// Grid is the fixed ordered sequence of time slots for one configuration.
// It is identical across dates unless reconfigured.
type Grid struct {
	slots []model.TimeSlot
}

// Build constructs the grid for the given date from the configured blocks.
// Slot indices are assigned in block order.
func Build(date string, blocks []Block) (Grid, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Grid{}, fmt.Errorf("slots: parse date %q: %w", date, err)
	}
	var out []model.TimeSlot
	idx := 0
	for i, b := range blocks {
		if b.Count <= 0 || b.MeetingMins <= 0 {
			return Grid{}, fmt.Errorf("slots: block %d: count and meeting_minutes must be positive", i)
		}
		start, err := time.Parse("15:04", b.Start)
		if err != nil {
			return Grid{}, fmt.Errorf("slots: block %d: parse start %q: %w", i, b.Start, err)
		}
		cur := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
		for n := 0; n < b.Count; n++ {
			end := cur.Add(time.Duration(b.MeetingMins) * time.Minute)
			out = append(out, model.TimeSlot{Index: idx, Start: cur, End: end})
			cur = end.Add(time.Duration(b.BreakMins) * time.Minute)
			idx++
		}
	}
	return Grid{slots: out}, nil
}

// Slots returns the ordered slot sequence. Callers must treat it as read-only.
func (g Grid) Slots() []model.TimeSlot { return g.slots }

// Len returns the number of slots in the grid.
func (g Grid) Len() int { return len(g.slots) }

// Contains reports whether the slot index falls inside the grid's range.
func (g Grid) Contains(index int) bool { return index >= 0 && index < len(g.slots) }

// Default returns the grid blocks used by the original Mentor Magic days:
// five morning meetings from 09:30 and three afternoon meetings from 12:15,
// 25 minutes each with 5-minute breaks.
func Default() []Block {
	return []Block{
		{Start: "09:30", Count: 5, MeetingMins: 25, BreakMins: 5},
		{Start: "12:15", Count: 3, MeetingMins: 25, BreakMins: 5},
	}
}
