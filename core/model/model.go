package model

import (
	"fmt"
	"time"
)

// Mentor represents a person offering meeting slots for one day.
// The struct is immutable for the duration of a scheduling run.
type Mentor struct {
	ID          string
	Name        string
	Email       string
	MaxPerDay   int              // maximum meetings the mentor takes in one day
	Unavailable map[int]struct{} // slot indices the mentor cannot attend

	// Optional profile information carried through to descriptions and
	// calendar events.
	Role    string
	Company string
	Bio     string
}

// Company represents a participating organization seeking mentor meetings.
type Company struct {
	ID           string
	Name         string
	Attendees    []string         // founder email addresses invited to each meeting
	SlotCapacity int              // maximum simultaneous meetings per slot, typically 1
	Unavailable  map[int]struct{} // slot indices the company cannot attend
}

// TimeSlot is one fixed interval in the day's schedule grid.
type TimeSlot struct {
	Index int
	Start time.Time
	End   time.Time
}

// Meeting pairs one mentor with one company in one slot on one date.
type Meeting struct {
	MentorID  string
	CompanyID string
	Slot      int
	Date      string // YYYY-MM-DD
}

// UnavailableIn reports whether the mentor cannot attend the given slot.
func (m Mentor) UnavailableIn(slot int) bool {
	_, ok := m.Unavailable[slot]
	return ok
}

// UnavailableIn reports whether the company cannot attend the given slot.
func (c Company) UnavailableIn(slot int) bool {
	_, ok := c.Unavailable[slot]
	return ok
}

// Validate checks that the mentor carries usable scheduling constraints.
func (m Mentor) Validate() error {
	if m.ID == "" {
		return &IntegrityError{Kind: "mentor", Field: "id", Reason: "empty identifier"}
	}
	if m.MaxPerDay <= 0 {
		return &IntegrityError{Kind: "mentor", Entity: m.ID, Field: "max_per_day", Reason: "must be positive"}
	}
	return nil
}

// Validate checks that the company carries usable scheduling constraints.
func (c Company) Validate() error {
	if c.ID == "" {
		return &IntegrityError{Kind: "company", Field: "id", Reason: "empty identifier"}
	}
	if c.SlotCapacity <= 0 {
		return &IntegrityError{Kind: "company", Entity: c.ID, Field: "slot_capacity", Reason: "must be positive"}
	}
	return nil
}

// IntegrityError reports malformed or out-of-range roster input. It is fatal
// for the run; the engine never defaults around it.
type IntegrityError struct {
	Kind   string // "mentor" or "company"
	Entity string // entity identifier, empty if unknown
	Field  string
	Reason string
}

func (e *IntegrityError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("roster integrity: %s %s %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("roster integrity: %s %s: %s %s", e.Kind, e.Entity, e.Field, e.Reason)
}
