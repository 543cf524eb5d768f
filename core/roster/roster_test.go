package roster

import (
	"errors"
	"testing"

	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/slots"
)

func grid(t *testing.T) slots.Grid {
	t.Helper()
	g, err := slots.Build("2025-06-02", []slots.Block{{Start: "09:30", Count: 2, MeetingMins: 25, BreakMins: 5}})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestNewSortsByID(t *testing.T) {
	s := New(
		[]model.Mentor{{ID: "zoe", MaxPerDay: 1}, {ID: "amy", MaxPerDay: 1}},
		[]model.Company{{ID: "nimbus", SlotCapacity: 1}, {ID: "acme", SlotCapacity: 1}},
	)
	if s.Mentors()[0].ID != "amy" || s.Companies()[0].ID != "acme" {
		t.Fatalf("rosters not sorted: %v %v", s.Mentors(), s.Companies())
	}
}

func TestValidateOutOfRangeSlot(t *testing.T) {
	s := New(
		[]model.Mentor{{ID: "amy", MaxPerDay: 1, Unavailable: map[int]struct{}{5: {}}}},
		[]model.Company{{ID: "acme", SlotCapacity: 1}},
	)
	err := s.Validate(grid(t))
	var ierr *model.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ierr.Kind != "mentor" || ierr.Entity != "amy" {
		t.Fatalf("unexpected error detail: %+v", ierr)
	}
}

func TestValidateMissingCapacity(t *testing.T) {
	s := New(
		[]model.Mentor{{ID: "amy", MaxPerDay: 1}},
		[]model.Company{{ID: "acme"}},
	)
	err := s.Validate(grid(t))
	var ierr *model.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ierr.Kind != "company" || ierr.Field != "slot_capacity" {
		t.Fatalf("unexpected error detail: %+v", ierr)
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	// Two mentors whose display names slug to the same ID would silently
	// merge their counts and history; the roster must reject them.
	s := New(
		[]model.Mentor{{ID: "amy-jones", Name: "Amy Jones", MaxPerDay: 1}, {ID: "amy-jones", Name: "Amy  Jones", MaxPerDay: 2}},
		[]model.Company{{ID: "acme", SlotCapacity: 1}},
	)
	err := s.Validate(grid(t))
	var ierr *model.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ierr.Kind != "mentor" || ierr.Entity != "amy-jones" || ierr.Field != "id" {
		t.Fatalf("unexpected error detail: %+v", ierr)
	}

	s = New(
		[]model.Mentor{{ID: "amy", MaxPerDay: 1}},
		[]model.Company{{ID: "acme", SlotCapacity: 1}, {ID: "acme", SlotCapacity: 2}},
	)
	err = s.Validate(grid(t))
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ierr.Kind != "company" || ierr.Entity != "acme" {
		t.Fatalf("unexpected error detail: %+v", ierr)
	}
}

func TestValidateOK(t *testing.T) {
	s := New(
		[]model.Mentor{{ID: "amy", MaxPerDay: 2, Unavailable: map[int]struct{}{1: {}}}},
		[]model.Company{{ID: "acme", SlotCapacity: 1}},
	)
	if err := s.Validate(grid(t)); err != nil {
		t.Fatalf("valid roster rejected: %v", err)
	}
}
