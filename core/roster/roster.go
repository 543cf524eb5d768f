// Package roster holds the in-memory view of mentors and companies eligible
// for one scheduling date. Date filtering is the connector's job; the store
// only validates and serves what it was given.
package roster

import (
	"sort"

	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/slots"
)

// Store is an immutable snapshot of the rosters for one date.
type Store struct {
	mentors   []model.Mentor
	companies []model.Company
}

// New builds a store from the supplied rosters. Entries are sorted by
// identifier so downstream iteration is reproducible.
func New(mentors []model.Mentor, companies []model.Company) *Store {
	ms := append([]model.Mentor(nil), mentors...)
	cs := append([]model.Company(nil), companies...)
	sort.Slice(ms, func(i, j int) bool { return ms[i].ID < ms[j].ID })
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
	return &Store{mentors: ms, companies: cs}
}

// Mentors returns the mentors eligible for the date.
func (s *Store) Mentors() []model.Mentor { return s.mentors }

// Companies returns the companies eligible for the date.
func (s *Store) Companies() []model.Company { return s.companies }

// Validate checks every entity's constraints against the slot grid. Missing
// capacity data, a slot reference outside the grid, or a duplicated identifier
// is reported as an IntegrityError, never silently defaulted. Duplicate IDs
// matter because two entities sharing one would merge their counts and history.
func (s *Store) Validate(grid slots.Grid) error {
	mentorIDs := make(map[string]struct{}, len(s.mentors))
	for _, m := range s.mentors {
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := mentorIDs[m.ID]; dup {
			return &model.IntegrityError{Kind: "mentor", Entity: m.ID, Field: "id", Reason: "duplicate identifier"}
		}
		mentorIDs[m.ID] = struct{}{}
		for idx := range m.Unavailable {
			if !grid.Contains(idx) {
				return &model.IntegrityError{Kind: "mentor", Entity: m.ID, Field: "unavailable", Reason: "slot index out of grid range"}
			}
		}
	}
	companyIDs := make(map[string]struct{}, len(s.companies))
	for _, c := range s.companies {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := companyIDs[c.ID]; dup {
			return &model.IntegrityError{Kind: "company", Entity: c.ID, Field: "id", Reason: "duplicate identifier"}
		}
		companyIDs[c.ID] = struct{}{}
		for idx := range c.Unavailable {
			if !grid.Contains(idx) {
				return &model.IntegrityError{Kind: "company", Entity: c.ID, Field: "unavailable", Reason: "slot index out of grid range"}
			}
		}
	}
	return nil
}
