// Package history tracks which (mentor, company) pairs have already met so
// the assignment engine can bias toward novel pairings.
package history

import (
	"context"
	"sort"
)

// Entry is one recorded meeting between a mentor and a company on a date.
type Entry struct {
	MentorID  string
	CompanyID string
	Date      string
}

type pairKey struct {
	mentor  string
	company string
}

// Snapshot is an isolated, in-memory view of the pairing history. Reads are
// side-effect free; Record mutates only the snapshot, never the backing store.
type Snapshot struct {
	pairs map[pairKey]map[string]struct{}
}

// NewSnapshot builds a snapshot from recorded entries.
func NewSnapshot(entries []Entry) *Snapshot {
	s := &Snapshot{pairs: make(map[pairKey]map[string]struct{})}
	for _, e := range entries {
		s.Record(e.MentorID, e.CompanyID, e.Date)
	}
	return s
}

// HasMet reports whether the pair has met on any prior date.
func (s *Snapshot) HasMet(mentorID, companyID string) bool {
	dates, ok := s.pairs[pairKey{mentorID, companyID}]
	return ok && len(dates) > 0
}

// Record adds a meeting to the snapshot. Re-recording an existing pair/date
// is a no-op.
func (s *Snapshot) Record(mentorID, companyID, date string) {
	k := pairKey{mentorID, companyID}
	dates, ok := s.pairs[k]
	if !ok {
		dates = make(map[string]struct{})
		s.pairs[k] = dates
	}
	dates[date] = struct{}{}
}

// Entries returns the snapshot contents sorted by mentor, company and date.
func (s *Snapshot) Entries() []Entry {
	var out []Entry
	for k, dates := range s.pairs {
		for d := range dates {
			out = append(out, Entry{MentorID: k.mentor, CompanyID: k.company, Date: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MentorID != out[j].MentorID {
			return out[i].MentorID < out[j].MentorID
		}
		if out[i].CompanyID != out[j].CompanyID {
			return out[i].CompanyID < out[j].CompanyID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// Len returns the number of recorded pair/date entries.
func (s *Snapshot) Len() int {
	n := 0
	for _, dates := range s.pairs {
		n += len(dates)
	}
	return n
}

// Store loads pairing-history snapshots and commits validated schedules.
// Commit is only invoked after a schedule passes invariant validation and must
// be idempotent.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Commit(ctx context.Context, entries []Entry) error
	Close() error
}
