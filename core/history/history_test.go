package history

import (
	"reflect"
	"testing"
)

func TestSnapshotHasMet(t *testing.T) {
	s := NewSnapshot([]Entry{{MentorID: "a", CompanyID: "x", Date: "2025-05-26"}})
	if !s.HasMet("a", "x") {
		t.Fatalf("expected (a, x) recorded")
	}
	if s.HasMet("x", "a") {
		t.Fatalf("pair key must be directional mentor->company")
	}
	if s.HasMet("a", "y") {
		t.Fatalf("unexpected pairing")
	}
}

func TestRecordIdempotent(t *testing.T) {
	s := NewSnapshot(nil)
	s.Record("a", "x", "2025-06-02")
	s.Record("a", "x", "2025-06-02")
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry after duplicate record, got %d", s.Len())
	}
	s.Record("a", "x", "2025-06-09")
	if s.Len() != 2 {
		t.Fatalf("expected distinct dates to accumulate, got %d", s.Len())
	}
}

func TestEntriesSorted(t *testing.T) {
	s := NewSnapshot([]Entry{
		{MentorID: "b", CompanyID: "y", Date: "2025-06-02"},
		{MentorID: "a", CompanyID: "z", Date: "2025-06-02"},
		{MentorID: "a", CompanyID: "x", Date: "2025-06-09"},
		{MentorID: "a", CompanyID: "x", Date: "2025-06-02"},
	})
	want := []Entry{
		{MentorID: "a", CompanyID: "x", Date: "2025-06-02"},
		{MentorID: "a", CompanyID: "x", Date: "2025-06-09"},
		{MentorID: "a", CompanyID: "z", Date: "2025-06-02"},
		{MentorID: "b", CompanyID: "y", Date: "2025-06-02"},
	}
	if got := s.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("entries not sorted: %v", got)
	}
}
