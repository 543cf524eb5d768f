package assign

import (
	"errors"
	"strings"
	"testing"

	"github.com/techstars-london/mentormagic/core/model"
)

func TestValidateCatchesViolations(t *testing.T) {
	grid := testGrid(t, 2)
	mentors := []model.Mentor{mentor("a", 1, 1), mentor("b", 2)}
	companies := []model.Company{company("x", 1)}

	cases := []struct {
		name     string
		meetings []model.Meeting
		want     string
	}{
		{
			name: "mentor double booked",
			meetings: []model.Meeting{
				{MentorID: "b", CompanyID: "x", Slot: 0, Date: "2025-06-02"},
				{MentorID: "b", CompanyID: "x", Slot: 0, Date: "2025-06-02"},
			},
			want: "double-booked",
		},
		{
			name: "mentor over daily bound",
			meetings: []model.Meeting{
				{MentorID: "a", CompanyID: "x", Slot: 0, Date: "2025-06-02"},
				{MentorID: "a", CompanyID: "x", Slot: 1, Date: "2025-06-02"},
			},
			want: "daily bound",
		},
		{
			name: "mentor in unavailable slot",
			meetings: []model.Meeting{
				{MentorID: "a", CompanyID: "x", Slot: 1, Date: "2025-06-02"},
			},
			want: "unavailable slot",
		},
		{
			name: "slot outside grid",
			meetings: []model.Meeting{
				{MentorID: "b", CompanyID: "x", Slot: 7, Date: "2025-06-02"},
			},
			want: "outside the grid",
		},
		{
			name: "unknown company",
			meetings: []model.Meeting{
				{MentorID: "b", CompanyID: "ghost", Slot: 0, Date: "2025-06-02"},
			},
			want: "unknown company",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(grid, mentors, companies, model.Schedule{Date: "2025-06-02", Meetings: tc.meetings})
			var verr *InvariantError
			if !errors.As(err, &verr) {
				t.Fatalf("expected InvariantError, got %v", err)
			}
			if !strings.Contains(verr.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", verr.Error(), tc.want)
			}
		})
	}
}

func TestValidateCompanyCapacity(t *testing.T) {
	grid := testGrid(t, 1)
	mentors := []model.Mentor{mentor("a", 1), mentor("b", 1), mentor("c", 1)}
	companies := []model.Company{company("x", 2)}
	sched := model.Schedule{Date: "2025-06-02", Meetings: []model.Meeting{
		{MentorID: "a", CompanyID: "x", Slot: 0, Date: "2025-06-02"},
		{MentorID: "b", CompanyID: "x", Slot: 0, Date: "2025-06-02"},
	}}
	if err := Validate(grid, mentors, companies, sched); err != nil {
		t.Fatalf("capacity 2 with 2 meetings should pass: %v", err)
	}
	sched.Meetings = append(sched.Meetings, model.Meeting{MentorID: "c", CompanyID: "x", Slot: 0, Date: "2025-06-02"})
	if err := Validate(grid, mentors, companies, sched); err == nil {
		t.Fatalf("expected capacity violation")
	}
}

func TestValidateAcceptsValidSchedule(t *testing.T) {
	grid := testGrid(t, 2)
	mentors := []model.Mentor{mentor("a", 2), mentor("b", 2)}
	companies := []model.Company{company("x", 1), company("y", 1)}
	sched := model.Schedule{Date: "2025-06-02", Meetings: []model.Meeting{
		{MentorID: "a", CompanyID: "x", Slot: 0, Date: "2025-06-02"},
		{MentorID: "b", CompanyID: "y", Slot: 0, Date: "2025-06-02"},
		{MentorID: "a", CompanyID: "y", Slot: 1, Date: "2025-06-02"},
		{MentorID: "b", CompanyID: "x", Slot: 1, Date: "2025-06-02"},
	}}
	if err := Validate(grid, mentors, companies, sched); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}
