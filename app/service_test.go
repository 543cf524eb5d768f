package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/techstars-london/mentormagic/config"
	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/slots"
	infrahistory "github.com/techstars-london/mentormagic/infra/history"
)

type staticRoster struct {
	mentors []model.Mentor
}

func (s staticRoster) MentorsFor(ctx context.Context, date string) ([]model.Mentor, error) {
	return s.mentors, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Companies: []config.CompanyConfig{
			{Name: "Acme", Emails: []string{"founder@acme.io"}},
			{Name: "Nimbus"},
		},
		Slots: []slots.Block{{Start: "09:30", Count: 2, MeetingMins: 25, BreakMins: 5}},
		Output: config.OutputConfig{
			Dir:       filepath.Join(dir, "output"),
			BackupDir: filepath.Join(dir, "output", "backups"),
		},
	}
}

func testService(t *testing.T, cfg *config.Config, mentors []model.Mentor) *Service {
	t.Helper()
	hist, err := infrahistory.NewSQLiteStore(filepath.Join(t.TempDir(), "pairings.db"))
	if err != nil {
		t.Fatalf("history store: %v", err)
	}
	svc := NewWithDeps(cfg, staticRoster{mentors: mentors}, hist, nil, nil)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestScheduleDayWritesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	mentors := []model.Mentor{
		{ID: "amy", Name: "Amy Jones", MaxPerDay: 2},
		{ID: "bob", Name: "Bob Smith", MaxPerDay: 2},
	}
	svc := testService(t, cfg, mentors)

	arts, err := svc.ScheduleDay(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("schedule day: %v", err)
	}
	// 2 mentors x 2 companies x 2 slots: full coverage.
	if got := len(arts.Result.Schedule.Meetings); got != 4 {
		t.Fatalf("expected 4 meetings, got %d", got)
	}
	if len(arts.Result.Unscheduled) != 0 {
		t.Fatalf("unexpected unscheduled entities: %v", arts.Result.Unscheduled)
	}
	if len(arts.Rows) != 4 {
		t.Fatalf("expected 4 export rows, got %d", len(arts.Rows))
	}

	for _, path := range []string{
		arts.SchedulePath,
		filepath.Join(cfg.Output.Dir, "meeting_schedule.json"),
		arts.BackupPath,
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("artifact %s missing: %v", path, err)
		}
	}
}

func TestScheduleDayCommitsHistory(t *testing.T) {
	cfg := testConfig(t)
	mentors := []model.Mentor{{ID: "amy", Name: "Amy Jones", MaxPerDay: 2}}
	svc := testService(t, cfg, mentors)
	ctx := context.Background()

	if _, err := svc.ScheduleDay(ctx, "2025-06-02"); err != nil {
		t.Fatalf("schedule day: %v", err)
	}
	snap, err := svc.hist.Load(ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if !snap.HasMet("amy", "acme") || !snap.HasMet("amy", "nimbus") {
		t.Fatalf("history not committed: %v", snap.Entries())
	}

	// Re-running the same date must not inflate the history.
	before := snap.Len()
	if _, err := svc.ScheduleDay(ctx, "2025-06-02"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	snap, err = svc.hist.Load(ctx)
	if err != nil {
		t.Fatalf("reload history: %v", err)
	}
	if snap.Len() != before {
		t.Fatalf("rerun inflated history from %d to %d", before, snap.Len())
	}
}

func TestScheduleDayAvoidsRepeatsAcrossDates(t *testing.T) {
	cfg := testConfig(t)
	// One slot per day: each mentor meets exactly one company per date.
	cfg.Slots = []slots.Block{{Start: "09:30", Count: 1, MeetingMins: 25, BreakMins: 5}}
	mentors := []model.Mentor{{ID: "amy", Name: "Amy Jones", MaxPerDay: 1}}
	svc := testService(t, cfg, mentors)
	ctx := context.Background()

	first, err := svc.ScheduleDay(ctx, "2025-06-02")
	if err != nil {
		t.Fatalf("first day: %v", err)
	}
	second, err := svc.ScheduleDay(ctx, "2025-06-09")
	if err != nil {
		t.Fatalf("second day: %v", err)
	}
	a := first.Result.Schedule.Meetings[0].CompanyID
	b := second.Result.Schedule.Meetings[0].CompanyID
	if a == b {
		t.Fatalf("second day repeated company %s despite a novel option", a)
	}
	if second.Result.Repeats != 0 {
		t.Fatalf("unexpected repeats: %d", second.Result.Repeats)
	}
}

func TestScheduleDayRosterError(t *testing.T) {
	cfg := testConfig(t)
	mentors := []model.Mentor{{ID: "amy", Name: "Amy Jones", MaxPerDay: 0}}
	svc := testService(t, cfg, mentors)
	if _, err := svc.ScheduleDay(context.Background(), "2025-06-02"); err == nil {
		t.Fatalf("expected integrity error for zero daily bound")
	}
}
