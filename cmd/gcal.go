package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/techstars-london/mentormagic/config"
	"github.com/techstars-london/mentormagic/infra/airtable"
	"github.com/techstars-london/mentormagic/infra/gcal"
	"github.com/techstars-london/mentormagic/pkg/export"
)

var dryRun bool

var gcalCmd = &cobra.Command{
	Use:   "gcal",
	Short: "Push the exported schedule to Google Calendar",
	RunE:  runGcal,
}

func init() {
	gcalCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the events without creating them")
	rootCmd.AddCommand(gcalCmd)
}

func runGcal(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if date == "" {
		return fmt.Errorf("--date is required")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rows, err := loadScheduleRows(cfg)
	if err != nil {
		return err
	}
	rows = export.FilterDate(rows, date)
	if len(rows) == 0 {
		return fmt.Errorf("no meetings found for %s", date)
	}

	events := buildEvents(rows)
	if dryRun {
		for _, ev := range events {
			fmt.Printf("%s  %s - %s  (%d attendees)\n", ev.Summary, ev.Start.Format("15:04"), ev.End.Format("15:04"), len(ev.Attendees))
		}
		return nil
	}

	syncer, err := gcal.NewSyncer(ctx, cfg.Calendar)
	if err != nil {
		return err
	}
	calendarID, err := syncer.GetOrCreateCalendar(ctx)
	if err != nil {
		return err
	}
	created, skipped, err := syncer.Sync(ctx, calendarID, events)
	if err != nil {
		return err
	}
	fmt.Printf("created %d events, skipped %d existing\n", created, skipped)
	return nil
}

func buildEvents(rows []export.Row) []gcal.Event {
	events := make([]gcal.Event, 0, len(rows))
	for _, r := range rows {
		mentorID := r.MentorID
		if mentorID == "" {
			mentorID = airtable.Slug(r.Mentor)
		}
		companyID := r.CompanyID
		if companyID == "" {
			companyID = airtable.Slug(r.Company)
		}
		events = append(events, gcal.Event{
			Key:         gcal.MeetingKey(mentorID, companyID, r.Slot, r.Date),
			Summary:     r.Summary,
			Description: r.Description,
			Location:    r.Location,
			Start:       r.Start,
			End:         r.End,
			Attendees:   r.Attendees,
		})
	}
	return events
}
