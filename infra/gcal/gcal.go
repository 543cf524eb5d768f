// Package gcal pushes validated schedules to Google Calendar. Event creation
// is idempotent: every meeting carries a deterministic key stored in the
// event's private extended properties, and an event whose key already exists
// in the calendar is skipped.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/techstars-london/mentormagic/infra/logger"
)

const meetingKeyProperty = "meetingKey"

// meetingKeyNS namespaces the deterministic meeting keys.
var meetingKeyNS = uuid.MustParse("6f7dca1c-10da-4e43-9a0f-5b1d2a0f9b6e")

// Config holds the calendar sync settings.
type Config struct {
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	TokenFile       string `json:"token_file" yaml:"token_file"`
	CalendarName    string `json:"calendar_name" yaml:"calendar_name"`
	// SendUpdates controls attendee notifications: "all", "externalOnly" or "none".
	SendUpdates string `json:"send_updates" yaml:"send_updates"`
	// InsertDelayMs paces event creation to stay under the API rate limits.
	InsertDelayMs int `json:"insert_delay_ms" yaml:"insert_delay_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.CalendarName == "" {
		c.CalendarName = "Mentor Magic Invites"
	}
	if c.SendUpdates == "" {
		c.SendUpdates = "all"
	}
	if c.InsertDelayMs == 0 {
		c.InsertDelayMs = 500
	}
}

// Event is one calendar entry to create.
type Event struct {
	Key         string // deterministic meeting key, see MeetingKey
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// MeetingKey derives the deterministic key for a meeting.
func MeetingKey(mentorID, companyID string, slot int, date string) string {
	return uuid.NewSHA1(meetingKeyNS, []byte(fmt.Sprintf("%s|%s|%d|%s", mentorID, companyID, slot, date))).String()
}

// Syncer creates calendar events for schedules.
type Syncer struct {
	cfg Config
	svc *calendar.Service
	log logger.Logger
}

// NewSyncer builds the calendar service from the configured OAuth credentials
// and a previously stored token. There is no interactive flow; a missing or
// invalid token is an error.
func NewSyncer(ctx context.Context, cfg Config) (*Syncer, error) {
	cfg.SetDefaults()
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("gcal: read credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(creds, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("gcal: parse credentials: %w", err)
	}
	raw, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("gcal: read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("gcal: parse token: %w", err)
	}
	svc, err := calendar.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("gcal: calendar service: %w", err)
	}
	return &Syncer{cfg: cfg, svc: svc, log: logger.New("gcal")}, nil
}

// GetOrCreateCalendar finds the configured calendar by summary name, creating
// it when absent, and returns its identifier.
func (s *Syncer) GetOrCreateCalendar(ctx context.Context) (string, error) {
	list, err := s.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gcal: list calendars: %w", err)
	}
	for _, entry := range list.Items {
		if entry.Summary == s.cfg.CalendarName {
			s.log.Infof("found calendar %q (%s)", s.cfg.CalendarName, entry.Id)
			return entry.Id, nil
		}
	}
	created, err := s.svc.Calendars.Insert(&calendar.Calendar{
		Summary:  s.cfg.CalendarName,
		TimeZone: "UTC",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gcal: create calendar: %w", err)
	}
	s.log.Infof("created calendar %q (%s)", s.cfg.CalendarName, created.Id)
	return created.Id, nil
}

// Sync creates the events in the calendar, skipping any whose meeting key is
// already present. It returns the number of events created and skipped.
func (s *Syncer) Sync(ctx context.Context, calendarID string, events []Event) (created, skipped int, err error) {
	for _, ev := range events {
		exists, err := s.exists(ctx, calendarID, ev.Key)
		if err != nil {
			return created, skipped, err
		}
		if exists {
			s.log.Debugf("event %s already present, skipping", ev.Key)
			skipped++
			continue
		}
		if err := s.insert(ctx, calendarID, ev); err != nil {
			return created, skipped, fmt.Errorf("gcal: insert %q: %w", ev.Summary, err)
		}
		created++
		if err := s.pace(ctx); err != nil {
			return created, skipped, err
		}
	}
	s.log.Infof("calendar sync complete: %d created, %d skipped", created, skipped)
	return created, skipped, nil
}

// pace waits out the configured insert delay, honoring context cancellation so
// an interrupted sync stops between inserts instead of sleeping through it.
func (s *Syncer) pace(ctx context.Context) error {
	if s.cfg.InsertDelayMs <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(s.cfg.InsertDelayMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Syncer) exists(ctx context.Context, calendarID, key string) (bool, error) {
	res, err := s.svc.Events.List(calendarID).
		PrivateExtendedProperty(meetingKeyProperty + "=" + key).
		MaxResults(1).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("gcal: lookup event: %w", err)
	}
	return len(res.Items) > 0, nil
}

func (s *Syncer) insert(ctx context.Context, calendarID string, ev Event) error {
	entry := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: "UTC"},
		Reminders:   &calendar.EventReminders{UseDefault: true, ForceSendFields: []string{"UseDefault"}},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{meetingKeyProperty: ev.Key},
		},
	}
	for _, a := range ev.Attendees {
		entry.Attendees = append(entry.Attendees, &calendar.EventAttendee{Email: a})
	}
	_, err := s.svc.Events.Insert(calendarID, entry).
		SendUpdates(s.cfg.SendUpdates).Context(ctx).Do()
	return err
}
