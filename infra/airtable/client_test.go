package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/techstars-london/mentormagic/core/model"
)

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if cfg.Token == "" {
		cfg.Token = "key-test"
	}
	if cfg.BaseID == "" {
		cfg.BaseID = "appTest"
	}
	if cfg.TableID == "" {
		cfg.TableID = "tblTest"
	}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.apiURL = srv.URL
	return c
}

func page(records []record, offset string) []byte {
	b, _ := json.Marshal(listResponse{Records: records, Offset: offset})
	return b
}

func TestMentorsForFiltersAndMaps(t *testing.T) {
	records := []record{
		{ID: "rec1", Fields: map[string]any{
			"Name": "Amy Jones", "Date": "2025-06-02", "Email": "amy@example.com",
			"Role": "CTO", "Company": "Widgets Ltd", "Bio": "Scaling teams.",
			"Max Meetings": float64(6), "Unavailable Slots": "0, 3",
		}},
		{ID: "rec2", Fields: map[string]any{"Name": "Bob Smith", "Date": "2025-06-09", "Max Meetings": float64(4)}},
		{ID: "rec3", Fields: map[string]any{"Date": "2025-06-02"}}, // no name, skipped
	}
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key-test" {
			t.Errorf("authorization header: %q", got)
		}
		_, _ = w.Write(page(records, ""))
	})

	mentors, err := c.MentorsFor(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(mentors) != 1 {
		t.Fatalf("expected 1 mentor for the date, got %d", len(mentors))
	}
	m := mentors[0]
	if m.ID != "amy-jones" || m.Name != "Amy Jones" || m.Email != "amy@example.com" {
		t.Fatalf("identity mapping: %+v", m)
	}
	if m.MaxPerDay != 6 {
		t.Fatalf("max per day: %d", m.MaxPerDay)
	}
	if !m.UnavailableIn(0) || !m.UnavailableIn(3) || m.UnavailableIn(1) {
		t.Fatalf("unavailable slots: %v", m.Unavailable)
	}
	if m.Role != "CTO" || m.Company != "Widgets Ltd" || m.Bio != "Scaling teams." {
		t.Fatalf("profile mapping: %+v", m)
	}
}

func TestMentorsForPaginates(t *testing.T) {
	calls := 0
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = w.Write(page([]record{{ID: "rec1", Fields: map[string]any{
				"Name": "Amy Jones", "Date": "2025-06-02", "Max Meetings": float64(4),
			}}}, "next-page"))
		case "next-page":
			_, _ = w.Write(page([]record{{ID: "rec2", Fields: map[string]any{
				"Name": "Bob Smith", "Date": "2025-06-02", "Max Meetings": float64(4),
			}}}, ""))
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	mentors, err := c.MentorsFor(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 page fetches, got %d", calls)
	}
	if len(mentors) != 2 {
		t.Fatalf("expected mentors from both pages, got %d", len(mentors))
	}
}

func TestMentorsForMissingMaxMeetings(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(page([]record{{ID: "rec1", Fields: map[string]any{
			"Name": "Amy Jones", "Date": "2025-06-02",
		}}}, ""))
	})
	_, err := c.MentorsFor(context.Background(), "2025-06-02")
	var ierr *model.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ierr.Field != "max_meetings" {
		t.Fatalf("unexpected field %q", ierr.Field)
	}
}

func TestMentorsForConfiguredDefault(t *testing.T) {
	c := newTestClient(t, Config{MaxPerDay: 8}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(page([]record{{ID: "rec1", Fields: map[string]any{
			"Name": "Amy Jones", "Date": "2025-06-02",
		}}}, ""))
	})
	mentors, err := c.MentorsFor(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if mentors[0].MaxPerDay != 8 {
		t.Fatalf("default bound not applied: %d", mentors[0].MaxPerDay)
	}
}

func TestMentorsForBadSlotList(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(page([]record{{ID: "rec1", Fields: map[string]any{
			"Name": "Amy Jones", "Date": "2025-06-02", "Max Meetings": float64(4),
			"Unavailable Slots": "0,two",
		}}}, ""))
	})
	_, err := c.MentorsFor(context.Background(), "2025-06-02")
	var ierr *model.IntegrityError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if ierr.Field != "unavailable_slots" {
		t.Fatalf("unexpected field %q", ierr.Field)
	}
}

func TestMentorsForHTTPError(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if _, err := c.MentorsFor(context.Background(), "2025-06-02"); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestParseSlotListArray(t *testing.T) {
	got, err := parseSlotList([]any{float64(1), float64(4)})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := got[1]; !ok {
		t.Fatalf("missing index 1: %v", got)
	}
	if _, ok := got[4]; !ok {
		t.Fatalf("missing index 4: %v", got)
	}
	if _, err := parseSlotList(42); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Amy Jones":     "amy-jones",
		"  Bob  Smith ": "bob-smith",
		"ANNA":          "anna",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{BaseID: "app", TableID: "tbl"}).Validate(); err == nil {
		t.Fatalf("expected token error")
	}
	if err := (Config{Token: "key"}).Validate(); err == nil {
		t.Fatalf("expected base/table error")
	}
	if err := (Config{Token: "key", BaseID: "app", TableID: "tbl"}).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
