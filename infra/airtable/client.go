// Package airtable fetches the mentor roster from the Airtable REST API.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/infra/logger"
)

// Config holds the Airtable connection settings.
type Config struct {
	Token   string `json:"token" yaml:"token"`
	BaseID  string `json:"base_id" yaml:"base_id"`
	TableID string `json:"table_id" yaml:"table_id"`
	// MaxPerDay is the default daily meeting bound applied when the roster
	// table does not carry a Max Meetings column. Zero means the column is
	// mandatory.
	MaxPerDay int `json:"max_per_day" yaml:"max_per_day"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("airtable: token is required")
	}
	if c.BaseID == "" || c.TableID == "" {
		return fmt.Errorf("airtable: base_id and table_id are required")
	}
	return nil
}

// Client fetches mentor records over the Airtable REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	log    logger.Logger
	apiURL string
}

// NewClient creates an Airtable client for the configured base and table.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    logger.New("airtable"),
		apiURL: fmt.Sprintf("https://api.airtable.com/v0/%s/%s", cfg.BaseID, cfg.TableID),
	}, nil
}

type record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset"`
}

// MentorsFor fetches all records and maps those matching the target date to
// mentors. Records without a Date or Name field are skipped; malformed
// constraint fields abort with a model.IntegrityError.
func (c *Client) MentorsFor(ctx context.Context, date string) ([]model.Mentor, error) {
	records, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Infof("fetched %d records from Airtable", len(records))

	var mentors []model.Mentor
	for _, r := range records {
		name, _ := r.Fields["Name"].(string)
		recDate, _ := r.Fields["Date"].(string)
		if name == "" || recDate != date {
			continue
		}
		m, err := c.toMentor(name, r.Fields)
		if err != nil {
			return nil, err
		}
		mentors = append(mentors, m)
	}
	c.log.Infof("%d mentors available on %s", len(mentors), date)
	return mentors, nil
}

func (c *Client) list(ctx context.Context) ([]record, error) {
	var all []record
	offset := ""
	for {
		u := c.apiURL
		if offset != "" {
			u += "?offset=" + url.QueryEscape(offset)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("airtable: create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("airtable: fetch records: %w", err)
		}
		var page listResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("airtable: list request failed with status %d", resp.StatusCode)
		}
		if err != nil {
			return nil, fmt.Errorf("airtable: decode records: %w", err)
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

func (c *Client) toMentor(name string, fields map[string]any) (model.Mentor, error) {
	id := Slug(name)
	maxPerDay := c.cfg.MaxPerDay
	if v, ok := fields["Max Meetings"]; ok {
		f, ok := v.(float64)
		if !ok {
			return model.Mentor{}, &model.IntegrityError{Kind: "mentor", Entity: id, Field: "max_meetings", Reason: "not a number"}
		}
		maxPerDay = int(f)
	}
	if maxPerDay <= 0 {
		return model.Mentor{}, &model.IntegrityError{Kind: "mentor", Entity: id, Field: "max_meetings", Reason: "missing or non-positive"}
	}

	unavailable, err := parseSlotList(fields["Unavailable Slots"])
	if err != nil {
		return model.Mentor{}, &model.IntegrityError{Kind: "mentor", Entity: id, Field: "unavailable_slots", Reason: err.Error()}
	}

	email, _ := fields["Email"].(string)
	role, _ := fields["Role"].(string)
	company, _ := fields["Company"].(string)
	bio, _ := fields["Bio"].(string)
	return model.Mentor{
		ID:          id,
		Name:        name,
		Email:       email,
		MaxPerDay:   maxPerDay,
		Unavailable: unavailable,
		Role:        role,
		Company:     company,
		Bio:         bio,
	}, nil
}

// parseSlotList accepts a comma-separated string or a numeric array field and
// returns the set of slot indices.
func parseSlotList(v any) (map[int]struct{}, error) {
	out := make(map[int]struct{})
	switch val := v.(type) {
	case nil:
		return out, nil
	case string:
		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("bad slot index %q", part)
			}
			out[n] = struct{}{}
		}
		return out, nil
	case []any:
		for _, item := range val {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("bad slot index %v", item)
			}
			out[int(f)] = struct{}{}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported field type %T", v)
	}
}

// Slug converts a display name to its lowercase dashed form, used both as the
// stable mentor identifier and in lookbook URLs.
func Slug(name string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(parts, "-")
}
