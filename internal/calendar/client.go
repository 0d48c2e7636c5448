// Package calendar upserts the optional monthly payment reminders.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/houseledger/backend/internal/retry"
)

// ErrDisabled is returned when no calendar id is configured.
var ErrDisabled = errors.New("calendar: no calendar id configured")

// Config configures a Client. The feature is disabled while CalendarID
// is blank.
type Config struct {
	BaseURL    string
	Token      string
	CalendarID string
	Timezone   string
	EventHour  int
	HTTPClient *http.Client
}

// Client talks to a Calendar-v3-compatible events API. Reminder
// upserts fail fast; there is no retry on this path.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	calendarID string
	timezone   string
	eventHour  int
	now        func() time.Time
}

// NewClient creates a reminder client.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		eventHour:  cfg.EventHour,
		now:        time.Now,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c
}

// Enabled reports whether the reminder feature is configured.
func (c *Client) Enabled() bool {
	return c.calendarID != ""
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type event struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
	Recurrence  []string  `json:"recurrence,omitempty"`
}

type eventList struct {
	Items []event `json:"items"`
}

// EnsureReminders upserts one recurring reminder per roommate: an
// event whose summary exactly matches the per-person string, updated
// in place when found and inserted otherwise, recurring on the 1st of
// every month. Returns the number of reminders ensured.
func (c *Client) EnsureReminders(ctx context.Context, roommates []string) (int, error) {
	if !c.Enabled() {
		return 0, ErrDisabled
	}
	loc, err := time.LoadLocation(c.timezone)
	if err != nil {
		return 0, fmt.Errorf("loading timezone %s: %w", c.timezone, err)
	}

	start := nextFirstOfMonth(c.now().In(loc), c.eventHour)
	end := start.Add(time.Hour)

	ensured := 0
	for _, roommate := range roommates {
		summary := "Rent & Utilities — " + roommate
		body := event{
			Summary:     summary,
			Description: "Monthly reminder to update the house ledger dashboard",
			Start:       eventTime{DateTime: start.Format(time.RFC3339), TimeZone: c.timezone},
			End:         eventTime{DateTime: end.Format(time.RFC3339), TimeZone: c.timezone},
			Recurrence:  []string{"RRULE:FREQ=MONTHLY;BYMONTHDAY=1"},
		}
		if err := c.upsert(ctx, summary, body); err != nil {
			return ensured, fmt.Errorf("ensuring reminder for %s: %w", roommate, err)
		}
		ensured++
	}
	return ensured, nil
}

func (c *Client) upsert(ctx context.Context, summary string, body event) error {
	listPath := fmt.Sprintf("/calendar/v3/calendars/%s/events?q=%s&singleEvents=true&maxResults=1",
		url.PathEscape(c.calendarID), url.QueryEscape(summary))

	var existing eventList
	if err := c.doJSON(ctx, http.MethodGet, listPath, nil, &existing); err != nil {
		return fmt.Errorf("searching events: %w", err)
	}

	if len(existing.Items) > 0 {
		path := fmt.Sprintf("/calendar/v3/calendars/%s/events/%s",
			url.PathEscape(c.calendarID), url.PathEscape(existing.Items[0].ID))
		if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
			return fmt.Errorf("updating event: %w", err)
		}
		return nil
	}

	path := fmt.Sprintf("/calendar/v3/calendars/%s/events", url.PathEscape(c.calendarID))
	if err := c.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// nextFirstOfMonth returns the first of the current month at the given
// hour if it is still ahead, otherwise the first of the next month.
func nextFirstOfMonth(now time.Time, hour int) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, hour, 0, 0, 0, now.Location())
	if !now.Before(first) {
		first = first.AddDate(0, 1, 0)
	}
	return first
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &retry.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
