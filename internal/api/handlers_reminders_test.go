// handlers_reminders_test.go - Tests for calendar reminder handlers
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// mockReminderService implements ReminderService for handler tests
type mockReminderService struct {
	enabled   bool
	ensured   int
	err       error
	lastNames []string
}

func (m *mockReminderService) Enabled() bool { return m.enabled }

func (m *mockReminderService) EnsureReminders(ctx context.Context, roommates []string) (int, error) {
	m.lastNames = roommates
	return m.ensured, m.err
}

func reminderContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/reminders", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestReminderHandler_HandleEnsureReminders(t *testing.T) {
	roommates := []string{"Alice", "Bob"}
	svc := &mockReminderService{enabled: true, ensured: 2}
	handler := NewReminderHandler(svc, roommates)
	c, rec := reminderContext()

	if err := handler.HandleEnsureReminders(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if len(svc.lastNames) != 2 {
		t.Errorf("expected 2 roommates passed through, got %d", len(svc.lastNames))
	}

	var response map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["ensured"] != 2 {
		t.Errorf("expected 2 ensured, got %d", response["ensured"])
	}
}

func TestReminderHandler_HandleEnsureRemindersErrors(t *testing.T) {
	tests := []struct {
		name       string
		svc        ReminderService
		wantStatus int
		errCode    string
	}{
		{
			name:       "no calendar service wired",
			svc:        nil,
			wantStatus: http.StatusBadRequest,
			errCode:    "BAD_REQUEST",
		},
		{
			name:       "calendar feature disabled",
			svc:        &mockReminderService{enabled: false},
			wantStatus: http.StatusBadRequest,
			errCode:    "BAD_REQUEST",
		},
		{
			name:       "calendar store failure",
			svc:        &mockReminderService{enabled: true, err: errors.New("calendar unavailable")},
			wantStatus: http.StatusBadGateway,
			errCode:    "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewReminderHandler(tt.svc, []string{"Alice"})
			c, _ := reminderContext()

			err := handler.HandleEnsureReminders(c)
			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
			}
			if apiErr.Code != tt.errCode {
				t.Errorf("expected error code %s, got %s", tt.errCode, apiErr.Code)
			}
		})
	}
}
