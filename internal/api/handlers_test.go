// handlers_test.go - Tests for health and config handlers
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealthHandler_HandleHealth(t *testing.T) {
	handler := NewHealthHandler("1.2.3")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleHealth(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status ok, got %s", response["status"])
	}
	if response["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", response["version"])
	}
}

func TestConfigHandler_HandleGetConfig(t *testing.T) {
	roommates := []string{"Alice", "Bob"}
	categories := []string{"Rent", "Utilities"}
	handler := NewConfigHandler(roommates, categories, true)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleGetConfig(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response configResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(response.Roommates) != 2 || response.Roommates[0] != "Alice" {
		t.Errorf("unexpected roommates: %v", response.Roommates)
	}
	if len(response.Categories) != 2 || response.Categories[1] != "Utilities" {
		t.Errorf("unexpected categories: %v", response.Categories)
	}
	if !response.RemindersEnabled {
		t.Error("expected reminders enabled")
	}
}

func TestErrorHandlerWritesStructuredBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(NewValidationError("roommate"), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var response APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %s", response.Code)
	}
	if response.Message != "validation failed for field: roommate" {
		t.Errorf("unexpected message: %s", response.Message)
	}
}
