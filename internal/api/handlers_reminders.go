// handlers_reminders.go - Calendar reminder handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReminderHandlerImpl implements the ReminderHandler interface
type ReminderHandlerImpl struct {
	svc       ReminderService
	roommates []string
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(svc ReminderService, roommates []string) ReminderHandler {
	return &ReminderHandlerImpl{svc: svc, roommates: roommates}
}

// HandleEnsureReminders upserts the monthly reminder event for every
// roommate
func (h *ReminderHandlerImpl) HandleEnsureReminders(c echo.Context) error {
	if h.svc == nil || !h.svc.Enabled() {
		return NewBadRequestError("calendar reminders are not configured", nil)
	}
	ensured, err := h.svc.EnsureReminders(c.Request().Context(), h.roommates)
	if err != nil {
		return NewUpstreamError("could not update calendar reminders", err)
	}
	return c.JSON(http.StatusOK, map[string]int{"ensured": ensured})
}
