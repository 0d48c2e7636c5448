// interfaces.go - Handler and service interface definitions
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/houseledger/backend/internal/models"
)

// LedgerHandler handles entry listing and submission
type LedgerHandler interface {
	HandleGetEntries(c echo.Context) error
	HandleGetEntriesMsgpack(c echo.Context) error
	HandleSubmitEntries(c echo.Context) error
}

// ReminderHandler handles the calendar reminder feature
type ReminderHandler interface {
	HandleEnsureReminders(c echo.Context) error
}

// ConfigHandler exposes the static dashboard configuration
type ConfigHandler interface {
	HandleGetConfig(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// LedgerService is the submission orchestrator consumed by the ledger
// handlers. This allows mocking in tests.
type LedgerService interface {
	SubmitBatch(ctx context.Context, batch models.SubmitBatch) (*models.SaveResult, error)
	LoadEntries(ctx context.Context) ([]models.Entry, error)
}

// ReminderService upserts the recurring payment reminders.
type ReminderService interface {
	Enabled() bool
	EnsureReminders(ctx context.Context, roommates []string) (int, error)
}
