// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Ledger     LedgerService
	Reminders  ReminderService
	Roommates  []string
	Categories []string
	Version    string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Ledger   LedgerHandler
	Reminder ReminderHandler
	Config   ConfigHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	remindersEnabled := deps.Reminders != nil && deps.Reminders.Enabled()
	return &Handlers{
		Health:   NewHealthHandler(deps.Version),
		Ledger:   NewLedgerHandler(deps.Ledger),
		Reminder: NewReminderHandler(deps.Reminders, deps.Roommates),
		Config:   NewConfigHandler(deps.Roommates, deps.Categories, remindersEnabled),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/config", handlers.Config.HandleGetConfig)

	apiGroup.GET("/entries", handlers.Ledger.HandleGetEntries)
	apiGroup.GET("/entries/msgpack", handlers.Ledger.HandleGetEntriesMsgpack)
	apiGroup.POST("/entries", handlers.Ledger.HandleSubmitEntries)

	apiGroup.POST("/reminders", handlers.Reminder.HandleEnsureReminders)
}
