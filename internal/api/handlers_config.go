// handlers_config.go - Static dashboard configuration handler
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConfigHandlerImpl implements the ConfigHandler interface
type ConfigHandlerImpl struct {
	roommates        []string
	categories       []string
	remindersEnabled bool
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(roommates, categories []string, remindersEnabled bool) ConfigHandler {
	return &ConfigHandlerImpl{
		roommates:        roommates,
		categories:       categories,
		remindersEnabled: remindersEnabled,
	}
}

type configResponse struct {
	Roommates        []string `json:"roommates"`
	Categories       []string `json:"categories"`
	RemindersEnabled bool     `json:"remindersEnabled"`
}

// HandleGetConfig returns the roommate and category lists the form is
// built from
func (h *ConfigHandlerImpl) HandleGetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, configResponse{
		Roommates:        h.roommates,
		Categories:       h.categories,
		RemindersEnabled: h.remindersEnabled,
	})
}
