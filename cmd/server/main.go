package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/houseledger/backend/internal/api"
	"github.com/houseledger/backend/internal/calendar"
	"github.com/houseledger/backend/internal/config"
	"github.com/houseledger/backend/internal/drive"
	"github.com/houseledger/backend/internal/ledger"
	"github.com/houseledger/backend/internal/sheets"
)

// Version info (set during build)
var Version = "dev"

func main() {
	configPath := flag.String("config", "houseledger.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	sheetsClient := sheets.NewClient(sheets.Config{
		BaseURL:       cfg.Sheets.BaseURL,
		Token:         cfg.Sheets.Token,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		Worksheet:     cfg.Sheets.Worksheet,
	})
	driveClient := drive.NewClient(drive.Config{
		BaseURL:      cfg.Drive.BaseURL,
		Token:        cfg.Drive.Token,
		RootFolderID: cfg.Drive.RootFolderID,
	})
	calendarClient := calendar.NewClient(calendar.Config{
		BaseURL:    cfg.Calendar.BaseURL,
		Token:      cfg.Calendar.Token,
		CalendarID: cfg.Calendar.CalendarID,
		Timezone:   cfg.Calendar.Timezone,
		EventHour:  cfg.Calendar.EventHour,
	})

	svc := ledger.NewService(sheetsClient, driveClient)

	handlers := api.NewHandlers(&api.Dependencies{
		Ledger:     svc,
		Reminders:  calendarClient,
		Roommates:  cfg.Roommates,
		Categories: cfg.Categories,
		Version:    Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, handlers)

	fmt.Printf("House Ledger backend %s\n", Version)
	fmt.Printf("  Listen:      http://%s\n", cfg.ServerAddr())
	fmt.Printf("  Spreadsheet: %s\n", orUnset(cfg.Sheets.SpreadsheetID))
	fmt.Printf("  Root folder: %s\n", orUnset(cfg.Drive.RootFolderID))
	if calendarClient.Enabled() {
		fmt.Printf("  Reminders:   enabled (%s)\n", cfg.Calendar.CalendarID)
	} else {
		fmt.Printf("  Reminders:   disabled\n")
	}

	e.Logger.Fatal(e.Start(cfg.ServerAddr()))
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
