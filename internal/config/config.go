// Package config provides YAML-based configuration for the house
// ledger dashboard.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Drive    DriveConfig    `yaml:"drive"`
	Calendar CalendarConfig `yaml:"calendar"`

	Roommates  []string `yaml:"roommates"`
	Categories []string `yaml:"categories"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	BodyLimit    string `yaml:"bodyLimit"`
	EnableCORS   bool   `yaml:"enableCors"`
	AllowOrigins string `yaml:"allowOrigins"`
}

// SheetsConfig points at the remote tabular store.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheetId"`
	Worksheet     string `yaml:"worksheet"`
	BaseURL       string `yaml:"baseUrl"`
	Token         string `yaml:"token"`
}

// DriveConfig points at the remote hierarchical file store.
type DriveConfig struct {
	RootFolderID string `yaml:"rootFolderId"`
	BaseURL      string `yaml:"baseUrl"`
	Token        string `yaml:"token"`
}

// CalendarConfig enables the optional monthly reminder feature when
// CalendarID is set.
type CalendarConfig struct {
	CalendarID string `yaml:"calendarId"`
	Timezone   string `yaml:"timezone"`
	EventHour  int    `yaml:"eventHour"`
	BaseURL    string `yaml:"baseUrl"`
	Token      string `yaml:"token"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			BodyLimit:    "32M",
			EnableCORS:   true,
			AllowOrigins: "*",
		},
		Sheets: SheetsConfig{
			Worksheet: "Entries",
			BaseURL:   "https://sheets.googleapis.com",
		},
		Drive: DriveConfig{
			BaseURL: "https://www.googleapis.com",
		},
		Calendar: CalendarConfig{
			Timezone:  "America/Los_Angeles",
			EventHour: 9,
			BaseURL:   "https://www.googleapis.com",
		},
		Roommates: []string{
			"Abhinav", "Harsha", "Gowith", "Gautam",
			"Dinesh", "Prudhvi", "Shanmukh",
		},
		Categories: []string{"Rent", "Utilities", "PG&E"},
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults; a present but malformed file is an error. Spreadsheet and
// folder ids are normalized so pasted browser URLs work as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.Sheets.SpreadsheetID = NormalizeSpreadsheetID(cfg.Sheets.SpreadsheetID)
	cfg.Drive.RootFolderID = NormalizeFolderID(cfg.Drive.RootFolderID)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills fields the YAML left zero-valued.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.BindAddress == "" {
		c.Server.BindAddress = def.Server.BindAddress
	}
	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = def.Server.BodyLimit
	}
	if c.Sheets.Worksheet == "" {
		c.Sheets.Worksheet = def.Sheets.Worksheet
	}
	if c.Sheets.BaseURL == "" {
		c.Sheets.BaseURL = def.Sheets.BaseURL
	}
	if c.Drive.BaseURL == "" {
		c.Drive.BaseURL = def.Drive.BaseURL
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = def.Calendar.Timezone
	}
	if c.Calendar.EventHour == 0 {
		c.Calendar.EventHour = def.Calendar.EventHour
	}
	if c.Calendar.BaseURL == "" {
		c.Calendar.BaseURL = def.Calendar.BaseURL
	}
	if len(c.Roommates) == 0 {
		c.Roommates = def.Roommates
	}
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Calendar.EventHour < 0 || c.Calendar.EventHour > 23 {
		return fmt.Errorf("invalid calendar event hour %d", c.Calendar.EventHour)
	}
	return nil
}

// ServerAddr returns the bind address for the HTTP server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

var (
	spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	folderIDPattern      = regexp.MustCompile(`/folders/([a-zA-Z0-9-_]+)`)
)

// NormalizeSpreadsheetID extracts the bare spreadsheet id from a full
// sheet URL. Anything that does not match the URL pattern is returned
// unchanged and left for the first remote call to reject.
func NormalizeSpreadsheetID(value string) string {
	if m := spreadsheetIDPattern.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return value
}

// NormalizeFolderID extracts the bare folder id from a full folder URL.
func NormalizeFolderID(value string) string {
	if m := folderIDPattern.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return value
}
