package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeSpreadsheetID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "full url",
			input: "https://docs.example.com/spreadsheets/d/ABC123/edit#gid=0",
			want:  "ABC123",
		},
		{
			name:  "bare id",
			input: "ABC123",
			want:  "ABC123",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "id with dashes and underscores",
			input: "https://x/spreadsheets/d/a-B_c9/edit",
			want:  "a-B_c9",
		},
		{
			name:  "unrelated url passes through",
			input: "https://example.com/other/thing",
			want:  "https://example.com/other/thing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSpreadsheetID(tt.input); got != tt.want {
				t.Errorf("NormalizeSpreadsheetID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeFolderID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "full url",
			input: "https://drive.example.com/drive/folders/XYZ?usp=sharing",
			want:  "XYZ",
		},
		{
			name:  "bare id",
			input: "XYZ",
			want:  "XYZ",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeFolderID(tt.input); got != tt.want {
				t.Errorf("NormalizeFolderID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sheets.Worksheet != "Entries" {
		t.Errorf("expected default worksheet, got %q", cfg.Sheets.Worksheet)
	}
	if len(cfg.Categories) != 3 {
		t.Errorf("expected 3 default categories, got %d", len(cfg.Categories))
	}
	if cfg.Server.Port == 0 {
		t.Error("expected a default port")
	}
}

func TestLoadNormalizesIDsAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "houseledger.yaml")
	data := `
sheets:
  spreadsheetId: https://docs.example.com/spreadsheets/d/SHEET42/edit
drive:
  rootFolderId: https://drive.example.com/drive/folders/FOLDER7
roommates: [Alice, Bob]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sheets.SpreadsheetID != "SHEET42" {
		t.Errorf("spreadsheet id not normalized: %q", cfg.Sheets.SpreadsheetID)
	}
	if cfg.Drive.RootFolderID != "FOLDER7" {
		t.Errorf("folder id not normalized: %q", cfg.Drive.RootFolderID)
	}
	if len(cfg.Roommates) != 2 {
		t.Errorf("expected configured roommates to win, got %v", cfg.Roommates)
	}
	if cfg.Sheets.Worksheet != "Entries" {
		t.Errorf("expected default worksheet fill, got %q", cfg.Sheets.Worksheet)
	}
	if cfg.Calendar.EventHour != 9 {
		t.Errorf("expected default event hour fill, got %d", cfg.Calendar.EventHour)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 99999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for out-of-range port")
	}
}
