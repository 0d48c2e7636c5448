// Package sheets is the client for the remote tabular store holding
// entry rows: a spreadsheet workbook with one named worksheet.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/houseledger/backend/internal/ledger"
	"github.com/houseledger/backend/internal/models"
	"github.com/houseledger/backend/internal/retry"
)

const defaultWorksheet = "Entries"

// Config configures a Client. Zero fields fall back to sane defaults;
// BaseURL, HTTPClient and Retry are injectable for tests.
type Config struct {
	BaseURL       string
	Token         string
	SpreadsheetID string
	Worksheet     string
	HTTPClient    *http.Client
	Retry         *retry.Executor
}

// Client talks to a Sheets-v4-compatible values API. Every remote call
// goes through the retry executor; this is the only retried layer in
// the system.
type Client struct {
	httpClient    *http.Client
	retry         *retry.Executor
	baseURL       string
	token         string
	spreadsheetID string
	worksheet     string
}

// NewClient creates a tabular store client.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient:    cfg.HTTPClient,
		retry:         cfg.Retry,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         cfg.Token,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.retry == nil {
		c.retry = retry.New()
	}
	if c.worksheet == "" {
		c.worksheet = defaultWorksheet
	}
	return c
}

var _ ledger.TabularStore = (*Client)(nil)

type spreadsheetMeta struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

type valueRange struct {
	Values [][]string `json:"values,omitempty"`
}

type batchUpdateRequest struct {
	Requests []map[string]any `json:"requests"`
}

// EnsureHeaders makes sure the worksheet exists and its first row
// equals the canonical header sequence. Data rows are never touched,
// so a header mismatch heals without losing entries. Idempotent.
func (c *Client) EnsureHeaders(ctx context.Context) error {
	if c.spreadsheetID == "" {
		return fmt.Errorf("sheets: %w", ledger.ErrNotConfigured)
	}

	var meta spreadsheetMeta
	err := c.retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet,
			fmt.Sprintf("/v4/spreadsheets/%s?fields=sheets.properties", c.spreadsheetID), nil, &meta)
	})
	if err != nil {
		return fmt.Errorf("fetching workbook metadata: %w", err)
	}

	exists := false
	for _, s := range meta.Sheets {
		if s.Properties.Title == c.worksheet {
			exists = true
			break
		}
	}

	if !exists {
		add := batchUpdateRequest{Requests: []map[string]any{
			{"addSheet": map[string]any{"properties": map[string]any{"title": c.worksheet}}},
		}}
		err := c.retry.Do(ctx, func() error {
			return c.doJSON(ctx, http.MethodPost,
				fmt.Sprintf("/v4/spreadsheets/%s:batchUpdate", c.spreadsheetID), add, nil)
		})
		if err != nil {
			return fmt.Errorf("creating worksheet %s: %w", c.worksheet, err)
		}
		return c.writeHeaders(ctx)
	}

	var first valueRange
	err = c.retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, c.valuesPath(c.headerRange(), ""), nil, &first)
	})
	if err != nil {
		return fmt.Errorf("reading header row: %w", err)
	}
	if len(first.Values) > 0 && equalRow(first.Values[0], models.Headers) {
		return nil
	}
	return c.writeHeaders(ctx)
}

func (c *Client) writeHeaders(ctx context.Context) error {
	body := valueRange{Values: [][]string{models.Headers}}
	err := c.retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodPut,
			c.valuesPath(c.worksheet+"!A1", "")+"?valueInputOption=USER_ENTERED", body, nil)
	})
	if err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	return nil
}

// AppendRow appends one row below the existing data using insert-at-end
// semantics. Errors propagate to the caller; the submission
// orchestrator treats them as fatal to the rest of its batch.
func (c *Client) AppendRow(ctx context.Context, row []string) error {
	if c.spreadsheetID == "" {
		return fmt.Errorf("sheets: %w", ledger.ErrNotConfigured)
	}
	body := valueRange{Values: [][]string{row}}
	err := c.retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodPost,
			c.valuesPath(c.dataColumnsRange(), ":append")+"?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
			body, nil)
	})
	if err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return nil
}

// ReadRows returns every data row below the header.
func (c *Client) ReadRows(ctx context.Context) ([][]string, error) {
	if c.spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: %w", ledger.ErrNotConfigured)
	}
	var vr valueRange
	err := c.retry.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, c.valuesPath(c.dataRowsRange(), ""), nil, &vr)
	})
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return vr.Values, nil
}

func (c *Client) headerRange() string {
	return fmt.Sprintf("%s!A1:%s1", c.worksheet, lastColumn())
}

func (c *Client) dataRowsRange() string {
	return fmt.Sprintf("%s!A2:%s", c.worksheet, lastColumn())
}

func (c *Client) dataColumnsRange() string {
	return fmt.Sprintf("%s!A:%s", c.worksheet, lastColumn())
}

// lastColumn is derived from the header width so the addressed range
// always covers exactly the canonical columns.
func lastColumn() string {
	return string(rune('A' + len(models.Headers) - 1))
}

func (c *Client) valuesPath(rng, suffix string) string {
	return fmt.Sprintf("/v4/spreadsheets/%s/values/%s%s",
		c.spreadsheetID, url.PathEscape(rng), suffix)
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
	if body != nil {
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

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
