// fakesheets.go - In-memory Sheets-compatible API for client tests
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type valueRange struct {
	Values [][]string `json:"values,omitempty"`
}

// FakeSheets serves the subset of the Sheets values API the tabular
// store client uses, backed by an in-memory workbook.
type FakeSheets struct {
	mu     sync.Mutex
	sheets map[string][][]string // worksheet title -> rows, row 0 is the header
	srv    *httptest.Server

	MetaCalls     int
	AddSheetCalls int
	UpdateCalls   int
	AppendCalls   int
	ReadCalls     int

	// FailNext makes the next N requests fail with FailStatus.
	FailNext   int
	FailStatus int
}

// NewFakeSheets starts a fake workbook server with no worksheets.
func NewFakeSheets() *FakeSheets {
	f := &FakeSheets{sheets: make(map[string][][]string)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

// URL returns the base URL to point the client at.
func (f *FakeSheets) URL() string { return f.srv.URL }

// Close shuts the fake server down.
func (f *FakeSheets) Close() { f.srv.Close() }

// SetSheet seeds a worksheet with rows (row 0 is the header).
func (f *FakeSheets) SetSheet(title string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sheets[title] = rows
}

// Sheet returns a copy of a worksheet's rows.
func (f *FakeSheets) Sheet(title string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([][]string, len(f.sheets[title]))
	copy(rows, f.sheets[title])
	return rows
}

func (f *FakeSheets) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailNext > 0 {
		f.FailNext--
		status := f.FailStatus
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "injected failure", status)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	switch {
	case strings.Contains(path, "/values/"):
		parts := strings.SplitN(path, "/values/", 2)
		f.handleValues(w, r, parts[1])
	case strings.HasSuffix(path, ":batchUpdate"):
		f.handleBatchUpdate(w, r)
	default:
		f.handleMeta(w)
	}
}

func (f *FakeSheets) handleMeta(w http.ResponseWriter) {
	f.MetaCalls++
	type properties struct {
		Title string `json:"title"`
	}
	type sheet struct {
		Properties properties `json:"properties"`
	}
	var sheets []sheet
	for title := range f.sheets {
		sheets = append(sheets, sheet{Properties: properties{Title: title}})
	}
	json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
}

func (f *FakeSheets) handleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	f.AddSheetCalls++
	var req struct {
		Requests []struct {
			AddSheet struct {
				Properties struct {
					Title string `json:"title"`
				} `json:"properties"`
			} `json:"addSheet"`
		} `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, rq := range req.Requests {
		if title := rq.AddSheet.Properties.Title; title != "" {
			if _, ok := f.sheets[title]; !ok {
				f.sheets[title] = nil
			}
		}
	}
	json.NewEncoder(w).Encode(map[string]any{})
}

func (f *FakeSheets) handleValues(w http.ResponseWriter, r *http.Request, rng string) {
	if strings.HasSuffix(rng, ":append") {
		f.handleAppend(w, r, strings.TrimSuffix(rng, ":append"))
		return
	}

	worksheet, ref, _ := strings.Cut(rng, "!")
	rows, exists := f.sheets[worksheet]
	if !exists {
		http.Error(w, `{"error":"worksheet not found"}`, http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.ReadCalls++
		var out valueRange
		if strings.HasPrefix(ref, "A1") {
			if len(rows) > 0 {
				out.Values = [][]string{rows[0]}
			}
		} else if len(rows) > 1 {
			out.Values = rows[1:]
		}
		json.NewEncoder(w).Encode(out)
	case http.MethodPut:
		f.UpdateCalls++
		var in valueRange
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.Values) == 0 {
			http.Error(w, "bad values", http.StatusBadRequest)
			return
		}
		if len(rows) == 0 {
			f.sheets[worksheet] = [][]string{in.Values[0]}
		} else {
			rows[0] = in.Values[0]
		}
		json.NewEncoder(w).Encode(map[string]any{})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (f *FakeSheets) handleAppend(w http.ResponseWriter, r *http.Request, rng string) {
	f.AppendCalls++
	worksheet, _, _ := strings.Cut(rng, "!")
	if _, exists := f.sheets[worksheet]; !exists {
		http.Error(w, `{"error":"worksheet not found"}`, http.StatusBadRequest)
		return
	}
	var in valueRange
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.sheets[worksheet] = append(f.sheets[worksheet], in.Values...)
	json.NewEncoder(w).Encode(map[string]any{})
}
