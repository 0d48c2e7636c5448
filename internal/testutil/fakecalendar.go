// fakecalendar.go - In-memory Calendar-compatible API for client tests
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type fakeEvent struct {
	ID      string   `json:"id"`
	Summary string   `json:"summary"`
	Start   any      `json:"start"`
	End     any      `json:"end"`
	Recur   []string `json:"recurrence"`
}

// FakeCalendar serves the subset of the Calendar events API the
// reminder client uses.
type FakeCalendar struct {
	mu     sync.Mutex
	events map[string]*fakeEvent
	nextID int
	srv    *httptest.Server

	ListCalls   int
	InsertCalls int
	UpdateCalls int
}

// NewFakeCalendar starts a fake calendar server.
func NewFakeCalendar() *FakeCalendar {
	f := &FakeCalendar{events: make(map[string]*fakeEvent)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

// URL returns the base URL to point the client at.
func (f *FakeCalendar) URL() string { return f.srv.URL }

// Close shuts the fake server down.
func (f *FakeCalendar) Close() { f.srv.Close() }

// EventCount returns the number of stored events.
func (f *FakeCalendar) EventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// HasEvent reports whether an event with the given summary exists.
func (f *FakeCalendar) HasEvent(summary string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.Summary == summary {
			return true
		}
	}
	return false
}

func (f *FakeCalendar) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := strings.Index(r.URL.Path, "/events")
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path[idx:], "/events")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		f.handleList(w, r)
	case rest == "" && r.Method == http.MethodPost:
		f.handleInsert(w, r)
	case strings.HasPrefix(rest, "/") && r.Method == http.MethodPut:
		f.handleUpdate(w, r, strings.TrimPrefix(rest, "/"))
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeCalendar) handleList(w http.ResponseWriter, r *http.Request) {
	f.ListCalls++
	q := r.URL.Query().Get("q")
	items := []*fakeEvent{}
	for _, ev := range f.events {
		if ev.Summary == q {
			items = append(items, ev)
			break
		}
	}
	json.NewEncoder(w).Encode(map[string]any{"items": items})
}

func (f *FakeCalendar) handleInsert(w http.ResponseWriter, r *http.Request) {
	f.InsertCalls++
	var ev fakeEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.nextID++
	ev.ID = fmt.Sprintf("evt-%d", f.nextID)
	f.events[ev.ID] = &ev
	json.NewEncoder(w).Encode(ev)
}

func (f *FakeCalendar) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	f.UpdateCalls++
	if _, ok := f.events[id]; !ok {
		http.NotFound(w, r)
		return
	}
	var ev fakeEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ev.ID = id
	f.events[id] = &ev
	json.NewEncoder(w).Encode(ev)
}
