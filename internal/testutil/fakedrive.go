// fakedrive.go - In-memory Drive-compatible API for client tests
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const fakeFolderMime = "application/vnd.google-apps.folder"

type fakeDriveItem struct {
	ID       string
	Title    string
	MimeType string
	Parent   string
	Content  []byte
}

// FakeDrive serves the subset of the Drive files API the hierarchical
// file store client uses.
type FakeDrive struct {
	mu    sync.Mutex
	items map[string]*fakeDriveItem
	srv   *httptest.Server

	ListCalls         int
	CreateFolderCalls int
	CreateFileCalls   int
	UploadCalls       int
	PermissionCalls   int

	// FailPermissions makes permission grants return 403.
	FailPermissions bool
	// FailUploadTitle makes the content upload for that file 500.
	FailUploadTitle string
}

// NewFakeDrive starts a fake file store server.
func NewFakeDrive() *FakeDrive {
	f := &FakeDrive{items: make(map[string]*fakeDriveItem)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

// URL returns the base URL to point the client at.
func (f *FakeDrive) URL() string { return f.srv.URL }

// Close shuts the fake server down.
func (f *FakeDrive) Close() { f.srv.Close() }

// FolderID returns the id of the folder with the given title and
// parent, or empty when absent.
func (f *FakeDrive) FolderID(title, parent string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.MimeType == fakeFolderMime && it.Title == title && it.Parent == parent {
			return it.ID
		}
	}
	return ""
}

// FileContent returns the uploaded bytes of the file with the given
// title.
func (f *FakeDrive) FileContent(title string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.MimeType != fakeFolderMime && it.Title == title {
			return it.Content
		}
	}
	return nil
}

var (
	qTitlePattern  = regexp.MustCompile(`title = '([^']*)'`)
	qParentPattern = regexp.MustCompile(`'([^']*)' in parents`)
)

func (f *FakeDrive) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/upload/drive/v2/files/"):
		f.handleUpload(w, r, strings.TrimPrefix(path, "/upload/drive/v2/files/"))
	case strings.HasSuffix(path, "/permissions"):
		f.handlePermissions(w)
	case path == "/drive/v2/files" && r.Method == http.MethodGet:
		f.handleList(w, r)
	case path == "/drive/v2/files" && r.Method == http.MethodPost:
		f.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeDrive) handleList(w http.ResponseWriter, r *http.Request) {
	f.ListCalls++
	q := r.URL.Query().Get("q")
	var title, parent string
	if m := qTitlePattern.FindStringSubmatch(q); m != nil {
		title = m[1]
	}
	if m := qParentPattern.FindStringSubmatch(q); m != nil {
		parent = m[1]
	}

	items := []map[string]string{}
	for _, it := range f.items {
		if it.MimeType == fakeFolderMime && it.Title == title && it.Parent == parent {
			items = append(items, map[string]string{"id": it.ID, "title": it.Title})
		}
	}
	json.NewEncoder(w).Encode(map[string]any{"items": items})
}

func (f *FakeDrive) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		MimeType string `json:"mimeType"`
		Parents  []struct {
			ID string `json:"id"`
		} `json:"parents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item := &fakeDriveItem{
		ID:       uuid.New().String(),
		Title:    req.Title,
		MimeType: req.MimeType,
	}
	if len(req.Parents) > 0 {
		item.Parent = req.Parents[0].ID
	}
	f.items[item.ID] = item

	resp := map[string]string{"id": item.ID, "title": item.Title}
	if req.MimeType == fakeFolderMime {
		f.CreateFolderCalls++
	} else {
		f.CreateFileCalls++
		resp["alternateLink"] = "https://drive.example/file/" + item.ID + "/view"
	}
	json.NewEncoder(w).Encode(resp)
}

func (f *FakeDrive) handleUpload(w http.ResponseWriter, r *http.Request, rest string) {
	f.UploadCalls++
	id, _, _ := strings.Cut(rest, "?")
	item, ok := f.items[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if f.FailUploadTitle != "" && item.Title == f.FailUploadTitle {
		http.Error(w, "injected upload failure", http.StatusInternalServerError)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item.Content = data
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (f *FakeDrive) handlePermissions(w http.ResponseWriter) {
	f.PermissionCalls++
	if f.FailPermissions {
		http.Error(w, "insufficient permissions", http.StatusForbidden)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"role": "reader"})
}
