// Package drive is the client for the remote hierarchical file store
// that organizes receipt attachments into month/roommate/category
// folders under a configured root.
package drive

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

const folderMimeType = "application/vnd.google-apps.folder"

// Config configures a Client. BaseURL and HTTPClient are injectable
// for tests.
type Config struct {
	BaseURL      string
	Token        string
	RootFolderID string
	HTTPClient   *http.Client
}

// Client talks to a Drive-v2-compatible files API. Unlike the tabular
// store client it does not retry: attachment handling is best-effort
// and fails fast.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	rootFolderID string
}

// NewClient creates a file store client.
func NewClient(cfg Config) *Client {
	c := &Client{
		httpClient:   cfg.HTTPClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.Token,
		rootFolderID: cfg.RootFolderID,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c
}

var _ ledger.FileStore = (*Client)(nil)

type fileResource struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	MimeType      string `json:"mimeType,omitempty"`
	AlternateLink string `json:"alternateLink,omitempty"`
	Parents       []struct {
		ID string `json:"id"`
	} `json:"parents,omitempty"`
}

type fileList struct {
	Items []fileResource `json:"items"`
}

type createFileRequest struct {
	Title    string `json:"title"`
	MimeType string `json:"mimeType,omitempty"`
	Parents  []struct {
		ID string `json:"id"`
	} `json:"parents"`
}

func parents(id string) []struct {
	ID string `json:"id"`
} {
	return []struct {
		ID string `json:"id"`
	}{{ID: id}}
}

// EnsureFolder is an idempotent get-or-create: an exact-title,
// non-trashed lookup scoped to the parent, falling back to creation.
// When concurrent callers race past the lookup both create, leaving
// duplicate same-named folders; subsequent calls settle on the first
// listed match.
func (c *Client) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	q := fmt.Sprintf("title = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		name, folderMimeType, parentID)

	var list fileList
	path := "/drive/v2/files?q=" + url.QueryEscape(q)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return "", fmt.Errorf("looking up folder %s: %w", name, err)
	}
	if len(list.Items) > 0 {
		return list.Items[0].ID, nil
	}

	req := createFileRequest{Title: name, MimeType: folderMimeType, Parents: parents(parentID)}
	var created fileResource
	if err := c.doJSON(ctx, http.MethodPost, "/drive/v2/files", req, &created); err != nil {
		return "", fmt.Errorf("creating folder %s: %w", name, err)
	}
	return created.ID, nil
}

// UploadAttachments resolves the month/roommate/category folder chain
// under the root, uploads each file into the deepest folder and
// returns shareable links in input order.
//
// The public-read grant is best-effort: a failed grant is reported in
// permissionErrs but the file still counts as uploaded. Any creation
// or content upload failure aborts the whole call; links gathered for
// earlier files are discarded.
func (c *Client) UploadAttachments(ctx context.Context, files []models.Attachment, roommate, month, category string) (links []string, permissionErrs []error, err error) {
	if c.rootFolderID == "" || len(files) == 0 {
		return nil, nil, nil
	}

	monthID, err := c.EnsureFolder(ctx, month, c.rootFolderID)
	if err != nil {
		return nil, nil, err
	}
	roommateID, err := c.EnsureFolder(ctx, roommate, monthID)
	if err != nil {
		return nil, nil, err
	}
	categoryID, err := c.EnsureFolder(ctx, category, roommateID)
	if err != nil {
		return nil, nil, err
	}

	for _, f := range files {
		link, permErr, err := c.uploadFile(ctx, f, categoryID)
		if err != nil {
			return nil, nil, fmt.Errorf("uploading %s: %w", f.Name, err)
		}
		if permErr != nil {
			permissionErrs = append(permissionErrs, fmt.Errorf("%s: %w", f.Name, permErr))
		}
		links = append(links, link)
	}
	return links, permissionErrs, nil
}

func (c *Client) uploadFile(ctx context.Context, f models.Attachment, folderID string) (link string, permErr, err error) {
	req := createFileRequest{Title: f.Name, Parents: parents(folderID)}
	var created fileResource
	if err := c.doJSON(ctx, http.MethodPost, "/drive/v2/files", req, &created); err != nil {
		return "", nil, fmt.Errorf("creating file: %w", err)
	}

	if err := c.uploadContent(ctx, created.ID, f.Data); err != nil {
		return "", nil, fmt.Errorf("uploading content: %w", err)
	}

	permission := map[string]string{"type": "anyone", "role": "reader"}
	permPath := fmt.Sprintf("/drive/v2/files/%s/permissions", created.ID)
	permErr = c.doJSON(ctx, http.MethodPost, permPath, permission, nil)

	return created.AlternateLink, permErr, nil
}

func (c *Client) uploadContent(ctx context.Context, fileID string, data []byte) error {
	path := fmt.Sprintf("/upload/drive/v2/files/%s?uploadType=media", fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
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
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &retry.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
}
