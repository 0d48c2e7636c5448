// mocks.go - Mock store implementations for testing
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/houseledger/backend/internal/ledger"
	"github.com/houseledger/backend/internal/models"
)

// MockTabularStore implements ledger.TabularStore for testing
type MockTabularStore struct {
	mu     sync.Mutex
	Header []string
	Rows   [][]string

	EnsureCalls int
	AppendCalls int
	ReadCalls   int

	EnsureErr error
	ReadErr   error
	// AppendErrAt fails the nth append call (1-based); 0 disables.
	AppendErrAt int
	AppendErr   error
}

// NewMockTabularStore creates an empty mock tabular store
func NewMockTabularStore() *MockTabularStore {
	return &MockTabularStore{}
}

func (m *MockTabularStore) EnsureHeaders(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsureCalls++
	if m.EnsureErr != nil {
		return m.EnsureErr
	}
	m.Header = models.Headers
	return nil
}

func (m *MockTabularStore) AppendRow(ctx context.Context, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls++
	if m.AppendErrAt != 0 && m.AppendCalls == m.AppendErrAt {
		if m.AppendErr != nil {
			return m.AppendErr
		}
		return errors.New("append failed")
	}
	m.Rows = append(m.Rows, row)
	return nil
}

func (m *MockTabularStore) ReadRows(ctx context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls++
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	rows := make([][]string, len(m.Rows))
	copy(rows, m.Rows)
	return rows, nil
}

// Ensure MockTabularStore implements ledger.TabularStore
var _ ledger.TabularStore = (*MockTabularStore)(nil)

// UploadCall records one UploadAttachments invocation
type UploadCall struct {
	Roommate string
	Month    string
	Category string
	Names    []string
}

// MockFileStore implements ledger.FileStore for testing
type MockFileStore struct {
	mu    sync.Mutex
	Calls []UploadCall

	// Links is returned for every successful upload call.
	Links          []string
	PermissionErrs []error
	Err            error
}

// NewMockFileStore creates a mock file store
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{}
}

func (m *MockFileStore) UploadAttachments(ctx context.Context, files []models.Attachment, roommate, month, category string) ([]string, []error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := UploadCall{Roommate: roommate, Month: month, Category: category}
	for _, f := range files {
		call.Names = append(call.Names, f.Name)
	}
	m.Calls = append(m.Calls, call)

	if m.Err != nil {
		return nil, nil, m.Err
	}
	return m.Links, m.PermissionErrs, nil
}

// Ensure MockFileStore implements ledger.FileStore
var _ ledger.FileStore = (*MockFileStore)(nil)
