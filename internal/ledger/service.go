// Package ledger coordinates the remote tabular store, the remote file
// store and the in-memory view of the household ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/houseledger/backend/internal/models"
)

// ErrNotConfigured is returned before any remote call is attempted when
// a required store identifier is missing from the configuration.
var ErrNotConfigured = errors.New("store identifier is not configured")

// TabularStore is the remote spreadsheet-style store holding entry
// rows. Implementations must keep the canonical header invariant.
type TabularStore interface {
	EnsureHeaders(ctx context.Context) error
	AppendRow(ctx context.Context, row []string) error
	ReadRows(ctx context.Context) ([][]string, error)
}

// FileStore is the remote hierarchical store holding receipt
// attachments. permissionErrs reports share grants that failed on
// otherwise-uploaded files; err aborts the whole call and discards any
// links gathered so far.
type FileStore interface {
	UploadAttachments(ctx context.Context, files []models.Attachment, roommate, month, category string) (links []string, permissionErrs []error, err error)
}

const timestampLayout = "2006-01-02 15:04:05"

// Service is the submission orchestrator. It owns the entry cache and
// is the only component that invalidates it.
type Service struct {
	tabular TabularStore
	files   FileStore
	cache   Cache
	now     func() time.Time
}

// NewService creates a ledger service. files may be nil when no file
// store is configured; attachments are then skipped entirely.
func NewService(tabular TabularStore, files FileStore) *Service {
	return &Service{
		tabular: tabular,
		files:   files,
		now:     time.Now,
	}
}

// SetClock overrides the timestamp source used for appended rows.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SubmitBatch appends one row per line item, in input order.
//
// Attachment upload failures are non-fatal: the row is still written,
// just without links, and the problem is reported as a warning. A row
// append failure halts the batch immediately; items already appended
// stay committed, remaining items are never attempted. The entry cache
// is invalidated whether the batch completed fully or partially.
func (s *Service) SubmitBatch(ctx context.Context, batch models.SubmitBatch) (*models.SaveResult, error) {
	result := &models.SaveResult{}
	if len(batch.Items) == 0 {
		return result, nil
	}

	if err := s.tabular.EnsureHeaders(ctx); err != nil {
		return result, err
	}
	defer s.cache.Invalidate()

	for _, item := range batch.Items {
		var links []string
		if s.files != nil && len(item.Attachments) > 0 {
			uploaded, permissionErrs, err := s.files.UploadAttachments(ctx, item.Attachments, batch.Roommate, batch.Month, item.Category)
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("attachment upload failed for %s: %v", item.Category, err))
			} else {
				links = uploaded
				for _, pe := range permissionErrs {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("share permission not granted for %s: %v", item.Category, pe))
				}
			}
		}

		entry := models.Entry{
			Timestamp: s.now().Format(timestampLayout),
			Roommate:  batch.Roommate,
			Month:     batch.Month,
			Category:  item.Category,
			Amount:    item.Amount,
			Status:    item.Status,
			Date:      item.Date,
			Notes:     batch.Notes,
			FileLinks: strings.Join(links, "; "),
		}
		if err := s.tabular.AppendRow(ctx, entry.Row()); err != nil {
			return result, fmt.Errorf("appending %s entry: %w", item.Category, err)
		}
		result.Saved++
	}
	return result, nil
}

// LoadEntries returns the full entry set, serving the cached snapshot
// when one is valid. The cache holds a single process-wide value shared
// by all viewers until the next submission invalidates it.
func (s *Service) LoadEntries(ctx context.Context) ([]models.Entry, error) {
	if entries, ok := s.cache.Get(); ok {
		return entries, nil
	}
	rows, err := s.tabular.ReadRows(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]models.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.EntryFromRow(row))
	}
	s.cache.Set(entries)
	return entries, nil
}
