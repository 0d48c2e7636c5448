package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Headers is the canonical column order of the entries worksheet. The
// first row of the worksheet must always equal this sequence exactly.
var Headers = []string{
	"timestamp", "roommate", "month", "category",
	"amount", "status", "date", "notes", "file_links",
}

// Payment status values as stored in the sheet.
const (
	StatusPaid   = "Paid"
	StatusUnpaid = "Unpaid"
)

// Entry is one immutable logged payment record. Corrections are new
// rows; there is no update-in-place or delete.
type Entry struct {
	Timestamp string          `json:"timestamp" msgpack:"timestamp"`
	Roommate  string          `json:"roommate" msgpack:"roommate"`
	Month     string          `json:"month" msgpack:"month"`
	Category  string          `json:"category" msgpack:"category"`
	Amount    decimal.Decimal `json:"amount" msgpack:"amount"`
	Status    string          `json:"status" msgpack:"status"`
	Date      string          `json:"date" msgpack:"date"`
	Notes     string          `json:"notes" msgpack:"notes"`
	FileLinks string          `json:"fileLinks" msgpack:"fileLinks"`
}

// Row renders the entry as a sheet row in canonical column order.
func (e Entry) Row() []string {
	return []string{
		e.Timestamp, e.Roommate, e.Month, e.Category,
		e.Amount.String(), e.Status, e.Date, e.Notes, e.FileLinks,
	}
}

// EntryFromRow decodes a raw sheet row. Short rows are padded with
// empty cells; an unparsable amount becomes zero rather than an error
// so a single bad cell cannot take down the whole view.
func EntryFromRow(row []string) Entry {
	cells := make([]string, len(Headers))
	copy(cells, row)

	amount, err := decimal.NewFromString(strings.TrimSpace(cells[4]))
	if err != nil {
		amount = decimal.Zero
	}

	return Entry{
		Timestamp: cells[0],
		Roommate:  cells[1],
		Month:     cells[2],
		Category:  cells[3],
		Amount:    amount,
		Status:    cells[5],
		Date:      cells[6],
		Notes:     cells[7],
		FileLinks: cells[8],
	}
}

// Attachment is a receipt file submitted with a line item.
type Attachment struct {
	Name string
	Data []byte
}

// LineItem is one pending entry awaiting append within a submission
// batch.
type LineItem struct {
	Category    string
	Amount      decimal.Decimal
	Status      string
	Date        string
	Attachments []Attachment
}

// SubmitBatch is one form submission: several category line items for
// one roommate and month.
type SubmitBatch struct {
	Roommate string
	Month    string
	Notes    string
	Items    []LineItem
}

// SaveResult reports the outcome of a submission batch. Warnings carry
// non-fatal attachment and permission problems; the rows themselves
// were still written.
type SaveResult struct {
	Saved    int      `json:"saved"`
	Warnings []string `json:"warnings,omitempty"`
}

// Filter selects a subset of entries. An empty value or "All" matches
// everything in that dimension.
type Filter struct {
	Roommate string
	Month    string
	Status   string
}

// Summary holds the three aggregate sums over a filtered subset.
type Summary struct {
	TotalPaid   decimal.Decimal `json:"totalPaid" msgpack:"totalPaid"`
	TotalUnpaid decimal.Decimal `json:"totalUnpaid" msgpack:"totalUnpaid"`
	TotalAll    decimal.Decimal `json:"totalAll" msgpack:"totalAll"`
}

// View is the materialized dashboard state: the filtered entries, their
// totals, and the distinct filter options present in the sheet.
type View struct {
	Entries   []Entry  `json:"entries" msgpack:"entries"`
	Summary   Summary  `json:"summary" msgpack:"summary"`
	Roommates []string `json:"roommates" msgpack:"roommates"`
	Months    []string `json:"months" msgpack:"months"`
}
