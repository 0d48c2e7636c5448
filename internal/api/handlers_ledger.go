// handlers_ledger.go - Entry listing and submission handlers
package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/houseledger/backend/internal/ledger"
	"github.com/houseledger/backend/internal/models"
)

// LedgerHandlerImpl implements the LedgerHandler interface
type LedgerHandlerImpl struct {
	svc LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(svc LedgerService) LedgerHandler {
	return &LedgerHandlerImpl{svc: svc}
}

func (h *LedgerHandlerImpl) view(c echo.Context) (*models.View, error) {
	entries, err := h.svc.LoadEntries(c.Request().Context())
	if err != nil {
		if errors.Is(err, ledger.ErrNotConfigured) {
			return nil, NewBadRequestError("spreadsheet id is not configured", err)
		}
		return nil, NewUpstreamError("could not load entries from the tabular store", err)
	}
	filter := models.Filter{
		Roommate: c.QueryParam("roommate"),
		Month:    c.QueryParam("month"),
		Status:   c.QueryParam("status"),
	}
	view := ledger.Materialize(entries, filter)
	return &view, nil
}

// HandleGetEntries returns the filtered entries, totals and filter
// options as JSON
func (h *LedgerHandlerImpl) HandleGetEntries(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// HandleGetEntriesMsgpack returns the same payload msgpack-encoded for
// the table widget's compact transfer path
func (h *LedgerHandlerImpl) HandleGetEntriesMsgpack(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(view)
	if err != nil {
		return NewInternalError("could not encode entries", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

type attachmentRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // base64-encoded content
}

type submitItemRequest struct {
	Category    string              `json:"category"`
	Amount      decimal.Decimal     `json:"amount"`
	Status      string              `json:"status"`
	Date        string              `json:"date"`
	Attachments []attachmentRequest `json:"attachments,omitempty"`
}

type submitRequest struct {
	Roommate string              `json:"roommate"`
	Month    string              `json:"month"`
	Notes    string              `json:"notes,omitempty"`
	Items    []submitItemRequest `json:"items"`
}

// HandleSubmitEntries saves one submission batch: several category
// line items for one roommate and month
func (h *LedgerHandlerImpl) HandleSubmitEntries(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Roommate == "" {
		return NewValidationError("roommate")
	}
	if req.Month == "" {
		return NewValidationError("month")
	}
	if len(req.Items) == 0 {
		return NewValidationError("items")
	}

	batch := models.SubmitBatch{
		Roommate: req.Roommate,
		Month:    req.Month,
		Notes:    req.Notes,
	}
	for _, item := range req.Items {
		if item.Category == "" {
			return NewValidationError("items.category")
		}
		if item.Amount.IsNegative() {
			return NewValidationError("items.amount")
		}
		status := item.Status
		if status == "" {
			status = models.StatusUnpaid
		}
		if status != models.StatusPaid && status != models.StatusUnpaid {
			return NewValidationError("items.status")
		}

		lineItem := models.LineItem{
			Category: item.Category,
			Amount:   item.Amount,
			Status:   status,
			Date:     item.Date,
		}
		for _, a := range item.Attachments {
			if a.Name == "" {
				return NewValidationError("items.attachments.name")
			}
			data, err := base64.StdEncoding.DecodeString(a.Data)
			if err != nil {
				return NewBadRequestError(fmt.Sprintf("invalid base64 content for attachment %s", a.Name), err)
			}
			lineItem.Attachments = append(lineItem.Attachments, models.Attachment{Name: a.Name, Data: data})
		}
		batch.Items = append(batch.Items, lineItem)
	}

	result, err := h.svc.SubmitBatch(c.Request().Context(), batch)
	if err != nil {
		if errors.Is(err, ledger.ErrNotConfigured) {
			return NewBadRequestError("spreadsheet id is not configured", err)
		}
		// Items appended before the failure stay committed; tell the
		// caller how far the batch got.
		return NewUpstreamError(fmt.Sprintf("append failed after saving %d item(s)", result.Saved), err)
	}
	return c.JSON(http.StatusCreated, result)
}
