package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LedgerHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Sync(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService attendance.LedgerService
}

func NewLedgerHandler(ledgerService attendance.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{
		ledgerService: ledgerService,
	}
}

func computeRequest(r *http.Request) (attendance.ComputeLedgerRequest, error) {
	req := attendance.ComputeLedgerRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if u := r.URL.Query().Get("user_id"); u != "" {
		id, err := strconv.ParseInt(u, 10, 64)
		if err != nil || id <= 0 {
			return req, validator.ValidationErrors{{Field: "user_id", Message: "user_id must be a positive number"}}
		}
		req.UserID = &id
	}
	return req, nil
}

// List implements LedgerHandler.
func (h *ledgerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req, err := computeRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ledger, err := h.ledgerService.Compute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, attendance.NewLedgerResponse(ledger), &response.Meta{
		From:       req.From,
		To:         req.To,
		TotalItems: len(ledger.Rows),
	})
}

// Review implements LedgerHandler.
func (h *ledgerHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	req, err := computeRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := h.ledgerService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results := make([]attendance.ComputedRowResponse, 0, len(rows))
	for _, row := range rows {
		results = append(results, attendance.NewComputedRowResponse(row))
	}
	response.SuccessWithMeta(w, results, &response.Meta{
		From:       req.From,
		To:         req.To,
		TotalItems: len(results),
	})
}

// Export implements LedgerHandler.
func (h *ledgerHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req, err := computeRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.ledgerService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, xlsxContentType, fmt.Sprintf("ledger_%s_%s.xlsx", req.From, req.To), data)
}

// Sync implements LedgerHandler.
func (h *ledgerHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	req := attendance.SyncPunchesRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.ledgerService.SyncPunches(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punches synced successfully", result)
}
