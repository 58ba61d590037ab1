package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FixHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type fixHandlerImpl struct {
	fixService attendance.FixService
}

func NewFixHandler(fixService attendance.FixService) FixHandler {
	return &fixHandlerImpl{
		fixService: fixService,
	}
}

// List implements FixHandler.
func (h *fixHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := attendance.ListFixesRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	results, err := h.fixService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Upsert implements FixHandler.
func (h *fixHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpsertFixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode fix request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.fixService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Exception fix saved", result)
}

// Delete implements FixHandler.
func (h *fixHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.fixService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Exception fix deleted", nil)
}
