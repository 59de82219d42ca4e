package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/handler/dto"
	"github.com/omlabs/zapbridge/internal/taskhistory"
)

// handleCreateOrder creates an order, records the action and enqueues
// order.created deliveries.
func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Total == "" {
		h.recordAction(ctx, taskhistory.ResourceOrder,
			domain.ActionCreate(taskhistory.ResourceOrder, domain.NewAPIError("rest_invalid_param", "Total is required.")),
			0, nil)
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "total is required")
		return
	}

	order := &domain.Order{
		Status:     req.Status,
		Currency:   req.Currency,
		Total:      req.Total,
		CustomerID: req.CustomerID,
	}
	if order.Status == "" {
		order.Status = "pending"
	}

	if err := h.orderRepo.Create(ctx, order); err != nil {
		h.recordAction(ctx, taskhistory.ResourceOrder,
			domain.ActionCreate(taskhistory.ResourceOrder, domain.NewAPIError("internal_error", "Internal server error.")),
			0, nil)
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	h.recordAction(ctx, taskhistory.ResourceOrder,
		domain.ActionCreate(taskhistory.ResourceOrder, nil), order.ID, nil)
	h.dispatch(ctx, "order.created", order.ID)

	respondJSON(w, http.StatusCreated, order)
}

// handleUpdateOrder updates an order. A status change additionally
// enqueues the status-changed topics.
func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	order, err := h.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			h.recordAction(ctx, taskhistory.ResourceOrder,
				domain.ActionUpdate(taskhistory.ResourceOrder, domain.NewAPIError("rest_invalid_id", "Invalid ID.")),
				0, nil)
		}
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	previousStatus := order.Status
	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.Currency != nil {
		order.Currency = *req.Currency
	}
	if req.Total != nil {
		order.Total = *req.Total
	}

	if err := h.orderRepo.Update(ctx, order); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	h.recordAction(ctx, taskhistory.ResourceOrder,
		domain.ActionUpdate(taskhistory.ResourceOrder, nil), order.ID, nil)
	h.dispatch(ctx, "order.updated", order.ID)
	if order.Status != previousStatus {
		h.dispatch(ctx, "order.status_changed", order.ID)
		h.dispatch(ctx, "order.status_changed_to_"+order.Status, order.ID)
	}

	respondJSON(w, http.StatusOK, order)
}

// handleCreateOrderNote attaches a note to an order.
func (h *Handler) handleCreateOrderNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CreateOrderNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Note == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "note is required")
		return
	}

	if _, err := h.orderRepo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			noChild := int64(0)
			h.recordAction(ctx, taskhistory.ResourceOrderNote,
				domain.ActionCreate(taskhistory.ResourceOrderNote, domain.NewAPIError("rest_invalid_id", "Invalid ID.")),
				orderID, &noChild)
		}
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	note := &domain.OrderNote{OrderID: orderID, Note: req.Note}
	if err := h.orderNoteRepo.Create(ctx, note); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	h.recordAction(ctx, taskhistory.ResourceOrderNote,
		domain.ActionCreate(taskhistory.ResourceOrderNote, nil), orderID, &note.ID)
	h.dispatch(ctx, "order_note.created", note.ID)

	respondJSON(w, http.StatusCreated, note)
}

// handleDeleteOrderNote deletes a note. The parent order ID is stashed
// before the row disappears so the order_note.deleted delivery can
// still attribute the note to its order.
func (h *Handler) handleDeleteOrderNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := extractID(w, r, "id")
	if !ok {
		return
	}
	noteID, ok := extractID(w, r, "note_id")
	if !ok {
		return
	}

	note, err := h.orderNoteRepo.GetByID(ctx, noteID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}
	if note.OrderID != orderID {
		respondError(w, http.StatusNotFound, "ORDER_NOTE_NOT_FOUND", "order note not found")
		return
	}

	if err := h.dispatcher.StashParentID(ctx, taskhistory.ResourceOrderNote, noteID, orderID); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	if err := h.orderNoteRepo.Delete(ctx, noteID); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	h.dispatch(ctx, "order_note.deleted", noteID)

	w.WriteHeader(http.StatusNoContent)
}
