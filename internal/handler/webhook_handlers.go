package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/omlabs/zapbridge/internal/domain"
	"github.com/omlabs/zapbridge/internal/handler/dto"
	"github.com/omlabs/zapbridge/internal/webhook"
)

// handleListWebhooks lists all webhook subscriptions.
func (h *Handler) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	webhooks, err := h.webhookRepo.List(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.WebhooksListResponse{Webhooks: make([]dto.WebhookResponse, 0, len(webhooks))}
	for _, wh := range webhooks {
		resp.Webhooks = append(resp.Webhooks, dto.ToWebhookResponse(wh))
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleCreateWebhook registers a new webhook subscription.
func (h *Handler) handleCreateWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if !webhook.KnownTopic(req.Topic) {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown topic: "+req.Topic)
		return
	}
	parsed, err := url.Parse(req.DeliveryURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "delivery_url must be an absolute URL")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	wh := &domain.Webhook{
		Topic:       req.Topic,
		DeliveryURL: req.DeliveryURL,
		Secret:      req.Secret,
		UserID:      req.UserID,
		Active:      active,
	}
	if err := h.webhookRepo.Create(ctx, wh); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToWebhookResponse(wh))
}

// handleDeleteWebhook removes a webhook subscription.
func (h *Handler) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	webhookID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	if err := h.webhookRepo.Delete(ctx, webhookID); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
