package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omlabs/zapbridge/internal/handler/dto"
	"github.com/omlabs/zapbridge/internal/middleware"
	"github.com/omlabs/zapbridge/internal/repository"
	"github.com/omlabs/zapbridge/internal/taskhistory"
	"github.com/omlabs/zapbridge/internal/webhook"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	taskRepo       *repository.TaskRepository
	orderRepo      *repository.OrderRepository
	orderNoteRepo  *repository.OrderNoteRepository
	productRepo    *repository.ProductRepository
	webhookRepo    *repository.WebhookRepository
	registry       *taskhistory.Registry
	dispatcher     *webhook.Dispatcher
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, apiToken string) *Handler {
	// Create repositories
	taskRepo := repository.NewTaskRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	orderNoteRepo := repository.NewOrderNoteRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	subscriptionNoteRepo := repository.NewSubscriptionNoteRepository(pool)
	webhookRepo := repository.NewWebhookRepository(pool)
	jobRepo := repository.NewDeliveryJobRepository(pool)
	transientRepo := repository.NewTransientRepository(pool)

	// Create task history dispatch table and webhook dispatcher
	registry := taskhistory.NewRegistry(taskRepo, orderNoteRepo, subscriptionNoteRepo, productRepo)
	dispatcher := webhook.NewDispatcher(webhookRepo, jobRepo, transientRepo)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(apiToken)

	return &Handler{
		pool:           pool,
		taskRepo:       taskRepo,
		orderRepo:      orderRepo,
		orderNoteRepo:  orderNoteRepo,
		productRepo:    productRepo,
		webhookRepo:    webhookRepo,
		registry:       registry,
		dispatcher:     dispatcher,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Task history
	mux.Handle("GET /api/v1/history", h.auth(h.handleSearchHistory))
	mux.Handle("GET /api/v1/history/stats", h.auth(h.handleHistoryStats))
	mux.Handle("GET /api/v1/history/{id}", h.auth(h.handleGetHistory))

	// Orders and notes
	mux.Handle("POST /api/v1/orders", h.auth(h.handleCreateOrder))
	mux.Handle("PUT /api/v1/orders/{id}", h.auth(h.handleUpdateOrder))
	mux.Handle("POST /api/v1/orders/{id}/notes", h.auth(h.handleCreateOrderNote))
	mux.Handle("DELETE /api/v1/orders/{id}/notes/{note_id}", h.auth(h.handleDeleteOrderNote))

	// Products
	mux.Handle("POST /api/v1/products", h.auth(h.handleCreateProduct))
	mux.Handle("PUT /api/v1/products/{id}", h.auth(h.handleUpdateProduct))

	// Webhook subscriptions
	mux.Handle("GET /api/v1/webhooks", h.auth(h.handleListWebhooks))
	mux.Handle("POST /api/v1/webhooks", h.auth(h.handleCreateWebhook))
	mux.Handle("DELETE /api/v1/webhooks/{id}", h.auth(h.handleDeleteWebhook))
}

func (h *Handler) auth(next http.HandlerFunc) http.Handler {
	return h.authMiddleware.Authenticate(next)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractID extracts and validates a numeric ID from a path parameter.
// Returns (id, true) if valid, (0, false) if invalid (error already sent
// to client).
func extractID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := r.PathValue(param)
	if raw == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", param+" is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", param+" must be a positive integer")
		return 0, false
	}

	return id, true
}
