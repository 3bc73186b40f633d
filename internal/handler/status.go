package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/enum"
	"github.com/mulleragustin/laqueva/internal/middleware"
	"github.com/mulleragustin/laqueva/internal/ws"
)

// StatusStore defines the DB methods needed by the store-status handlers.
// Satisfied by *database.Queries.
type StatusStore interface {
	GetStoreStatus(ctx context.Context) (database.StoreStatus, error)
	SetStoreStatus(ctx context.Context, status, updatedBy string) (database.StoreStatus, error)
}

// StatusHandler serves the storefront open/closed flag.
type StatusHandler struct {
	store StatusStore
	hub   Broadcaster
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(store StatusStore, hub Broadcaster) *StatusHandler {
	return &StatusHandler{store: store, hub: hub}
}

// RegisterPublicRoutes registers the read endpoint on the public router.
func (h *StatusHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/store-status", h.Get)
}

// RegisterAdminRoutes registers the write endpoint on the admin router.
func (h *StatusHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/store-status", h.Set)
}

type statusResponse struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// Get handles GET /store-status.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	status, err := h.store.GetStoreStatus(r.Context())
	if err != nil {
		log.Printf("ERROR: get store status: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get store status"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:    status.Status,
		UpdatedAt: status.UpdatedAt,
		UpdatedBy: status.UpdatedBy,
	})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// Set handles PUT /admin/store-status.
func (h *StatusHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Status != enum.StoreStatusOpen && req.Status != enum.StoreStatusClosed {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "status must be abierto or cerrado"})
		return
	}

	updatedBy := ""
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		updatedBy = claims.Username
	}

	status, err := h.store.SetStoreStatus(r.Context(), req.Status, updatedBy)
	if err != nil {
		log.Printf("ERROR: set store status: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to set store status"})
		return
	}

	resp := statusResponse{
		Status:    status.Status,
		UpdatedAt: status.UpdatedAt,
		UpdatedBy: status.UpdatedBy,
	}
	if h.hub != nil {
		h.hub.Broadcast(ws.NewEvent(ws.EventStoreStatusChanged, resp))
	}
	writeJSON(w, http.StatusOK, resp)
}
