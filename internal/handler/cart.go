package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/cart"
)

// sessionHeader identifies the storefront session owning a cart.
const sessionHeader = "X-Session-ID"

// CartHandler exposes the session cart over HTTP. The storefront UI
// dispatches the same actions the reducer understands.
type CartHandler struct {
	sessions *cart.Sessions
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(sessions *cart.Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted at /cart.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AddItem)
	r.Patch("/items/{id}", h.UpdateQuantity)
	r.Delete("/items/{id}", h.RemoveItem)
	r.Delete("/", h.Clear)
	r.Post("/toggle", h.Toggle)
}

type cartResponse struct {
	Items      []cart.Item     `json:"items"`
	IsOpen     bool            `json:"is_open"`
	TotalItems int32           `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func toCartResponse(s cart.State) cartResponse {
	items := s.Items
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{
		Items:      items,
		IsOpen:     s.IsOpen,
		TotalItems: s.TotalItems(),
		TotalPrice: s.TotalPrice(),
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing " + sessionHeader + " header"})
		return "", false
	}
	return id, true
}

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(h.sessions.Get(id)))
}

type addItemRequest struct {
	Item cart.Item `json:"item"`
}

// AddItem handles POST /cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Item.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item id is required"})
		return
	}
	if req.Item.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item name is required"})
		return
	}
	if req.Item.UnitPrice.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit price must not be negative"})
		return
	}

	state := h.sessions.Dispatch(id, cart.AddItem{Item: req.Item})
	writeJSON(w, http.StatusOK, toCartResponse(state))
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

// UpdateQuantity handles PATCH /cart/items/{id}. A quantity of zero or below
// removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	state := h.sessions.Dispatch(id, cart.UpdateQuantity{
		ID:       chi.URLParam(r, "id"),
		Quantity: req.Quantity,
	})
	writeJSON(w, http.StatusOK, toCartResponse(state))
}

// RemoveItem handles DELETE /cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	state := h.sessions.Dispatch(id, cart.RemoveItem{ID: chi.URLParam(r, "id")})
	writeJSON(w, http.StatusOK, toCartResponse(state))
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	state := h.sessions.Dispatch(id, cart.Clear{})
	writeJSON(w, http.StatusOK, toCartResponse(state))
}

// Toggle handles POST /cart/toggle.
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	state := h.sessions.Dispatch(id, cart.ToggleOpen{})
	writeJSON(w, http.StatusOK, toCartResponse(state))
}
