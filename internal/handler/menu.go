package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mulleragustin/laqueva/internal/cart"
	"github.com/mulleragustin/laqueva/internal/menu"
)

// MenuHandler serves the static catalog and builds dual-flavor lines.
type MenuHandler struct {
	now func() time.Time
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler() *MenuHandler {
	return &MenuHandler{now: time.Now}
}

// RegisterRoutes registers menu endpoints. Expected to be mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Catalog)
	r.Get("/flavors", h.Flavors)
	r.Post("/dual-flavor", h.DualFlavor)
}

// Catalog handles GET /menu.
func (h *MenuHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, menu.Catalog)
}

// Flavors handles GET /menu/flavors, the pizzas available as dual-flavor
// halves.
func (h *MenuHandler) Flavors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, menu.Flavors())
}

type dualFlavorRequest struct {
	FlavorAID int64 `json:"flavor_a_id"`
	FlavorBID int64 `json:"flavor_b_id"`
}

// DualFlavor handles POST /menu/dual-flavor. It composes a cart-ready
// half-and-half line priced as the rounded average of its halves.
func (h *MenuHandler) DualFlavor(w http.ResponseWriter, r *http.Request) {
	var req dualFlavorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	a, ok := menu.ByID(req.FlavorAID)
	if !ok || a.IsPromo {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown flavor_a_id"})
		return
	}
	b, ok := menu.ByID(req.FlavorBID)
	if !ok || b.IsPromo {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown flavor_b_id"})
		return
	}
	if a.ID == b.ID {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "flavors must differ"})
		return
	}

	item := cart.Item{
		ID:           menu.DualFlavorID(a, b, h.now()),
		Name:         menu.DualFlavorName(a, b),
		UnitPrice:    menu.DualFlavorPrice(a, b),
		Quantity:     1,
		IsDualFlavor: true,
		Flavors: []cart.Flavor{
			{ID: a.ID, Name: a.Name, UnitPrice: a.Price, Ingredients: a.Ingredients},
			{ID: b.ID, Name: b.Name, UnitPrice: b.Price, Ingredients: b.Ingredients},
		},
		PizzaCount: 1,
	}
	writeJSON(w, http.StatusOK, item)
}
