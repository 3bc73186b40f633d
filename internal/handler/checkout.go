package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/cart"
	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/service"
	"github.com/mulleragustin/laqueva/internal/ws"
)

// CheckoutServicer defines the service methods needed by the checkout
// handler. Satisfied by *service.OrderService.
type CheckoutServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (database.Order, error)
}

// Broadcaster pushes events to admin clients. Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// CheckoutHandler turns a session cart into a persisted order.
type CheckoutHandler struct {
	svc      CheckoutServicer
	sessions *cart.Sessions
	hub      Broadcaster
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc CheckoutServicer, sessions *cart.Sessions, hub Broadcaster) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, sessions: sessions, hub: hub}
}

// RegisterRoutes registers the checkout endpoint.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", h.Checkout)
}

type checkoutRequest struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	DeliveryType  string          `json:"delivery_type"`
	Address       string          `json:"address"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

type checkoutResponse struct {
	Success     bool   `json:"success"`
	OrderNumber int64  `json:"order_number,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Checkout handles POST /checkout. The cart is snapshotted before the order
// is created and only cleared afterwards if no concurrent edit happened; on
// any failure the cart is left intact so the customer can retry.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, checkoutResponse{Success: false, Error: "invalid request body"})
		return
	}

	snapshot, version := h.sessions.Snapshot(sid)

	items := make([]service.CheckoutItem, len(snapshot.Items))
	for i, it := range snapshot.Items {
		items[i] = service.CheckoutItem{
			ID:           it.ID,
			Name:         it.Name,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			IsPromo:      it.IsPromo,
			IsDualFlavor: it.IsDualFlavor,
			Flavors:      toDBFlavors(it.Flavors),
			PizzaCount:   it.PizzaCount,
		}
	}

	order, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         items,
		DeliveryType:  req.DeliveryType,
		Address:       req.Address,
		DeliveryFee:   req.DeliveryFee,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, checkoutResponse{Success: false, Error: err.Error()})
			return
		}
		log.Printf("ERROR: checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, checkoutResponse{
			Success: false,
			Error:   "no pudimos guardar tu pedido, intentá de nuevo",
		})
		return
	}

	if !h.sessions.ClearIfUnchanged(sid, version) {
		log.Printf("cart for session %s edited during checkout, left as-is", sid)
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.NewEvent(ws.EventOrderCreated, toOrderResponse(order)))
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{Success: true, OrderNumber: order.OrderNumber})
}

func toDBFlavors(flavors []cart.Flavor) []database.Flavor {
	if len(flavors) == 0 {
		return nil
	}
	out := make([]database.Flavor, len(flavors))
	for i, f := range flavors {
		out[i] = database.Flavor{
			ID:          f.ID,
			Name:        f.Name,
			UnitPrice:   f.UnitPrice,
			Ingredients: f.Ingredients,
		}
	}
	return out
}
