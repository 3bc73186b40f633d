package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/receipt"
	"github.com/mulleragustin/laqueva/internal/service"
	"github.com/mulleragustin/laqueva/internal/ws"
)

// OrderServicer defines the service methods needed by the admin order
// handlers. Satisfied by *service.OrderService.
type OrderServicer interface {
	ListOrders(ctx context.Context, status string) ([]database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	SetOrderStatus(ctx context.Context, id uuid.UUID, newStatus string) (database.Order, error)
}

// OrderHandler serves the admin order queue.
type OrderHandler struct {
	svc OrderServicer
	hub Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, hub: hub}
}

// RegisterRoutes registers the order endpoints on an admin-authenticated
// router group.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
	r.Get("/orders/{id}/comanda", h.Comanda)
	r.Get("/orders/{id}/whatsapp", h.WhatsApp)
}

type orderResponse struct {
	ID              string                   `json:"id"`
	OrderNumber     int64                    `json:"order_number"`
	CustomerName    string                   `json:"customer_name"`
	CustomerPhone   string                   `json:"customer_phone"`
	Items           []database.OrderLineItem `json:"items"`
	Subtotal        string                   `json:"subtotal"`
	DeliveryFee     string                   `json:"delivery_fee"`
	TotalAmount     string                   `json:"total_amount"`
	TotalPizzas     int32                    `json:"total_pizzas"`
	DeliveryType    string                   `json:"delivery_type"`
	DeliveryAddress string                   `json:"delivery_address,omitempty"`
	PaymentMethod   string                   `json:"payment_method"`
	PaymentStatus   string                   `json:"payment_status"`
	Status          string                   `json:"status"`
	Notes           string                   `json:"notes,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	ConfirmedAt     *time.Time               `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time               `json:"cancelled_at,omitempty"`
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Items:           o.Items,
		Subtotal:        numericToString(o.Subtotal),
		DeliveryFee:     numericToString(o.DeliveryFee),
		TotalAmount:     numericToString(o.TotalAmount),
		TotalPizzas:     o.TotalPizzas,
		DeliveryType:    o.DeliveryType,
		DeliveryAddress: textOrEmpty(o.DeliveryAddress),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Status:          o.Status,
		Notes:           textOrEmpty(o.Notes),
		CreatedAt:       o.CreatedAt,
		ConfirmedAt:     timestampPtr(o.ConfirmedAt),
		CancelledAt:     timestampPtr(o.CancelledAt),
	}
}

// ListOrders handles GET /admin/orders?status=. An empty status returns the
// active queue (pending plus confirmed).
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list orders"})
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetOrder handles GET /admin/orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.fetchOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/orders/{id}/status. A concurrent
// transition maps to 409 so the admin UI can refetch and retry.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.svc.SetOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
		case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidTransition):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrStatusChanged):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			log.Printf("ERROR: update order status: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to update order"})
		}
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.NewEvent(ws.EventOrderStatusChanged, toOrderResponse(order)))
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// Comanda handles GET /admin/orders/{id}/comanda, returning the printable
// kitchen ticket as HTML.
func (h *OrderHandler) Comanda(w http.ResponseWriter, r *http.Request) {
	order, ok := h.fetchOrder(w, r)
	if !ok {
		return
	}

	html, err := receipt.RenderComanda(order)
	if err != nil {
		log.Printf("ERROR: render comanda: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to render comanda"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

type whatsappResponse struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// WhatsApp handles GET /admin/orders/{id}/whatsapp?kind=. kind selects the
// message body; the link targets the customer's phone.
func (h *OrderHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	order, ok := h.fetchOrder(w, r)
	if !ok {
		return
	}

	kind := receipt.MessageKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = receipt.NewOrderSummary
	}

	text, err := receipt.RenderWhatsAppText(order, kind)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, whatsappResponse{
		Text: text,
		Link: receipt.Link(order.CustomerPhone, text),
	})
}

func (h *OrderHandler) fetchOrder(w http.ResponseWriter, r *http.Request) (database.Order, bool) {
	id, ok := orderID(w, r)
	if !ok {
		return database.Order{}, false
	}

	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
			return database.Order{}, false
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get order"})
		return database.Order{}, false
	}
	return order, true
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return uuid.UUID{}, false
	}
	return id, true
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0"
	}
	return val.(string)
}

func textOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func timestampPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
