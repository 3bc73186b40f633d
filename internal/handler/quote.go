package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/mulleragustin/laqueva/internal/shipping"
)

// QuoteHandler serves delivery fee quotes. Each storefront session gets its
// own quoter so a slow lookup for one customer never clobbers another's
// quote.
type QuoteHandler struct {
	calc *shipping.Calculator

	mu      sync.Mutex
	quoters map[string]*shipping.Quoter
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(calc *shipping.Calculator) *QuoteHandler {
	return &QuoteHandler{calc: calc, quoters: make(map[string]*shipping.Quoter)}
}

// RegisterRoutes registers quote endpoints. Expected to be mounted at
// /delivery.
func (h *QuoteHandler) RegisterRoutes(r chi.Router) {
	r.Post("/quote", h.Quote)
	r.Get("/quote", h.Latest)
	r.Delete("/quote", h.Reset)
}

func (h *QuoteHandler) quoter(sessionID string) *shipping.Quoter {
	h.mu.Lock()
	defer h.mu.Unlock()
	q, ok := h.quoters[sessionID]
	if !ok {
		q = shipping.NewQuoter(h.calc)
		h.quoters[sessionID] = q
	}
	return q
}

type quoteRequest struct {
	Address string `json:"address"`
}

// Quote handles POST /delivery/quote. The response is the session's latest
// quote, which may belong to a newer request than this one.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "address is required"})
		return
	}

	quote := h.quoter(sid).Request(r.Context(), req.Address)
	writeJSON(w, http.StatusOK, quote)
}

// Latest handles GET /delivery/quote.
func (h *QuoteHandler) Latest(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.quoter(sid).Latest())
}

// Reset handles DELETE /delivery/quote, used when the customer switches back
// to pickup.
func (h *QuoteHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	h.quoter(sid).Reset()
	writeJSON(w, http.StatusOK, shipping.Quote{State: shipping.StateUnset})
}
