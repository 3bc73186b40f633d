package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/service"
)

// ReportServicer defines the service methods needed by the reports handler.
// Satisfied by *service.OrderService.
type ReportServicer interface {
	GetDailySales(ctx context.Context, date time.Time) (database.DailySales, error)
}

// ReportHandler serves the admin sales reports.
type ReportHandler struct {
	svc ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc ReportServicer) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// RegisterRoutes registers report endpoints on an admin-authenticated router
// group.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/daily-sales", h.DailySales)
}

type dailySalesResponse struct {
	Date          string `json:"date"`
	TotalRevenue  string `json:"total_revenue"`
	TotalOrders   int64  `json:"total_orders"`
	TotalPizzas   int64  `json:"total_pizzas"`
	CashCount     int64  `json:"cash_count"`
	CashTotal     string `json:"cash_total"`
	TransferCount int64  `json:"transfer_count"`
	TransferTotal string `json:"transfer_total"`
	PickupCount   int64  `json:"pickup_count"`
	PickupTotal   string `json:"pickup_total"`
	DeliveryCount int64  `json:"delivery_count"`
	DeliveryTotal string `json:"delivery_total"`
}

// DailySales handles GET /admin/reports/daily-sales?date=YYYY-MM-DD. A
// missing date means today on the store calendar. Dates with no sales
// return a zeroed aggregate.
func (h *ReportHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	date := service.BusinessDate(time.Now())
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	sales, err := h.svc.GetDailySales(r.Context(), date)
	if err != nil {
		log.Printf("ERROR: get daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get daily sales"})
		return
	}

	writeJSON(w, http.StatusOK, dailySalesResponse{
		Date:          date.Format("2006-01-02"),
		TotalRevenue:  numericToString(sales.TotalRevenue),
		TotalOrders:   sales.TotalOrders,
		TotalPizzas:   sales.TotalPizzas,
		CashCount:     sales.CashCount,
		CashTotal:     numericToString(sales.CashTotal),
		TransferCount: sales.TransferCount,
		TransferTotal: numericToString(sales.TransferTotal),
		PickupCount:   sales.PickupCount,
		PickupTotal:   numericToString(sales.PickupTotal),
		DeliveryCount: sales.DeliveryCount,
		DeliveryTotal: numericToString(sales.DeliveryTotal),
	})
}
