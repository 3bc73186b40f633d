package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/enum"
)

// Errors returned by the order service. Validation errors map to 400 at the
// HTTP layer and never touch the database.
var (
	ErrCustomerName      = errors.New("customer name is required")
	ErrCustomerPhone     = errors.New("customer phone is required")
	ErrEmptyItems        = errors.New("items are required")
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrDeliveryAddress   = errors.New("delivery address is required for envio orders")
	ErrInvalidDelivery   = errors.New("invalid delivery_type")
	ErrInvalidPayment    = errors.New("invalid payment_method")
	ErrInvalidFee        = errors.New("delivery fee must be zero for retiro orders")
	ErrStoreClosed       = errors.New("store is closed")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrStatusChanged     = errors.New("order status changed, please retry")
	ErrOrderNotFound     = errors.New("order not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries (pool- or tx-bound).
type OrderStore interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrdersByStatus(ctx context.Context, status string) ([]database.Order, error)
	ListActiveOrders(ctx context.Context) ([]database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	ApplyDailySalesDelta(ctx context.Context, arg database.DailySalesDelta) error
	GetDailySales(ctx context.Context, date time.Time) (database.DailySales, error)
	GetStoreStatus(ctx context.Context) (database.StoreStatus, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), so the
// service can run its queries inside a transaction it controls.
type NewOrderStore func(db database.DBTX) OrderStore

// CheckoutItem is one line of the checkout payload.
type CheckoutItem struct {
	ID           string
	Name         string
	UnitPrice    decimal.Decimal
	Quantity     int32
	IsPromo      bool
	IsDualFlavor bool
	Flavors      []database.Flavor
	PizzaCount   int32
}

// CreateOrderRequest is the checkout payload after JSON decoding.
type CreateOrderRequest struct {
	CustomerName  string
	CustomerPhone string
	Items         []CheckoutItem
	DeliveryType  string
	Address       string
	DeliveryFee   decimal.Decimal
	PaymentMethod string
	Notes         string
}

// OrderService owns the order lifecycle: creation with sequential numbering
// and aggregate updates, status transitions, and reads.
type OrderService struct {
	pool     TxBeginner
	store    OrderStore
	newStore NewOrderStore
	now      func() time.Time
}

// NewOrderService creates an OrderService. store is pool-bound for reads;
// newStore builds tx-bound stores for writes.
func NewOrderService(pool TxBeginner, store OrderStore, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, store: store, newStore: newStore, now: time.Now}
}

// CreateOrder validates the checkout payload and persists the order plus its
// daily-sales contribution in one transaction. Totals are computed here,
// once; they are never recomputed after persistence.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (database.Order, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return database.Order{}, ErrCustomerName
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return database.Order{}, ErrCustomerPhone
	}
	if len(req.Items) == 0 {
		return database.Order{}, ErrEmptyItems
	}
	if !enum.ValidDeliveryType(req.DeliveryType) {
		return database.Order{}, ErrInvalidDelivery
	}
	if !enum.ValidPaymentMethod(req.PaymentMethod) {
		return database.Order{}, ErrInvalidPayment
	}
	if req.DeliveryType == enum.DeliveryTypeDelivery && strings.TrimSpace(req.Address) == "" {
		return database.Order{}, ErrDeliveryAddress
	}
	if req.DeliveryType == enum.DeliveryTypePickup && !req.DeliveryFee.IsZero() {
		return database.Order{}, ErrInvalidFee
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return database.Order{}, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	status, err := s.store.GetStoreStatus(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("get store status: %w", err)
	}
	if status.Status != enum.StoreStatusOpen {
		return database.Order{}, ErrStoreClosed
	}

	// Totals, computed once.
	subtotal := decimal.Zero
	var totalPizzas int32
	lines := make([]database.OrderLineItem, len(req.Items))
	for i, item := range req.Items {
		count := item.PizzaCount
		if count <= 0 {
			count = 1
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
		totalPizzas += count * item.Quantity
		lines[i] = database.OrderLineItem{
			ID:           item.ID,
			Name:         item.Name,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			IsPromo:      item.IsPromo,
			IsDualFlavor: item.IsDualFlavor,
			Flavors:      item.Flavors,
			PizzaCount:   count,
		}
	}
	fee := req.DeliveryFee
	if req.DeliveryType == enum.DeliveryTypePickup {
		fee = decimal.Zero
	}
	total := subtotal.Add(fee)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	orderNumber, err := store.NextOrderNumber(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("reserve order number: %w", err)
	}

	address := pgtype.Text{}
	if req.DeliveryType == enum.DeliveryTypeDelivery {
		address = pgtype.Text{String: req.Address, Valid: true}
	}
	notes := pgtype.Text{}
	if req.Notes != "" {
		notes = pgtype.Text{String: req.Notes, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Items:           lines,
		Subtotal:        decimalToNumeric(subtotal),
		DeliveryFee:     decimalToNumeric(fee),
		TotalAmount:     decimalToNumeric(total),
		TotalPizzas:     totalPizzas,
		DeliveryType:    req.DeliveryType,
		DeliveryAddress: address,
		PaymentMethod:   req.PaymentMethod,
		Notes:           notes,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := store.ApplyDailySalesDelta(ctx, salesDelta(order, 1)); err != nil {
		return database.Order{}, fmt.Errorf("update daily sales: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// ListOrders returns orders in the given status, or all active orders
// (pendiente plus confirmado) when status is empty.
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]database.Order, error) {
	if status == "" {
		return s.store.ListActiveOrders(ctx)
	}
	if !enum.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.store.ListOrdersByStatus(ctx, status)
}

// GetOrder fetches a single order.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return database.Order{}, ErrOrderNotFound
	}
	return order, err
}

// allowedTransitions: confirmado and cancelado are terminal except that a
// confirmed order can still be cancelled.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPending:   {enum.OrderStatusConfirmed, enum.OrderStatusCancelled},
	enum.OrderStatusConfirmed: {enum.OrderStatusCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// SetOrderStatus applies a status transition. The UPDATE carries the
// expected current status, so a concurrent transition surfaces as
// ErrStatusChanged instead of silently double-applying. Cancelling an order
// reverses its daily-sales contribution, keeping the aggregate equal to the
// sum of non-cancelled orders of that date.
func (s *OrderService) SetOrderStatus(ctx context.Context, id uuid.UUID, newStatus string) (database.Order, error) {
	if !enum.ValidOrderStatus(newStatus) || newStatus == enum.OrderStatusPending {
		return database.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	current, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}

	if !transitionAllowed(current.Status, newStatus) {
		return database.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:             id,
		Status:         newStatus,
		ExpectedStatus: current.Status,
		StampedAt:      s.now(),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrStatusChanged
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if newStatus == enum.OrderStatusCancelled {
		if err := store.ApplyDailySalesDelta(ctx, salesDelta(updated, -1)); err != nil {
			return database.Order{}, fmt.Errorf("reverse daily sales: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

// GetDailySales returns the aggregate for a calendar date. The date must be
// a plain calendar day (midnight UTC), as produced by BusinessDate or by
// parsing a YYYY-MM-DD string.
func (s *OrderService) GetDailySales(ctx context.Context, date time.Time) (database.DailySales, error) {
	return s.store.GetDailySales(ctx, date)
}

// storeLocation is the pizzeria's timezone (Resistencia, Chaco). Sales
// aggregates are keyed by the business day on this calendar, not by the
// server clock.
var storeLocation = loadStoreLocation()

func loadStoreLocation() *time.Location {
	loc, err := time.LoadLocation("America/Argentina/Cordoba")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// BusinessDate maps an instant to the store-calendar day it falls on,
// normalized to midnight UTC. Both the daily_sales write key and the report
// default go through here so they always hit the same row.
func BusinessDate(t time.Time) time.Time {
	y, m, d := t.In(storeLocation).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// salesDelta builds one order's (possibly reversed) daily-sales
// contribution, keyed to the order's creation date.
func salesDelta(o database.Order, sign int64) database.DailySalesDelta {
	total := numericToDecimal(o.TotalAmount)
	if sign < 0 {
		total = total.Neg()
	}
	zero := decimalToNumeric(decimal.Zero)

	delta := database.DailySalesDelta{
		Date:          BusinessDate(o.CreatedAt),
		Revenue:       decimalToNumeric(total),
		Orders:        sign,
		Pizzas:        sign * int64(o.TotalPizzas),
		CashTotal:     zero,
		TransferTotal: zero,
		PickupTotal:   zero,
		DeliveryTotal: zero,
	}

	switch o.PaymentMethod {
	case enum.PaymentMethodCash:
		delta.CashCount = sign
		delta.CashTotal = decimalToNumeric(total)
	case enum.PaymentMethodTransfer:
		delta.TransferCount = sign
		delta.TransferTotal = decimalToNumeric(total)
	}

	switch o.DeliveryType {
	case enum.DeliveryTypePickup:
		delta.PickupCount = sign
		delta.PickupTotal = decimalToNumeric(total)
	case enum.DeliveryTypeDelivery:
		delta.DeliveryCount = sign
		delta.DeliveryTotal = decimalToNumeric(total)
	}

	return delta
}

// IsValidationError reports whether err should surface as a user-fixable
// checkout problem rather than a server failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrCustomerName) ||
		errors.Is(err, ErrCustomerPhone) ||
		errors.Is(err, ErrEmptyItems) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrDeliveryAddress) ||
		errors.Is(err, ErrInvalidDelivery) ||
		errors.Is(err, ErrInvalidPayment) ||
		errors.Is(err, ErrInvalidFee) ||
		errors.Is(err, ErrStoreClosed)
}

// --- Numeric helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
