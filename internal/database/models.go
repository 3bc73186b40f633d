package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Flavor is one half of a dual-flavor pizza line.
type Flavor struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Ingredients []string        `json:"ingredients,omitempty"`
}

// OrderLineItem is a single line of an order, stored in the items JSONB
// column. PizzaCount carries the promo multiplier (a promo line of quantity 1
// can count as 2 pizzas for the daily aggregate).
type OrderLineItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int32           `json:"quantity"`
	IsPromo      bool            `json:"is_promo"`
	IsDualFlavor bool            `json:"is_dual_flavor,omitempty"`
	Flavors      []Flavor        `json:"flavors,omitempty"`
	PizzaCount   int32           `json:"pizza_count"`
}

// Order is a persisted order document.
type Order struct {
	ID              uuid.UUID
	OrderNumber     int64
	CustomerName    string
	CustomerPhone   string
	Items           []OrderLineItem
	Subtotal        pgtype.Numeric
	DeliveryFee     pgtype.Numeric
	TotalAmount     pgtype.Numeric
	TotalPizzas     int32
	DeliveryType    string
	DeliveryAddress pgtype.Text
	PaymentMethod   string
	PaymentStatus   string
	Status          string
	Notes           pgtype.Text
	CreatedAt       time.Time
	ConfirmedAt     pgtype.Timestamptz
	CancelledAt     pgtype.Timestamptz
}

// DailySales is the per-date aggregate row.
type DailySales struct {
	SaleDate      pgtype.Date
	TotalRevenue  pgtype.Numeric
	TotalOrders   int64
	TotalPizzas   int64
	CashCount     int64
	CashTotal     pgtype.Numeric
	TransferCount int64
	TransferTotal pgtype.Numeric
	PickupCount   int64
	PickupTotal   pgtype.Numeric
	DeliveryCount int64
	DeliveryTotal pgtype.Numeric
}

// StoreStatus is the singleton open/closed flag.
type StoreStatus struct {
	Status    string
	UpdatedAt time.Time
	UpdatedBy string
}
