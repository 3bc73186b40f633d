package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, customer_name, customer_phone, items,
	subtotal, delivery_fee, total_amount, total_pizzas,
	delivery_type, delivery_address, payment_method, payment_status,
	status, notes, created_at, confirmed_at, cancelled_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.Items,
		&o.Subtotal, &o.DeliveryFee, &o.TotalAmount, &o.TotalPizzas,
		&o.DeliveryType, &o.DeliveryAddress, &o.PaymentMethod, &o.PaymentStatus,
		&o.Status, &o.Notes, &o.CreatedAt, &o.ConfirmedAt, &o.CancelledAt,
	)
	return o, err
}

// CreateOrderParams holds the fields for a new order row.
type CreateOrderParams struct {
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
	Notes           pgtype.Text
}

// CreateOrder inserts a new order with status pendiente.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (
			id, order_number, customer_name, customer_phone, items,
			subtotal, delivery_fee, total_amount, total_pizzas,
			delivery_type, delivery_address, payment_method, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+orderColumns,
		arg.ID, arg.OrderNumber, arg.CustomerName, arg.CustomerPhone, arg.Items,
		arg.Subtotal, arg.DeliveryFee, arg.TotalAmount, arg.TotalPizzas,
		arg.DeliveryType, arg.DeliveryAddress, arg.PaymentMethod, arg.Notes,
	)
	return scanOrder(row)
}

// GetOrder fetches a single order by ID.
func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// ListOrdersByStatus returns orders in the given status, newest first.
func (q *Queries) ListOrdersByStatus(ctx context.Context, status string) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListActiveOrders returns pendiente and confirmado orders, newest first.
func (q *Queries) ListActiveOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status IN ('pendiente', 'confirmado')
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CountPendingOrders returns the number of pendiente orders.
func (q *Queries) CountPendingOrders(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE status = 'pendiente'`).Scan(&n)
	return n, err
}

// UpdateOrderStatusParams guards the transition with the expected current
// status: the UPDATE matches zero rows (pgx.ErrNoRows) when the status
// changed underneath us.
type UpdateOrderStatusParams struct {
	ID             uuid.UUID
	Status         string
	ExpectedStatus string
	StampedAt      time.Time
}

// UpdateOrderStatus applies a status transition. Confirming also confirms the
// payment and stamps confirmed_at; cancelling stamps cancelled_at.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders SET
			status = $2,
			payment_status = CASE WHEN $2 = 'confirmado' THEN 'confirmado' ELSE payment_status END,
			confirmed_at   = CASE WHEN $2 = 'confirmado' THEN $4 ELSE confirmed_at END,
			cancelled_at   = CASE WHEN $2 = 'cancelado'  THEN $4 ELSE cancelled_at END
		WHERE id = $1 AND status = $3
		RETURNING `+orderColumns,
		arg.ID, arg.Status, arg.ExpectedStatus, arg.StampedAt,
	)
	return scanOrder(row)
}
