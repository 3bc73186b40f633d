package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DailySalesDelta is one order's contribution to the aggregate of its
// creation date. Negative values reverse a contribution (order cancelled).
type DailySalesDelta struct {
	Date          time.Time
	Revenue       pgtype.Numeric
	Orders        int64
	Pizzas        int64
	CashCount     int64
	CashTotal     pgtype.Numeric
	TransferCount int64
	TransferTotal pgtype.Numeric
	PickupCount   int64
	PickupTotal   pgtype.Numeric
	DeliveryCount int64
	DeliveryTotal pgtype.Numeric
}

// ApplyDailySalesDelta upserts the aggregate row with atomic column
// additions. Never read-modify-write: concurrent orders must not lose
// updates.
func (q *Queries) ApplyDailySalesDelta(ctx context.Context, arg DailySalesDelta) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO daily_sales (
			sale_date, total_revenue, total_orders, total_pizzas,
			cash_count, cash_total, transfer_count, transfer_total,
			pickup_count, pickup_total, delivery_count, delivery_total
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sale_date) DO UPDATE SET
			total_revenue  = daily_sales.total_revenue  + EXCLUDED.total_revenue,
			total_orders   = daily_sales.total_orders   + EXCLUDED.total_orders,
			total_pizzas   = daily_sales.total_pizzas   + EXCLUDED.total_pizzas,
			cash_count     = daily_sales.cash_count     + EXCLUDED.cash_count,
			cash_total     = daily_sales.cash_total     + EXCLUDED.cash_total,
			transfer_count = daily_sales.transfer_count + EXCLUDED.transfer_count,
			transfer_total = daily_sales.transfer_total + EXCLUDED.transfer_total,
			pickup_count   = daily_sales.pickup_count   + EXCLUDED.pickup_count,
			pickup_total   = daily_sales.pickup_total   + EXCLUDED.pickup_total,
			delivery_count = daily_sales.delivery_count + EXCLUDED.delivery_count,
			delivery_total = daily_sales.delivery_total + EXCLUDED.delivery_total`,
		arg.Date, arg.Revenue, arg.Orders, arg.Pizzas,
		arg.CashCount, arg.CashTotal, arg.TransferCount, arg.TransferTotal,
		arg.PickupCount, arg.PickupTotal, arg.DeliveryCount, arg.DeliveryTotal,
	)
	return err
}

// GetDailySales returns the aggregate for a date, or a zeroed aggregate when
// no orders were created that day.
func (q *Queries) GetDailySales(ctx context.Context, date time.Time) (DailySales, error) {
	var s DailySales
	err := q.db.QueryRow(ctx, `
		SELECT sale_date, total_revenue, total_orders, total_pizzas,
		       cash_count, cash_total, transfer_count, transfer_total,
		       pickup_count, pickup_total, delivery_count, delivery_total
		FROM daily_sales WHERE sale_date = $1`, date).Scan(
		&s.SaleDate, &s.TotalRevenue, &s.TotalOrders, &s.TotalPizzas,
		&s.CashCount, &s.CashTotal, &s.TransferCount, &s.TransferTotal,
		&s.PickupCount, &s.PickupTotal, &s.DeliveryCount, &s.DeliveryTotal,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		zero := DailySales{SaleDate: pgtype.Date{Time: date, Valid: true}}
		return zero, nil
	}
	return s, err
}
