package database

import "context"

// NextOrderNumber reserves the next order number. The upsert is a single
// atomic statement, so concurrent checkouts each get a distinct, strictly
// increasing value. The first call seeds the counter at 1.
func (q *Queries) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO order_sequence (id, next_value)
		VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE
		SET next_value = order_sequence.next_value + 1
		RETURNING next_value`).Scan(&n)
	return n, err
}
