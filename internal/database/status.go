package database

import "context"

// GetStoreStatus returns the open/closed flag.
func (q *Queries) GetStoreStatus(ctx context.Context) (StoreStatus, error) {
	var s StoreStatus
	err := q.db.QueryRow(ctx,
		`SELECT status, updated_at, updated_by FROM store_status WHERE id = 1`).
		Scan(&s.Status, &s.UpdatedAt, &s.UpdatedBy)
	return s, err
}

// SetStoreStatus flips the open/closed flag.
func (q *Queries) SetStoreStatus(ctx context.Context, status, updatedBy string) (StoreStatus, error) {
	var s StoreStatus
	err := q.db.QueryRow(ctx, `
		UPDATE store_status
		SET status = $1, updated_at = now(), updated_by = $2
		WHERE id = 1
		RETURNING status, updated_at, updated_by`, status, updatedBy).
		Scan(&s.Status, &s.UpdatedAt, &s.UpdatedBy)
	return s, err
}
