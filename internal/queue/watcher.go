// Package queue watches the pending-order queue for the admin panel and
// decides when a "new order" notification should fire.
package queue

import (
	"context"
	"log"
	"sync"
	"time"
)

// PendingCounter supplies the current pending-order count. Satisfied by
// *database.Queries.
type PendingCounter interface {
	CountPendingOrders(ctx context.Context) (int64, error)
}

// NotifyFunc receives the new pending count and how much it grew.
type NotifyFunc func(count, delta int64)

// Watcher polls the pending count on a fixed interval and calls notify
// exactly once per detected strict increase.
//
// Notification rules, all enforced here rather than in the UI:
//   - the first observation after start seeds the baseline and never fires;
//   - the watcher must be armed first (browsers block autonomous audio, so
//     the operator's first interaction arms it);
//   - a manual Refresh re-syncs the baseline without firing;
//   - a decrease (orders confirmed or cancelled) only lowers the baseline.
//
// One watcher serves the whole panel: pending-order events broadcast to
// every connected admin, and the arm gate is shared, so any tab arming it
// enables the events for all of them. Audio playback itself stays per tab
// in the UI. There is no package-level instance; main constructs one and
// passes it around explicitly.
type Watcher struct {
	store    PendingCounter
	interval time.Duration
	notify   NotifyFunc

	mu        sync.Mutex
	armed     bool
	seeded    bool
	lastCount int64
}

// NewWatcher creates a Watcher. notify may be nil.
func NewWatcher(store PendingCounter, interval time.Duration, notify NotifyFunc) *Watcher {
	return &Watcher{store: store, interval: interval, notify: notify}
}

// Arm enables notifications. Call on the operator's first interaction.
func (w *Watcher) Arm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = true
}

// Disarm suppresses notifications again.
func (w *Watcher) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = false
}

// Armed reports whether notifications are enabled.
func (w *Watcher) Armed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.armed
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Observe(ctx); err != nil {
				log.Printf("ERROR: pending-order poll: %v", err)
			}
		}
	}
}

// Observe fetches the pending count once and fires the notification when it
// strictly increased since the last observation.
func (w *Watcher) Observe(ctx context.Context) error {
	count, err := w.store.CountPendingOrders(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	fire := false
	var delta int64
	if !w.seeded {
		w.seeded = true
	} else if count > w.lastCount && w.armed {
		fire = true
		delta = count - w.lastCount
	}
	w.lastCount = count
	notify := w.notify
	w.mu.Unlock()

	if fire && notify != nil {
		notify(count, delta)
	}
	return nil
}

// Refresh re-fetches the count for a manual reload. It updates the baseline
// but never fires a notification.
func (w *Watcher) Refresh(ctx context.Context) (int64, error) {
	count, err := w.store.CountPendingOrders(ctx)
	if err != nil {
		return 0, err
	}
	w.mu.Lock()
	w.seeded = true
	w.lastCount = count
	w.mu.Unlock()
	return count, nil
}
