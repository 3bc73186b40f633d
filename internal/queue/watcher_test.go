package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockPendingCounter implements PendingCounter over a scripted sequence of
// counts.
type mockPendingCounter struct {
	counts []int64
	err    error
	calls  int
}

func (m *mockPendingCounter) CountPendingOrders(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	i := m.calls
	if i >= len(m.counts) {
		i = len(m.counts) - 1
	}
	m.calls++
	return m.counts[i], nil
}

type firedNotification struct {
	count int64
	delta int64
}

func newTestWatcher(counts ...int64) (*Watcher, *[]firedNotification) {
	fired := &[]firedNotification{}
	store := &mockPendingCounter{counts: counts}
	w := NewWatcher(store, time.Minute, func(count, delta int64) {
		*fired = append(*fired, firedNotification{count, delta})
	})
	return w, fired
}

func TestFirstObservationSeedsWithoutFiring(t *testing.T) {
	w, fired := newTestWatcher(5)
	w.Arm()

	if err := w.Observe(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*fired) != 0 {
		t.Fatal("first observation must never fire, even when orders are waiting")
	}
}

func TestFiresOncePerIncrease(t *testing.T) {
	w, fired := newTestWatcher(2, 4, 4)
	w.Arm()

	for i := 0; i < 3; i++ {
		if err := w.Observe(context.Background()); err != nil {
			t.Fatalf("observe %d: %v", i, err)
		}
	}

	if len(*fired) != 1 {
		t.Fatalf("fired %d times, want 1", len(*fired))
	}
	if got := (*fired)[0]; got.count != 4 || got.delta != 2 {
		t.Errorf("notification = %+v, want count 4 delta 2", got)
	}
}

func TestUnarmedWatcherStaysSilent(t *testing.T) {
	w, fired := newTestWatcher(2, 4)

	w.Observe(context.Background())
	w.Observe(context.Background())

	if len(*fired) != 0 {
		t.Fatal("unarmed watcher must not fire")
	}
	if w.Armed() {
		t.Error("watcher should report unarmed")
	}
}

func TestArmingDoesNotFireRetroactively(t *testing.T) {
	// The increase happens while disarmed; arming afterwards must not
	// replay it.
	w, fired := newTestWatcher(2, 4, 4)

	w.Observe(context.Background())
	w.Observe(context.Background())
	w.Arm()
	w.Observe(context.Background())

	if len(*fired) != 0 {
		t.Fatalf("fired %d times, want 0", len(*fired))
	}
}

func TestRefreshSyncsBaselineWithoutFiring(t *testing.T) {
	w, fired := newTestWatcher(2, 7, 7)
	w.Arm()

	w.Observe(context.Background())

	count, err := w.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if count != 7 {
		t.Errorf("refresh count = %d, want 7", count)
	}
	if len(*fired) != 0 {
		t.Fatal("refresh must never fire")
	}

	// The next poll sees the same count and stays silent too.
	w.Observe(context.Background())
	if len(*fired) != 0 {
		t.Fatal("poll after refresh must not fire for the refreshed count")
	}
}

func TestDecreaseLowersBaseline(t *testing.T) {
	// Orders get confirmed (5 -> 1), then one new order arrives.
	w, fired := newTestWatcher(5, 1, 2)
	w.Arm()

	w.Observe(context.Background())
	w.Observe(context.Background())
	w.Observe(context.Background())

	if len(*fired) != 1 {
		t.Fatalf("fired %d times, want 1", len(*fired))
	}
	if got := (*fired)[0]; got.count != 2 || got.delta != 1 {
		t.Errorf("notification = %+v, want count 2 delta 1", got)
	}
}

func TestObserveSurfacesStoreErrors(t *testing.T) {
	store := &mockPendingCounter{err: errors.New("connection refused")}
	w := NewWatcher(store, time.Minute, nil)
	w.Arm()

	if err := w.Observe(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &mockPendingCounter{counts: []int64{0}}
	w := NewWatcher(store, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
