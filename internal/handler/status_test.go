package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/enum"
	"github.com/mulleragustin/laqueva/internal/ws"
)

// mockStatusStore implements StatusStore.
type mockStatusStore struct {
	getStoreStatusFn func(ctx context.Context) (database.StoreStatus, error)
	setStoreStatusFn func(ctx context.Context, status, updatedBy string) (database.StoreStatus, error)
}

func (m *mockStatusStore) GetStoreStatus(ctx context.Context) (database.StoreStatus, error) {
	return m.getStoreStatusFn(ctx)
}
func (m *mockStatusStore) SetStoreStatus(ctx context.Context, status, updatedBy string) (database.StoreStatus, error) {
	return m.setStoreStatusFn(ctx, status, updatedBy)
}

func TestGetStoreStatus(t *testing.T) {
	store := &mockStatusStore{
		getStoreStatusFn: func(ctx context.Context) (database.StoreStatus, error) {
			return database.StoreStatus{Status: enum.StoreStatusOpen, UpdatedAt: time.Now()}, nil
		},
	}
	r := chi.NewRouter()
	NewStatusHandler(store, &mockHub{}).RegisterPublicRoutes(r)

	req := httptest.NewRequest("GET", "/store-status", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != enum.StoreStatusOpen {
		t.Errorf("status = %q, want abierto", resp.Status)
	}
}

func TestSetStoreStatusBroadcasts(t *testing.T) {
	var gotStatus string
	store := &mockStatusStore{
		setStoreStatusFn: func(ctx context.Context, status, updatedBy string) (database.StoreStatus, error) {
			gotStatus = status
			return database.StoreStatus{Status: status, UpdatedAt: time.Now(), UpdatedBy: updatedBy}, nil
		},
	}
	hub := &mockHub{}
	r := chi.NewRouter()
	NewStatusHandler(store, hub).RegisterAdminRoutes(r)

	req := httptest.NewRequest("PUT", "/store-status", strings.NewReader(`{"status":"abierto"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if gotStatus != enum.StoreStatusOpen {
		t.Errorf("stored status = %q, want abierto", gotStatus)
	}
	if types := hub.eventTypes(); len(types) != 1 || types[0] != ws.EventStoreStatusChanged {
		t.Errorf("broadcast events = %v, want [%s]", types, ws.EventStoreStatusChanged)
	}
}

func TestSetStoreStatusRejectsUnknownValue(t *testing.T) {
	store := &mockStatusStore{
		setStoreStatusFn: func(ctx context.Context, status, updatedBy string) (database.StoreStatus, error) {
			t.Fatal("store should not be called")
			return database.StoreStatus{}, nil
		},
	}
	r := chi.NewRouter()
	NewStatusHandler(store, &mockHub{}).RegisterAdminRoutes(r)

	req := httptest.NewRequest("PUT", "/store-status", strings.NewReader(`{"status":"open"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSetStoreStatusStoreFailure(t *testing.T) {
	store := &mockStatusStore{
		setStoreStatusFn: func(ctx context.Context, status, updatedBy string) (database.StoreStatus, error) {
			return database.StoreStatus{}, errors.New("connection reset")
		},
	}
	hub := &mockHub{}
	r := chi.NewRouter()
	NewStatusHandler(store, hub).RegisterAdminRoutes(r)

	req := httptest.NewRequest("PUT", "/store-status", strings.NewReader(`{"status":"cerrado"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if len(hub.eventTypes()) != 0 {
		t.Error("failed update must not broadcast")
	}
}
