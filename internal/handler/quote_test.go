package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/geo"
	"github.com/mulleragustin/laqueva/internal/shipping"
)

// mockDistanceService implements shipping.DistanceService.
type mockDistanceService struct {
	geocodeFn  func(ctx context.Context, address string) (geo.Coordinates, error)
	distanceFn func(ctx context.Context, origin, dest geo.Coordinates) (float64, error)
}

func (m *mockDistanceService) Geocode(ctx context.Context, address string) (geo.Coordinates, error) {
	return m.geocodeFn(ctx, address)
}
func (m *mockDistanceService) Distance(ctx context.Context, origin, dest geo.Coordinates) (float64, error) {
	return m.distanceFn(ctx, origin, dest)
}

func quoteRouter(meters float64, geocodeErr error) chi.Router {
	svc := &mockDistanceService{
		geocodeFn: func(ctx context.Context, address string) (geo.Coordinates, error) {
			if geocodeErr != nil {
				return geo.Coordinates{}, geocodeErr
			}
			return geo.Coordinates{Lat: -27.46, Lon: -58.98}, nil
		},
		distanceFn: func(ctx context.Context, origin, dest geo.Coordinates) (float64, error) {
			return meters, nil
		},
	}
	calc := shipping.NewCalculator(svc, geo.Coordinates{Lat: -27.4512, Lon: -58.9867}, decimal.NewFromInt(1000))

	r := chi.NewRouter()
	r.Route("/delivery", NewQuoteHandler(calc).RegisterRoutes)
	return r
}

func TestQuoteEndpoint(t *testing.T) {
	r := quoteRouter(3200, nil)

	req := httptest.NewRequest("POST", "/delivery/quote", strings.NewReader(`{"address":"Av. Alberdi 1234"}`))
	req.Header.Set(sessionHeader, "s1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var q shipping.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.State != shipping.StateValid {
		t.Fatalf("state = %q: %s", q.State, q.Message)
	}
	if !q.Fee.Equal(decimal.NewFromInt(3200)) {
		t.Errorf("fee = %v, want 3200", q.Fee)
	}

	// The quote is retrievable for the same session.
	req = httptest.NewRequest("GET", "/delivery/quote", nil)
	req.Header.Set(sessionHeader, "s1")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.State != shipping.StateValid {
		t.Errorf("latest state = %q, want valid", q.State)
	}

	// Other sessions start unset.
	req = httptest.NewRequest("GET", "/delivery/quote", nil)
	req.Header.Set(sessionHeader, "s2")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.State != shipping.StateUnset {
		t.Errorf("other session state = %q, want unset", q.State)
	}
}

func TestQuoteEndpointRequiresAddress(t *testing.T) {
	r := quoteRouter(3200, nil)

	req := httptest.NewRequest("POST", "/delivery/quote", strings.NewReader(`{"address":"  "}`))
	req.Header.Set(sessionHeader, "s1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestQuoteEndpointSurfacesLookupFailure(t *testing.T) {
	r := quoteRouter(0, geo.ErrAddressNotFound)

	req := httptest.NewRequest("POST", "/delivery/quote", strings.NewReader(`{"address":"no existe 999"}`))
	req.Header.Set(sessionHeader, "s1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	var q shipping.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.State != shipping.StateError {
		t.Errorf("state = %q, want error", q.State)
	}
}

func TestQuoteReset(t *testing.T) {
	r := quoteRouter(3200, nil)

	req := httptest.NewRequest("POST", "/delivery/quote", strings.NewReader(`{"address":"Av. Alberdi 1234"}`))
	req.Header.Set(sessionHeader, "s1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("DELETE", "/delivery/quote", nil)
	req.Header.Set(sessionHeader, "s1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var q shipping.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.State != shipping.StateUnset {
		t.Errorf("state after reset = %q, want unset", q.State)
	}
}
