package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/cart"
	"github.com/mulleragustin/laqueva/internal/menu"
)

func menuRouter() chi.Router {
	r := chi.NewRouter()
	r.Route("/menu", NewMenuHandler().RegisterRoutes)
	return r
}

func TestMenuCatalog(t *testing.T) {
	r := menuRouter()

	req := httptest.NewRequest("GET", "/menu", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var pizzas []menu.Pizza
	if err := json.Unmarshal(rr.Body.Bytes(), &pizzas); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(pizzas) != len(menu.Catalog) {
		t.Errorf("got %d pizzas, want %d", len(pizzas), len(menu.Catalog))
	}
}

func TestDualFlavorEndpoint(t *testing.T) {
	r := menuRouter()

	req := httptest.NewRequest("POST", "/menu/dual-flavor",
		strings.NewReader(`{"flavor_a_id":1,"flavor_b_id":4}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var item cart.Item
	if err := json.Unmarshal(rr.Body.Bytes(), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !item.IsDualFlavor || len(item.Flavors) != 2 {
		t.Fatalf("item = %+v, want dual flavor with two halves", item)
	}
	if !item.UnitPrice.Equal(decimal.NewFromInt(7750)) {
		t.Errorf("price = %v, want 7750 (average of 7000 and 8500)", item.UnitPrice)
	}
	if !strings.HasPrefix(item.ID, "doble-1-4-") {
		t.Errorf("id = %q, want doble-1-4-<millis>", item.ID)
	}
}

func TestDualFlavorRejections(t *testing.T) {
	r := menuRouter()

	tests := []struct {
		name string
		body string
	}{
		{"unknown flavor", `{"flavor_a_id":1,"flavor_b_id":99}`},
		{"promo as half", `{"flavor_a_id":8,"flavor_b_id":1}`},
		{"same flavor twice", `{"flavor_a_id":1,"flavor_b_id":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/menu/dual-flavor", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}
