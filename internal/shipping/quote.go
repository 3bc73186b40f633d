// Package shipping derives order totals and delivery fees from distance.
package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/cart"
	"github.com/mulleragustin/laqueva/internal/geo"
)

// Deliveries are only offered inside this distance band.
const (
	MinDistanceKm = 0.1
	MaxDistanceKm = 15.0
)

// ErrOutOfRange means the destination is outside the delivery band.
var ErrOutOfRange = errors.New("destination outside delivery range")

// QuoteState is the lifecycle of a delivery quote.
type QuoteState string

const (
	StateUnset      QuoteState = "unset"
	StateComputing  QuoteState = "computing"
	StateValid      QuoteState = "valid"
	StateOutOfRange QuoteState = "out_of_range"
	StateError      QuoteState = "error"
)

// Quote is a delivery fee quote. Fee is zero unless State is StateValid.
type Quote struct {
	DistanceKm float64         `json:"distance_km"`
	Fee        decimal.Decimal `json:"fee"`
	State      QuoteState      `json:"state"`
	Message    string          `json:"message,omitempty"`
}

// DistanceService resolves an address and measures the driving distance from
// a fixed origin. Implemented by *geo.Client.
type DistanceService interface {
	Geocode(ctx context.Context, address string) (geo.Coordinates, error)
	Distance(ctx context.Context, origin, dest geo.Coordinates) (float64, error)
}

// Calculator computes subtotals and delivery quotes.
type Calculator struct {
	svc       DistanceService
	origin    geo.Coordinates
	ratePerKm decimal.Decimal
}

// NewCalculator creates a Calculator with the store origin and per-km rate.
func NewCalculator(svc DistanceService, origin geo.Coordinates, ratePerKm decimal.Decimal) *Calculator {
	return &Calculator{svc: svc, origin: origin, ratePerKm: ratePerKm}
}

// Subtotal sums unit price times quantity over the cart lines.
func Subtotal(items []cart.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return total
}

// Fee computes the delivery fee for a distance: rate per km, rounded up to
// the nearest 100 pesos.
func Fee(distanceKm float64, ratePerKm decimal.Decimal) decimal.Decimal {
	raw := decimal.NewFromFloat(distanceKm).Mul(ratePerKm)
	hundred := decimal.NewFromInt(100)
	return raw.Div(hundred).Ceil().Mul(hundred)
}

// QuoteDelivery resolves the address and quotes the delivery fee.
//
// Distance-service failures are a hard error: the quote lands in StateError
// and delivery checkout stays blocked until the lookup succeeds. There is
// deliberately no flat-fee fallback; a wrong fee is worse than a retry.
func (c *Calculator) QuoteDelivery(ctx context.Context, address string) Quote {
	dest, err := c.svc.Geocode(ctx, address)
	if err != nil {
		return Quote{State: StateError, Message: err.Error()}
	}

	meters, err := c.svc.Distance(ctx, c.origin, dest)
	if err != nil {
		return Quote{State: StateError, Message: err.Error()}
	}

	km := meters / 1000.0
	if km < MinDistanceKm || km > MaxDistanceKm {
		return Quote{
			DistanceKm: km,
			State:      StateOutOfRange,
			Message:    fmt.Sprintf("%s: %.1f km", ErrOutOfRange.Error(), km),
		}
	}

	return Quote{
		DistanceKm: km,
		Fee:        Fee(km, c.ratePerKm),
		State:      StateValid,
	}
}
