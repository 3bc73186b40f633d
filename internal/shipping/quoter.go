package shipping

import (
	"context"
	"sync"
)

// Quoter runs delivery quotes for one storefront session. Lookups are slow
// and the customer keeps typing, so each Request bumps a generation counter
// and a result is only kept when its generation is still the latest: a stale
// response never overwrites a newer one.
type Quoter struct {
	calc *Calculator

	mu     sync.Mutex
	gen    uint64
	latest Quote
}

// NewQuoter creates a Quoter around a Calculator.
func NewQuoter(calc *Calculator) *Quoter {
	return &Quoter{calc: calc, latest: Quote{State: StateUnset}}
}

// Request quotes the address and returns the session's latest quote, which
// is this request's result unless a newer Request started meanwhile.
func (q *Quoter) Request(ctx context.Context, address string) Quote {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	q.latest = Quote{State: StateComputing}
	q.mu.Unlock()

	quote := q.calc.QuoteDelivery(ctx, address)

	q.mu.Lock()
	defer q.mu.Unlock()
	if gen == q.gen {
		q.latest = quote
	}
	return q.latest
}

// Latest returns the session's current quote.
func (q *Quoter) Latest() Quote {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.latest
}

// Reset clears the quote, e.g. when the customer switches back to pickup.
func (q *Quoter) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	q.latest = Quote{State: StateUnset}
}
