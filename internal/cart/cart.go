// Package cart implements the storefront cart as a reducer: every mutation
// is a pure transition from one State to the next, which keeps the cart
// trivially testable and lets the HTTP layer replay the same actions the UI
// dispatches.
package cart

import (
	"github.com/shopspring/decimal"
)

// Flavor is one half of a dual-flavor line.
type Flavor struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Ingredients []string        `json:"ingredients,omitempty"`
}

// Item is a cart line. Quantity is always >= 1 inside a State; a quantity
// update to zero or below removes the line instead.
type Item struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int32           `json:"quantity"`
	Image        string          `json:"image,omitempty"`
	IsPromo      bool            `json:"is_promo"`
	IsDualFlavor bool            `json:"is_dual_flavor,omitempty"`
	Flavors      []Flavor        `json:"flavors,omitempty"`
	PizzaCount   int32           `json:"pizza_count"`
}

// State is an immutable cart snapshot. Items keep insertion order for
// display.
type State struct {
	Items  []Item `json:"items"`
	IsOpen bool   `json:"is_open"`
}

// Action is a cart mutation.
type Action interface{ isAction() }

// AddItem adds a line, or bumps quantity when the ID is already present.
// A non-positive Item.Quantity counts as 1.
type AddItem struct{ Item Item }

// UpdateQuantity sets a line's quantity; zero or below removes the line.
type UpdateQuantity struct {
	ID       string
	Quantity int32
}

// RemoveItem drops a line. Unknown IDs are a no-op.
type RemoveItem struct{ ID string }

// Clear empties the cart.
type Clear struct{}

// ToggleOpen flips the panel visibility flag.
type ToggleOpen struct{}

func (AddItem) isAction()        {}
func (UpdateQuantity) isAction() {}
func (RemoveItem) isAction()     {}
func (Clear) isAction()          {}
func (ToggleOpen) isAction()     {}

// Reduce applies an action and returns the next state. The input state is
// never mutated.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		qty := a.Item.Quantity
		if qty <= 0 {
			qty = 1
		}
		next := copyState(s)
		for i := range next.Items {
			if next.Items[i].ID == a.Item.ID {
				next.Items[i].Quantity += qty
				return next
			}
		}
		item := a.Item
		item.Quantity = qty
		if item.PizzaCount <= 0 {
			item.PizzaCount = 1
		}
		next.Items = append(next.Items, item)
		return next

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(s, RemoveItem{ID: a.ID})
		}
		next := copyState(s)
		for i := range next.Items {
			if next.Items[i].ID == a.ID {
				next.Items[i].Quantity = a.Quantity
				break
			}
		}
		return next

	case RemoveItem:
		next := copyState(s)
		items := next.Items[:0:0]
		for _, it := range next.Items {
			if it.ID != a.ID {
				items = append(items, it)
			}
		}
		next.Items = items
		return next

	case Clear:
		return State{IsOpen: s.IsOpen}

	case ToggleOpen:
		next := copyState(s)
		next.IsOpen = !next.IsOpen
		return next
	}
	return s
}

func copyState(s State) State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, IsOpen: s.IsOpen}
}

// TotalItems is the sum of all line quantities.
func (s State) TotalItems() int32 {
	var n int32
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of unit price times quantity over all lines.
func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return total
}

// TotalPizzas counts pizzas including promo multipliers.
func (s State) TotalPizzas() int32 {
	var n int32
	for _, it := range s.Items {
		count := it.PizzaCount
		if count <= 0 {
			count = 1
		}
		n += count * it.Quantity
	}
	return n
}
