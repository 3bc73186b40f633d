// Package menu holds the static pizza catalog: individual pizzas, promo
// bundles, and the dual-flavor builder.
package menu

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Pizza is a catalog entry. PizzaCount is how many pizzas one unit
// represents: promos bundle two pizzas into a single line.
type Pizza struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Ingredients []string        `json:"ingredients,omitempty"`
	IsPromo     bool            `json:"is_promo"`
	PizzaCount  int32           `json:"pizza_count"`
}

// Catalog is the full menu in display order.
var Catalog = []Pizza{
	{ID: 1, Name: "Muzzarella", Price: peso(7000), Image: "/img/muzzarella.webp", Ingredients: []string{"muzzarella", "salsa", "aceitunas"}, PizzaCount: 1},
	{ID: 2, Name: "Especial", Price: peso(8000), Image: "/img/especial.webp", Ingredients: []string{"muzzarella", "jamón", "morrones"}, PizzaCount: 1},
	{ID: 3, Name: "Napolitana", Price: peso(8000), Image: "/img/napolitana.webp", Ingredients: []string{"muzzarella", "tomate", "ajo"}, PizzaCount: 1},
	{ID: 4, Name: "Fugazzeta", Price: peso(8500), Image: "/img/fugazzeta.webp", Ingredients: []string{"muzzarella", "cebolla"}, PizzaCount: 1},
	{ID: 5, Name: "Calabresa", Price: peso(9000), Image: "/img/calabresa.webp", Ingredients: []string{"muzzarella", "longaniza"}, PizzaCount: 1},
	{ID: 6, Name: "Roquefort", Price: peso(9500), Image: "/img/roquefort.webp", Ingredients: []string{"muzzarella", "roquefort"}, PizzaCount: 1},
	{ID: 7, Name: "Rúcula y Jamón Crudo", Price: peso(10000), Image: "/img/rucula.webp", Ingredients: []string{"muzzarella", "rúcula", "jamón crudo"}, PizzaCount: 1},
	{ID: 8, Name: "Promo: 2 Muzzarellas", Price: peso(12000), Image: "/img/promo-muzza.webp", IsPromo: true, PizzaCount: 2},
	{ID: 9, Name: "Promo: 1 Muzza + 1 Especial", Price: peso(13000), Image: "/img/promo-muzza-especial.webp", IsPromo: true, PizzaCount: 2},
	{ID: 10, Name: "Promo: 1 Napo + 1 Fuga", Price: peso(14000), Image: "/img/promo-napo-fuga.webp", IsPromo: true, PizzaCount: 2},
	{ID: 11, Name: "Promo: 1 Napo + 1 Fuga (con jamón)", Price: peso(15000), Image: "/img/promo-napo-fuga-jamon.webp", IsPromo: true, PizzaCount: 2},
}

func peso(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// ByID looks up a catalog entry.
func ByID(id int64) (Pizza, bool) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Pizza{}, false
}

// Flavors returns the non-promo pizzas available as dual-flavor halves.
func Flavors() []Pizza {
	out := make([]Pizza, 0, len(Catalog))
	for _, p := range Catalog {
		if !p.IsPromo {
			out = append(out, p)
		}
	}
	return out
}

// DualFlavorName formats the display name of a half-and-half pizza.
func DualFlavorName(a, b Pizza) string {
	return fmt.Sprintf("Pizza Doble Gusto: %s & %s", a.Name, b.Name)
}

// DualFlavorPrice prices a half-and-half pizza as the rounded average of its
// two halves.
func DualFlavorPrice(a, b Pizza) decimal.Decimal {
	return a.Price.Add(b.Price).Div(decimal.NewFromInt(2)).Round(0)
}

// DualFlavorID builds a cart line ID unique to the flavor pair and moment,
// so two separately added dual-flavor pizzas stay separate lines.
func DualFlavorID(a, b Pizza, at time.Time) string {
	return fmt.Sprintf("doble-%d-%d-%d", a.ID, b.ID, at.UnixMilli())
}
