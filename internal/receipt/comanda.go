// Package receipt renders printable comandas and outgoing WhatsApp messages.
// Everything here is pure: opening a print dialog or the wa.me link is the
// UI's job.
package receipt

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/enum"
)

const pickupPoint = "Paseo Sur"

var comandaTmpl = template.Must(template.New("comanda").Funcs(template.FuncMap{
	"money": FormatMoney,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Comanda - Pedido #{{.OrderNumber}}</title>
<style>
@media print {
  body { margin: 0; }
  @page { margin: 0.5cm; }
}
body { font-family: 'Courier New', monospace; max-width: 300px; margin: 0 auto; padding: 5px; }
h1 { margin: 0; font-size: 24px; text-align: center; }
hr { border: 1px dashed #000; }
.total { font-size: 18px; font-weight: bold; }
.footer { text-align: center; margin-top: 20px; }
</style>
</head>
<body>
<h1>LA QUE VA</h1>
<p style="text-align: center;">PIZZERÍA</p>
<hr>
<p><strong>PEDIDO #{{.OrderNumber}}</strong><br>
<strong>Fecha:</strong> {{.Date}}<br>
<strong>Estado:</strong> {{.Status}}</p>
<hr>
<p><strong>CLIENTE:</strong><br>
{{.CustomerName}}{{if .CustomerPhone}}<br>{{.CustomerPhone}}{{end}}</p>
<hr>
<p><strong>ENTREGA:</strong><br>
{{.DeliveryLine}}{{if .Address}}<br><small>{{.Address}}</small>{{end}}<br>
<strong>Pago:</strong> {{.Payment}}</p>
<hr>
<p><strong>PRODUCTOS:</strong><br>
{{- range .Items}}
{{.Quantity}}x {{.Name}}{{if .FlavorLine}}<br><small>&nbsp;&nbsp;&nbsp;({{.FlavorLine}})</small>{{end}}{{if .IsPromo}}<br><em>(PROMO)</em>{{end}}<br>
{{- end}}
</p>
<hr>
{{- if .Notes}}
<p><strong>NOTAS:</strong><br><em>{{.Notes}}</em></p>
<hr>
{{- end}}
<p><strong>TOTAL PIZZAS:</strong> {{.TotalPizzas}}<br>
<strong>SUBTOTAL:</strong> ${{money .Subtotal}}<br>
{{- if .HasDeliveryFee}}
<strong>ENVÍO:</strong> ${{money .DeliveryFee}}<br>
{{- end}}
<span class="total">TOTAL: ${{money .Total}}</span></p>
<hr>
<div class="footer">
<p>¡Gracias por elegirnos!<br><small>{{.PickupPoint}} - La Que Va</small></p>
</div>
</body>
</html>
`))

type comandaItem struct {
	Quantity   int32
	Name       string
	FlavorLine string
	IsPromo    bool
}

type comandaData struct {
	OrderNumber    int64
	Date           string
	Status         string
	CustomerName   string
	CustomerPhone  string
	DeliveryLine   string
	Address        string
	Payment        string
	Items          []comandaItem
	Notes          string
	TotalPizzas    int32
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	HasDeliveryFee bool
	Total          decimal.Decimal
	PickupPoint    string
}

// RenderComanda renders the printable kitchen ticket for an order.
func RenderComanda(o database.Order) (string, error) {
	data := comandaData{
		OrderNumber:   o.OrderNumber,
		Date:          o.CreatedAt.Format("02/01/2006 15:04"),
		Status:        strings.ToUpper(o.Status),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Payment:       strings.ToUpper(o.PaymentMethod),
		Notes:         textOrEmpty(o.Notes),
		TotalPizzas:   o.TotalPizzas,
		Subtotal:      numericToDecimal(o.Subtotal),
		DeliveryFee:   numericToDecimal(o.DeliveryFee),
		Total:         numericToDecimal(o.TotalAmount),
		PickupPoint:   pickupPoint,
	}
	data.HasDeliveryFee = data.DeliveryFee.IsPositive()

	if o.DeliveryType == enum.DeliveryTypePickup {
		data.DeliveryLine = "RETIRO EN " + strings.ToUpper(pickupPoint)
	} else {
		data.DeliveryLine = "ENVÍO A DOMICILIO"
		data.Address = textOrEmpty(o.DeliveryAddress)
	}

	for _, item := range o.Items {
		ci := comandaItem{
			Quantity: item.Quantity,
			Name:     item.Name,
			IsPromo:  item.IsPromo,
		}
		if item.IsDualFlavor && len(item.Flavors) == 2 {
			ci.FlavorLine = item.Flavors[0].Name + " & " + item.Flavors[1].Name
		}
		data.Items = append(data.Items, ci)
	}

	var sb strings.Builder
	if err := comandaTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render comanda: %w", err)
	}
	return sb.String(), nil
}

// FormatMoney renders a peso amount with dot thousands separators, the way
// the storefront shows prices (es-AR).
func FormatMoney(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ".")
	if neg {
		return "-" + out
	}
	return out
}

func textOrEmpty(t pgtype.Text) string {
	if t.Valid {
		return t.String
	}
	return ""
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
