package receipt

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/enum"
)

// MessageKind selects which WhatsApp text to render.
type MessageKind string

const (
	// NewOrderSummary is the storefront's "here is my order" message to the
	// store.
	NewOrderSummary MessageKind = "new_order"
	// ConfirmationMessage is the store's confirmation to the customer.
	ConfirmationMessage MessageKind = "confirmation"
)

const countryCode = "54"

// RenderWhatsAppText builds the outgoing message body for an order.
func RenderWhatsAppText(o database.Order, kind MessageKind) (string, error) {
	switch kind {
	case NewOrderSummary:
		return newOrderSummary(o), nil
	case ConfirmationMessage:
		return confirmationMessage(o), nil
	}
	return "", fmt.Errorf("unknown message kind %q", kind)
}

func newOrderSummary(o database.Order) string {
	var sb strings.Builder
	sb.WriteString("🍕 *NUEVO PEDIDO - LA QUE VA* 🍕\n\n")
	sb.WriteString(fmt.Sprintf("*Pedido N°:* %d\n", o.OrderNumber))

	if o.DeliveryType == enum.DeliveryTypePickup {
		sb.WriteString("*Método de entrega:* Retiro en " + pickupPoint + "\n")
	} else {
		sb.WriteString("*Método de entrega:* Envío a domicilio\n")
		sb.WriteString("*Dirección:* " + textOrEmpty(o.DeliveryAddress) + "\n")
	}

	if o.PaymentMethod == enum.PaymentMethodCash {
		sb.WriteString("*Método de pago:* Efectivo\n\n")
	} else {
		sb.WriteString("*Método de pago:* Transferencia\n\n")
	}

	sb.WriteString("*Productos:*\n")
	for _, item := range o.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity))
		sb.WriteString(fmt.Sprintf("• %dx %s - $%s\n", item.Quantity, item.Name, FormatMoney(lineTotal)))
	}

	sb.WriteString(fmt.Sprintf("\n*TOTAL:* $%s", FormatMoney(numericToDecimal(o.TotalAmount))))
	sb.WriteString("\n\nPor favor confirmar mi pedido. ¡Gracias!")
	return sb.String()
}

func confirmationMessage(o database.Order) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hola %s, confirmamos tu pedido N° %d ✅\n\n", o.CustomerName, o.OrderNumber))

	if o.DeliveryType == enum.DeliveryTypeDelivery {
		sb.WriteString(fmt.Sprintf("Lo enviaremos a %s 🛵\n", textOrEmpty(o.DeliveryAddress)))
		sb.WriteString("Tiempo de entrega estimado: 40 minutos ⏰\n")
	} else {
		sb.WriteString("Puedes retirar tu pedido en " + pickupPoint + " 🏪\n")
		sb.WriteString("Tiempo de preparación estimado: 25 minutos ⏰\n")
	}

	sb.WriteString(fmt.Sprintf("El costo de tu orden es de $%s\n\n", FormatMoney(numericToDecimal(o.TotalAmount))))
	sb.WriteString("¡Gracias por tu compra! La Que Va Pizzería 🍕")
	return sb.String()
}

// Link builds the wa.me deep link for a phone number and message. The phone
// is stripped to digits and prefixed with the country code when missing.
// Opening the link is a UI action.
func Link(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}
