package enum

// Wire values match the documents the original storefront wrote, so an
// existing data export can be replayed into Postgres without mapping.

const (
	OrderStatusPending   = "pendiente"
	OrderStatusConfirmed = "confirmado"
	OrderStatusCancelled = "cancelado"
)

const (
	DeliveryTypePickup   = "retiro"
	DeliveryTypeDelivery = "envio"
)

const (
	PaymentMethodCash     = "efectivo"
	PaymentMethodTransfer = "transferencia"
)

const (
	PaymentStatusPending   = "pendiente"
	PaymentStatusConfirmed = "confirmado"
)

const (
	StoreStatusOpen   = "abierto"
	StoreStatusClosed = "cerrado"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidDeliveryType reports whether s is a known delivery type.
func ValidDeliveryType(s string) bool {
	switch s {
	case DeliveryTypePickup, DeliveryTypeDelivery:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether s is a known payment method.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodTransfer:
		return true
	}
	return false
}
