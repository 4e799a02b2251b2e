package domain

import (
	"errors"
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

// DeliveryStatus tracks fulfilment after payment. Payment fields never
// change once the order exists; only the delivery status moves.
type DeliveryStatus string

const (
	DeliveryPlaced    DeliveryStatus = "Placed"
	DeliveryPreparing DeliveryStatus = "Preparing"
	DeliveryOnTheWay  DeliveryStatus = "OnTheWay"
	DeliveryDelivered DeliveryStatus = "Delivered"
	DeliveryCancelled DeliveryStatus = "Cancelled"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoItems       = errors.New("order has no items")
	ErrBadQuantity   = errors.New("item quantity must be at least 1")
)

type OrderItem struct {
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

type Order struct {
	ID               string
	UserID           string
	RestaurantID     string
	Items            []OrderItem
	TotalCents       int64
	Currency         string
	DeliveryAddress  string
	PaymentStatus    PaymentStatus
	DeliveryStatus   DeliveryStatus
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	PaidAt           time.Time
	CreatedAt        time.Time
}

func (o *Order) Validate() error {
	if o.TotalCents <= 0 || o.Currency == "" {
		return ErrInvalidAmount
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range o.Items {
		if it.Quantity < 1 {
			return ErrBadQuantity
		}
	}
	return nil
}
