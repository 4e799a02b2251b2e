package usecase

import (
	"context"
	"errors"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
)

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrInvalidItems        = errors.New("invalid items in the order")
	ErrAmountMismatch      = errors.New("order amount does not match item total")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrPaymentNotCaptured  = errors.New("payment not complete")
	ErrDuplicate           = errors.New("duplicate verification for checkout session")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("not the owner of this order")
	ErrVerificationPending = errors.New("verification already in progress")
)

type OrderRepo interface {
	// Create inserts the order. Returns ErrDuplicate when an order for the
	// same gateway order id already exists.
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByGatewayOrderID(ctx context.Context, gwOrderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// UpdateDeliveryStatusIf applies a guarded transition; returns false when
	// the order is missing or not in fromStatus.
	UpdateDeliveryStatusIf(ctx context.Context, id string, fromStatus, toStatus domain.DeliveryStatus) (bool, error)
}

type RestaurantRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
}

type CartStore interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, userID string, cart *domain.Cart) error
	Clear(ctx context.Context, userID string) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
	Release(ctx context.Context, scope, key string) error
}

// GatewayOrder is the handle the payment provider issues for one checkout
// attempt. It is shown to the client, used inside the hosted checkout UI,
// and discarded after the callback.
type GatewayOrder struct {
	ID          string
	AmountCents int64
	Currency    string
}

type GatewayPayment struct {
	ID          string
	OrderID     string
	Status      string // "captured" means funds collected
	AmountCents int64
	Currency    string
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
}

type EventPublisher interface {
	PublishOrderPaid(ctx context.Context, msg OrderPaidMsg) error
}

type OrderCache interface {
	SetDeliveryStatus(ctx context.Context, orderID string, status domain.DeliveryStatus) error
	GetDeliveryStatus(ctx context.Context, orderID string) (domain.DeliveryStatus, bool, error)
}
