package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/logging"
	"github.com/vinagsv/quickbite-api/internal/security"
)

const paymentCaptured = "captured"

type VerifyPaymentInput struct {
	UserID           string
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string

	RestaurantID    string
	Items           []domain.OrderItem
	TotalCents      int64
	Currency        string
	DeliveryAddress string
}

// VerifyPayment proves a completed payment and creates the durable order.
// Checks run in a fixed sequence: callback signature, then live payment
// status from the gateway, then a single idempotent insert. No order record
// exists until every check has passed.
type VerifyPayment struct {
	orders   OrderRepo
	carts    CartStore
	idem     IdempotencyStore
	gateway  PaymentGateway
	verifier security.PaymentVerifier
	events   EventPublisher
}

func NewVerifyPayment(orders OrderRepo, carts CartStore, idem IdempotencyStore, gateway PaymentGateway, verifier security.PaymentVerifier, events EventPublisher) *VerifyPayment {
	return &VerifyPayment{
		orders:   orders,
		carts:    carts,
		idem:     idem,
		gateway:  gateway,
		verifier: verifier,
		events:   events,
	}
}

func (uc *VerifyPayment) Execute(ctx context.Context, in VerifyPaymentInput) (*domain.Order, error) {
	if err := uc.verifier.Verify(in.GatewayOrderID, in.GatewayPaymentID, in.Signature); err != nil {
		return nil, err
	}

	pay, err := uc.gateway.FetchPayment(ctx, in.GatewayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("fetch payment: %w", err)
	}
	if pay.Status != paymentCaptured {
		return nil, fmt.Errorf("%w: status %q", ErrPaymentNotCaptured, pay.Status)
	}

	// A retry for an already-verified session returns the existing order.
	orderID, ok, err := uc.idem.Recall(ctx, in.UserID, in.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("idempotency recall: %w", err)
	}
	if ok {
		return uc.orders.GetByID(ctx, orderID)
	}
	locked, err := uc.idem.TryLock(ctx, in.UserID, in.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("idempotency lock: %w", err)
	}
	if !locked {
		return nil, ErrVerificationPending
	}

	currency := in.Currency
	if currency == "" {
		currency = pay.Currency
	}
	now := time.Now()
	order := &domain.Order{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		RestaurantID:     in.RestaurantID,
		Items:            in.Items,
		TotalCents:       in.TotalCents,
		Currency:         currency,
		DeliveryAddress:  in.DeliveryAddress,
		PaymentStatus:    domain.PaymentPaid,
		DeliveryStatus:   domain.DeliveryPlaced,
		GatewayOrderID:   in.GatewayOrderID,
		GatewayPaymentID: in.GatewayPaymentID,
		GatewaySignature: in.Signature,
		PaidAt:           now,
		CreatedAt:        now,
	}
	if err := order.Validate(); err != nil {
		_ = uc.idem.Release(ctx, in.UserID, in.GatewayOrderID)
		return nil, err
	}

	if err := uc.orders.Create(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost a race against another verification call for the same
			// session; the winner's order is the order.
			return uc.orders.GetByGatewayOrderID(ctx, in.GatewayOrderID)
		}
		// The payment is captured but nothing was persisted. Release the
		// lock so the client can retry verification; the gateway ids in the
		// log are enough to reconcile by hand if the retry never comes.
		_ = uc.idem.Release(ctx, in.UserID, in.GatewayOrderID)
		logging.FromCtx(ctx).Error("captured payment without order record",
			"gateway_order_id", in.GatewayOrderID,
			"gateway_payment_id", in.GatewayPaymentID,
			"error", err.Error())
		return nil, fmt.Errorf("create order: %w", err)
	}

	_ = uc.idem.Remember(ctx, in.UserID, in.GatewayOrderID, order.ID)
	if err := uc.carts.Clear(ctx, in.UserID); err != nil {
		logging.FromCtx(ctx).Warn("cart clear failed", "user_id", in.UserID, "error", err.Error())
	}
	if err := uc.events.PublishOrderPaid(ctx, OrderPaidMsg{
		OrderID:        order.ID,
		UserID:         order.UserID,
		RestaurantID:   order.RestaurantID,
		TotalCents:     order.TotalCents,
		Currency:       order.Currency,
		GatewayOrderID: order.GatewayOrderID,
	}); err != nil {
		logging.FromCtx(ctx).Warn("order.paid publish failed", "order_id", order.ID, "error", err.Error())
	}

	return order, nil
}
