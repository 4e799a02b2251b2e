package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/pricing"
)

type CheckoutSessionInput struct {
	UserID          string
	UserName        string
	AmountCents     int64
	Currency        string
	RestaurantID    string
	Items           []domain.OrderItem
	DeliveryAddress string
}

type CheckoutSessionOutput struct {
	GatewayOrderID string
	AmountCents    int64
	Currency       string
	KeyID          string
	RestaurantName string
}

// CheckoutSession validates the requested line items against the restaurant's
// current menu and creates a gateway order for the priced amount. No order is
// persisted here; that happens only after payment verification.
type CheckoutSession struct {
	restaurants RestaurantRepo
	gateway     PaymentGateway
	keyID       string
}

func NewCheckoutSession(restaurants RestaurantRepo, gateway PaymentGateway, keyID string) *CheckoutSession {
	return &CheckoutSession{restaurants: restaurants, gateway: gateway, keyID: keyID}
}

func (uc *CheckoutSession) Execute(ctx context.Context, in CheckoutSessionInput) (CheckoutSessionOutput, error) {
	if len(in.Items) == 0 {
		return CheckoutSessionOutput{}, ErrEmptyCart
	}

	rest, err := uc.restaurants.GetByID(ctx, in.RestaurantID)
	if err != nil {
		return CheckoutSessionOutput{}, err
	}

	// Every line must match the menu on id, name and price. This both stops
	// stale/forged prices and forces all lines onto one restaurant.
	var subtotal int64
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return CheckoutSessionOutput{}, ErrInvalidItems
		}
		if !rest.HasMenuItem(it.MenuItemID, it.Name, it.PriceCents) {
			return CheckoutSessionOutput{}, ErrInvalidItems
		}
		subtotal += it.PriceCents * int64(it.Quantity)
	}

	want := pricing.Total(subtotal)
	if in.AmountCents != want {
		return CheckoutSessionOutput{}, fmt.Errorf("%w: got %d, want %d", ErrAmountMismatch, in.AmountCents, want)
	}

	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return CheckoutSessionOutput{}, fmt.Errorf("marshal items: %w", err)
	}
	receipt := fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), in.UserName)
	gwOrder, err := uc.gateway.CreateOrder(ctx, want, currency, receipt, map[string]string{
		"restaurantId":    in.RestaurantID,
		"restaurantName":  rest.Name,
		"userId":          in.UserID,
		"deliveryAddress": in.DeliveryAddress,
		"items":           string(itemsJSON),
	})
	if err != nil {
		return CheckoutSessionOutput{}, fmt.Errorf("create gateway order: %w", err)
	}

	return CheckoutSessionOutput{
		GatewayOrderID: gwOrder.ID,
		AmountCents:    gwOrder.AmountCents,
		Currency:       gwOrder.Currency,
		KeyID:          uc.keyID,
		RestaurantName: rest.Name,
	}, nil
}
