package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	domain "github.com/vinagsv/quickbite-api/internal/entity"
)

func spiceVilla() *domain.Restaurant {
	return &domain.Restaurant{
		ID:   "r1",
		Name: "Spice Villa",
		Menu: []domain.MenuItem{
			{ID: "m1", Name: "Paneer Tikka", PriceCents: 100},
			{ID: "m2", Name: "Garlic Naan", PriceCents: 40},
		},
	}
}

func checkoutInput() CheckoutSessionInput {
	return CheckoutSessionInput{
		UserID:       "u1",
		UserName:     "asha",
		AmountCents:  236, // 200 subtotal + 36 GST
		Currency:     "INR",
		RestaurantID: "r1",
		Items: []domain.OrderItem{
			{MenuItemID: "m1", Name: "Paneer Tikka", PriceCents: 100, Quantity: 2},
		},
		DeliveryAddress: "123 Main St",
	}
}

func newCheckout(gw *fakeGateway) *CheckoutSession {
	restaurants := &fakeRestaurantRepo{restaurants: map[string]*domain.Restaurant{"r1": spiceVilla()}}
	return NewCheckoutSession(restaurants, gw, "rzp_test_key")
}

func TestCheckoutSessionHappyPath(t *testing.T) {
	gw := newFakeGateway()
	uc := newCheckout(gw)

	out, err := uc.Execute(context.Background(), checkoutInput())
	require.NoError(t, err)

	require.Equal(t, "gw_order_1", out.GatewayOrderID)
	require.Equal(t, int64(236), out.AmountCents)
	require.Equal(t, "INR", out.Currency)
	require.Equal(t, "rzp_test_key", out.KeyID)
	require.Equal(t, "Spice Villa", out.RestaurantName)

	require.Equal(t, 1, gw.createCalls)
	require.Equal(t, int64(236), gw.lastCreate.amount)
	require.Equal(t, "r1", gw.lastCreate.notes["restaurantId"])
	require.Equal(t, "123 Main St", gw.lastCreate.notes["deliveryAddress"])
}

func TestCheckoutSessionDefaultsCurrency(t *testing.T) {
	gw := newFakeGateway()
	uc := newCheckout(gw)

	in := checkoutInput()
	in.Currency = ""
	out, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "INR", out.Currency)
}

func TestCheckoutSessionUnknownRestaurant(t *testing.T) {
	gw := newFakeGateway()
	uc := newCheckout(gw)

	in := checkoutInput()
	in.RestaurantID = "nope"
	_, err := uc.Execute(context.Background(), in)
	require.ErrorIs(t, err, ErrRestaurantNotFound)
	require.Zero(t, gw.createCalls)
}

func TestCheckoutSessionRejectsPriceDrift(t *testing.T) {
	gw := newFakeGateway()
	uc := newCheckout(gw)

	// price no longer matches the menu: rejected before any gateway order
	in := checkoutInput()
	in.Items[0].PriceCents = 90
	in.AmountCents = 212
	_, err := uc.Execute(context.Background(), in)
	require.ErrorIs(t, err, ErrInvalidItems)
	require.Zero(t, gw.createCalls)
}

func TestCheckoutSessionRejectsForeignItem(t *testing.T) {
	gw := newFakeGateway()
	uc := newCheckout(gw)

	in := checkoutInput()
	in.Items = append(in.Items, domain.OrderItem{MenuItemID: "other", Name: "Sushi", PriceCents: 500, Quantity: 1})
	in.AmountCents = 826
	_, err := uc.Execute(context.Background(), in)
	require.ErrorIs(t, err, ErrInvalidItems)
	require.Zero(t, gw.createCalls)
}

func TestCheckoutSessionRejectsAmountMismatch(t *testing.T) {
	gw := newFakeGateway()
	uc := newCheckout(gw)

	in := checkoutInput()
	in.AmountCents = 200 // forgot the GST
	_, err := uc.Execute(context.Background(), in)
	require.ErrorIs(t, err, ErrAmountMismatch)
	require.Zero(t, gw.createCalls)
}

func TestCheckoutSessionEmptyCart(t *testing.T) {
	gw := newFakeGateway()
	uc := newCheckout(gw)

	in := checkoutInput()
	in.Items = nil
	_, err := uc.Execute(context.Background(), in)
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Zero(t, gw.createCalls)
}

func TestCheckoutSessionGatewayFailureAborts(t *testing.T) {
	gw := newFakeGateway()
	gw.createErr = context.DeadlineExceeded
	uc := newCheckout(gw)

	_, err := uc.Execute(context.Background(), checkoutInput())
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
