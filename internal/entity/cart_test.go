package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func line(id, restID string, price int64) CartLine {
	return CartLine{MenuItemID: id, Name: "dish-" + id, PriceCents: price, RestaurantID: restID}
}

func TestCartAddIncrementsQuantity(t *testing.T) {
	cart := NewCart()
	cart.Add(line("m1", "r1", 100))
	cart.Add(line("m1", "r1", 100))
	cart.Add(line("m2", "r1", 250))

	require.Equal(t, 2, cart.Lines["m1"].Quantity)
	require.Equal(t, 1, cart.Lines["m2"].Quantity)
	require.Equal(t, 3, cart.TotalItems())
	require.Equal(t, int64(2*100+250), cart.TotalCents())
}

func TestCartRemoveDropsLineAtZero(t *testing.T) {
	cart := NewCart()
	cart.Add(line("m1", "r1", 100))
	cart.Add(line("m1", "r1", 100))

	cart.Remove("m1")
	require.Equal(t, 1, cart.Lines["m1"].Quantity)

	// quantity never persists as 0: the line goes away instead
	cart.Remove("m1")
	_, ok := cart.Lines["m1"]
	require.False(t, ok)
	require.True(t, cart.Empty())

	// removing a missing item is a no-op
	cart.Remove("m1")
	require.True(t, cart.Empty())
}

func TestCartDropRemovesWholeLine(t *testing.T) {
	cart := NewCart()
	for i := 0; i < 5; i++ {
		cart.Add(line("m1", "r1", 100))
	}
	cart.Drop("m1")
	require.True(t, cart.Empty())
}

func TestCartTotals(t *testing.T) {
	cart := NewCart()
	require.Equal(t, 0, cart.TotalItems())
	require.Equal(t, int64(0), cart.TotalCents())

	cart.Add(line("m1", "r1", 19900))
	cart.Add(line("m2", "r1", 9900))
	cart.Add(line("m2", "r1", 9900))

	require.Equal(t, 3, cart.TotalItems())
	require.Equal(t, int64(19900+2*9900), cart.TotalCents())
}

func TestCartRestaurantID(t *testing.T) {
	cart := NewCart()
	id, err := cart.RestaurantID()
	require.NoError(t, err)
	require.Empty(t, id)

	cart.Add(line("m1", "r1", 100))
	cart.Add(line("m2", "r1", 200))
	id, err = cart.RestaurantID()
	require.NoError(t, err)
	require.Equal(t, "r1", id)

	cart.Add(line("m3", "r2", 300))
	_, err = cart.RestaurantID()
	require.ErrorIs(t, err, ErrMixedRestaurants)
}

func TestCartItems(t *testing.T) {
	cart := NewCart()
	cart.Add(line("m1", "r1", 100))
	cart.Add(line("m1", "r1", 100))

	items := cart.Items()
	require.Len(t, items, 1)
	require.Equal(t, OrderItem{MenuItemID: "m1", Name: "dish-m1", PriceCents: 100, Quantity: 2}, items[0])
}
