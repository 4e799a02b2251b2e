package domain

import "errors"

var ErrMixedRestaurants = errors.New("cart mixes items from different restaurants")

type CartLine struct {
	MenuItemID   string `json:"menuItemId"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price"`
	Image        string `json:"image,omitempty"`
	RestaurantID string `json:"restaurantId"`
	Quantity     int    `json:"quantity"`
}

// Cart is the per-user cart. Lines are keyed by menu item id; a line with
// quantity 0 is never stored, it is removed instead.
type Cart struct {
	Lines map[string]CartLine `json:"lines"`
}

func NewCart() *Cart {
	return &Cart{Lines: map[string]CartLine{}}
}

// Add increments the quantity for the item, inserting at quantity 1 if absent.
func (c *Cart) Add(item CartLine) {
	if c.Lines == nil {
		c.Lines = map[string]CartLine{}
	}
	line, ok := c.Lines[item.MenuItemID]
	if !ok {
		item.Quantity = 1
		c.Lines[item.MenuItemID] = item
		return
	}
	line.Quantity++
	c.Lines[item.MenuItemID] = line
}

// Remove decrements the quantity; the line disappears when it would hit 0.
func (c *Cart) Remove(menuItemID string) {
	line, ok := c.Lines[menuItemID]
	if !ok {
		return
	}
	if line.Quantity <= 1 {
		delete(c.Lines, menuItemID)
		return
	}
	line.Quantity--
	c.Lines[menuItemID] = line
}

// Drop removes the whole line regardless of quantity.
func (c *Cart) Drop(menuItemID string) {
	delete(c.Lines, menuItemID)
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalCents() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.PriceCents * int64(l.Quantity)
	}
	return sum
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// RestaurantID returns the single restaurant all lines belong to.
// A cart spanning restaurants cannot be checked out in one order.
func (c *Cart) RestaurantID() (string, error) {
	id := ""
	for _, l := range c.Lines {
		if id == "" {
			id = l.RestaurantID
			continue
		}
		if l.RestaurantID != id {
			return "", ErrMixedRestaurants
		}
	}
	return id, nil
}

// Items converts cart lines into order line items.
func (c *Cart) Items() []OrderItem {
	out := make([]OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, OrderItem{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			PriceCents: l.PriceCents,
			Quantity:   l.Quantity,
		})
	}
	return out
}
