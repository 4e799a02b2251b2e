package usecase

import (
	"context"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
)

// CartService wraps the cart store with load-mutate-save operations.
type CartService struct {
	store CartStore
}

func NewCartService(store CartStore) *CartService {
	return &CartService{store: store}
}

func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.store.Get(ctx, userID)
}

// AddItem increments the line for the item. A cart holds one restaurant;
// a line from a second restaurant is refused, the client clears first.
func (s *CartService) AddItem(ctx context.Context, userID string, item domain.CartLine) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	rid, err := cart.RestaurantID()
	if err != nil {
		return nil, err
	}
	if rid != "" && rid != item.RestaurantID {
		return nil, domain.ErrMixedRestaurants
	}
	cart.Add(item)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, menuItemID string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Remove(menuItemID)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) DropItem(ctx context.Context, userID, menuItemID string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Drop(menuItemID)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
