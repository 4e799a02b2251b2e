package usecase

import (
	"context"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
)

// OrderQueries serves the read side: a user's order history and single
// order detail. Orders belong exclusively to the user who placed them.
type OrderQueries struct {
	repo OrderRepo
}

func NewOrderQueries(repo OrderRepo) *OrderQueries {
	return &OrderQueries{repo: repo}
}

func (q *OrderQueries) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return q.repo.ListByUser(ctx, userID)
}

func (q *OrderQueries) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := q.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}
