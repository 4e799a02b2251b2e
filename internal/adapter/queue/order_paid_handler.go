package queue

import (
	"context"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/logging"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

// OrderPaidHandler consumes our own order.paid queue to warm the delivery
// status cache the moment an order lands, so the first status poll after
// checkout never touches MySQL. The fulfilment side consumes the same
// exchange independently.
type OrderPaidHandler struct {
	Cache usecase.OrderCache
}

func NewOrderPaidHandler(cache usecase.OrderCache) *OrderPaidHandler {
	return &OrderPaidHandler{Cache: cache}
}

// HandlePaid is intended to be used with the JSON adapter (queue.JSONHandler[usecase.OrderPaidMsg]).
func (h *OrderPaidHandler) HandlePaid(ctx context.Context, msg usecase.OrderPaidMsg) error {
	if err := h.Cache.SetDeliveryStatus(ctx, msg.OrderID, domain.DeliveryPlaced); err != nil {
		return err
	}
	logging.FromCtx(ctx).Info("order placed", "order_id", msg.OrderID, "restaurant_id", msg.RestaurantID)
	return nil
}
