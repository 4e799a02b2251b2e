package kafka

import (
	"context"
	"fmt"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

// DeliveryStatusChangedHandler applies fulfilment-side progress to orders.
// Payment fields never change here; only delivery_status moves, and only
// along the expected chain, so a late "PREPARING" cannot undo "DELIVERED".
type DeliveryStatusChangedHandler struct {
	Repo  usecase.OrderRepo
	Cache usecase.OrderCache // optional
}

func NewDeliveryStatusChangedHandler(repo usecase.OrderRepo, cache usecase.OrderCache) *DeliveryStatusChangedHandler {
	return &DeliveryStatusChangedHandler{Repo: repo, Cache: cache}
}

// preceding returns the only status an order may move to `to` from.
func preceding(to domain.DeliveryStatus) (domain.DeliveryStatus, bool) {
	switch to {
	case domain.DeliveryPreparing:
		return domain.DeliveryPlaced, true
	case domain.DeliveryOnTheWay:
		return domain.DeliveryPreparing, true
	case domain.DeliveryDelivered:
		return domain.DeliveryOnTheWay, true
	default:
		return "", false
	}
}

func (h *DeliveryStatusChangedHandler) Handle(ctx context.Context, ev usecase.DeliveryStatusChangedMsg) error {
	var target domain.DeliveryStatus
	switch ev.Status {
	case "PREPARING":
		target = domain.DeliveryPreparing
	case "ON_THE_WAY":
		target = domain.DeliveryOnTheWay
	case "DELIVERED":
		target = domain.DeliveryDelivered
	case "CANCELLED":
		target = domain.DeliveryCancelled
	default:
		return fmt.Errorf("unknown delivery status %q", ev.Status)
	}

	applied := false
	if target == domain.DeliveryCancelled {
		// Cancellation is allowed from any pre-delivery state.
		for _, from := range []domain.DeliveryStatus{domain.DeliveryPlaced, domain.DeliveryPreparing, domain.DeliveryOnTheWay} {
			ok, err := h.Repo.UpdateDeliveryStatusIf(ctx, ev.OrderID, from, target)
			if err != nil {
				return err
			}
			if ok {
				applied = true
				break
			}
		}
	} else {
		from, ok := preceding(target)
		if !ok {
			return fmt.Errorf("no transition into %q", target)
		}
		// A mismatch is not an error: out-of-order or replayed events are
		// simply ignored.
		var err error
		applied, err = h.Repo.UpdateDeliveryStatusIf(ctx, ev.OrderID, from, target)
		if err != nil {
			return err
		}
	}

	// Cache best-effort
	if applied && h.Cache != nil {
		_ = h.Cache.SetDeliveryStatus(ctx, ev.OrderID, target)
	}
	return nil
}
