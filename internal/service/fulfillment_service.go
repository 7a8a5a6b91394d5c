package service

import (
	"context"
	"fmt"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

// FulfillmentService drives the post-payment half of the lifecycle
// (shipped, out for delivery, delivered) from the orchard's side. It goes
// through the same forward-only status guard as the webhook.
type FulfillmentService struct {
	orders    OrderStore
	publisher EventPublisher
}

func NewFulfillmentService(orders OrderStore, publisher EventPublisher) *FulfillmentService {
	return &FulfillmentService{orders: orders, publisher: publisher}
}

// AdvanceStatus moves an order forward to the given fulfillment status.
// Payment-owned states (processing, cancelled) are rejected here; only the
// webhook may move an order out of pending.
func (s *FulfillmentService) AdvanceStatus(ctx context.Context, invoiceNumber string, to entity.OrderStatus) (*entity.Order, error) {
	switch to {
	case entity.StatusShipped, entity.StatusOutForDelivery, entity.StatusDelivered:
	default:
		return nil, &entity.ValidationError{Field: "status", Message: fmt.Sprintf("cannot set status %q from fulfillment", to)}
	}

	order, err := s.orders.GetByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	if order.Status == entity.StatusPending {
		// Unpaid orders never ship; payment confirmation is the sole
		// authority that moves an order out of pending.
		return nil, &entity.ValidationError{Field: "status", Message: "order is awaiting payment confirmation"}
	}

	updated, err := s.orders.AdvanceStatusByInvoice(ctx, invoiceNumber, to)
	if err != nil {
		return nil, &entity.PersistenceError{Err: err}
	}
	if !updated {
		return nil, &entity.ValidationError{Field: "status", Message: fmt.Sprintf("order cannot move from %s to %s", order.Status, to)}
	}

	order, err = s.orders.GetByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishOrderEvent(ctx, order, StatusEventName(to)); err != nil {
		logger.Error().Err(err).Str("invoice", order.InvoiceNumber).Msg("Error publishing order event")
	}

	return order, nil
}
