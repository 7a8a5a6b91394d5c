package service

import (
	"context"
	"strings"
	"time"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

// Fixed presentation offsets from the order's creation time. No per-transition
// timestamps are persisted, so the timeline shows estimates.
const (
	processingOffset = 4 * time.Hour
	shippedOffset    = 24 * time.Hour
	outForDelOffset  = 48 * time.Hour
	deliveredOffset  = 72 * time.Hour
)

// TrackingService serves the guest tracking lookup. Access control is the
// two-factor key alone: invoice number plus the phone number on the order.
type TrackingService struct {
	orders OrderStore
}

func NewTrackingService(orders OrderStore) *TrackingService {
	return &TrackingService{orders: orders}
}

// TrackOrder fetches one order by invoice number and phone and derives its
// tracking timeline. Any mismatch returns entity.ErrNotFound without
// revealing whether the invoice exists.
func (s *TrackingService) TrackOrder(ctx context.Context, invoiceNumber, phone string) (*entity.TrackedOrder, error) {
	invoiceNumber = strings.ToUpper(strings.TrimSpace(invoiceNumber))
	phone = strings.TrimSpace(phone)
	if invoiceNumber == "" || phone == "" {
		return nil, entity.ErrNotFound
	}

	order, err := s.orders.GetByInvoiceAndPhone(ctx, invoiceNumber, phone)
	if err != nil {
		return nil, err
	}

	return &entity.TrackedOrder{
		InvoiceNumber:     order.InvoiceNumber,
		Status:            order.Status,
		CustomerName:      order.Customer.Name,
		TotalAmount:       order.TotalAmount,
		OrderDate:         order.CreatedAt,
		EstimatedDelivery: order.CreatedAt.Add(deliveredOffset),
		Items:             order.Items,
		TrackingSteps:     buildTimeline(order.Status, order.CreatedAt),
	}, nil
}

type timelineStep struct {
	status      string
	description string
	offset      time.Duration
	completed   func(entity.OrderStatus) bool
}

var timeline = []timelineStep{
	{
		status:      "Order Placed",
		description: "Your order has been received and confirmed",
		offset:      0,
		completed:   func(entity.OrderStatus) bool { return true },
	},
	{
		status:      "Processing",
		description: "Fresh fruits are being carefully selected and packed",
		offset:      processingOffset,
		completed:   func(s entity.OrderStatus) bool { return s.Rank() >= entity.StatusProcessing.Rank() },
	},
	{
		status:      "Shipped",
		description: "Your order is on the way with our delivery partner",
		offset:      shippedOffset,
		completed:   func(s entity.OrderStatus) bool { return s.Rank() >= entity.StatusShipped.Rank() },
	},
	{
		status:      "Out for Delivery",
		description: "Your order will be delivered today",
		offset:      outForDelOffset,
		completed:   func(s entity.OrderStatus) bool { return s == entity.StatusDelivered },
	},
	{
		status:      "Delivered",
		description: "Your order has been delivered",
		offset:      deliveredOffset,
		completed:   func(s entity.OrderStatus) bool { return s == entity.StatusDelivered },
	},
}

// buildTimeline derives the rendered steps: every completed step plus the
// next upcoming one. Intermediate steps appear completed even when the
// webhook jumped states, so the customer never sees a gap.
func buildTimeline(status entity.OrderStatus, createdAt time.Time) []entity.TrackingStep {
	if status == entity.StatusCancelled {
		return []entity.TrackingStep{
			{
				Status:      "Order Placed",
				Description: "Your order has been received and confirmed",
				Timestamp:   createdAt,
				Completed:   true,
			},
			{
				Status:      "Cancelled",
				Description: "Payment was not completed and the order was cancelled",
				Timestamp:   createdAt,
				Completed:   true,
			},
		}
	}

	var steps []entity.TrackingStep
	for _, ts := range timeline {
		done := ts.completed(status)
		steps = append(steps, entity.TrackingStep{
			Status:      ts.status,
			Description: ts.description,
			Timestamp:   createdAt.Add(ts.offset),
			Completed:   done,
		})
		if !done {
			// Show one upcoming step after the last completed one.
			break
		}
	}
	return steps
}
