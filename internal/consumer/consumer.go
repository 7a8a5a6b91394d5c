package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/himalayanBull/RameshOrchards/internal/service"
)

// Consumer follows order lifecycle events and keeps catalog stock in sync:
// placed orders reserve kilograms, cancelled orders release them.
type Consumer struct {
	reader     *kafka.Reader
	productSvc *service.ProductService
}

func NewConsumer(reader *kafka.Reader, productSvc *service.ProductService) *Consumer {
	return &Consumer{reader: reader, productSvc: productSvc}
}

// Run consumes order events until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage applies one order event to catalog stock.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var event service.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	// key -> "order.created.RO123456ABC" or "order.cancelled.RO123456ABC"
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 3 {
		log.Error().Msgf("Malformed event key: %s", string(msg.Key))
		return
	}
	eventType := parts[1]

	if event.Order == nil {
		log.Error().Msgf("Event %s carried no order", event.EventID)
		return
	}

	switch eventType {
	case service.EventOrderCreated:
		for _, item := range event.Order.Items {
			kilograms := item.PackageSize * item.Quantity
			if err := c.productSvc.ReserveStock(ctx, item.ProductID, kilograms); err != nil {
				log.Error().Msgf("Error reserving stock for product %d: %v", item.ProductID, err)
			}
		}
	case service.EventOrderCancelled:
		for _, item := range event.Order.Items {
			kilograms := item.PackageSize * item.Quantity
			if err := c.productSvc.ReleaseStock(ctx, item.ProductID, kilograms); err != nil {
				log.Error().Msgf("Error releasing stock for product %d: %v", item.ProductID, err)
			}
		}
	default:
		// Status progressions past payment do not move stock.
	}
}
