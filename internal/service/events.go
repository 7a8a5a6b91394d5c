package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

// Order lifecycle event names, carried in the Kafka message key as
// "order.<event>.<invoice>".
const (
	EventOrderCreated    = "created"
	EventOrderProcessing = "processing"
	EventOrderShipped    = "shipped"
	EventOrderOutForDel  = "out_for_delivery"
	EventOrderDelivered  = "delivered"
	EventOrderCancelled  = "cancelled"
)

// OrderEvent is the published envelope for one order lifecycle change.
type OrderEvent struct {
	EventID string        `json:"event_id"`
	Type    string        `json:"type"`
	Order   *entity.Order `json:"order"`
}

// KafkaPublisher writes order events to the order topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// PublishOrderEvent emits one lifecycle event for an order.
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, order *entity.Order, event string) error {
	payload, err := json.Marshal(OrderEvent{
		EventID: uuid.New().String(),
		Type:    event,
		Order:   order,
	})
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%s", event, order.InvoiceNumber)),
		Value: payload,
	}

	return p.writer.WriteMessages(ctx, msg)
}

// StatusEventName maps an order status to its lifecycle event name.
func StatusEventName(status entity.OrderStatus) string {
	switch status {
	case entity.StatusProcessing:
		return EventOrderProcessing
	case entity.StatusShipped:
		return EventOrderShipped
	case entity.StatusOutForDelivery:
		return EventOrderOutForDel
	case entity.StatusDelivered:
		return EventOrderDelivered
	case entity.StatusCancelled:
		return EventOrderCancelled
	default:
		return EventOrderCreated
	}
}
