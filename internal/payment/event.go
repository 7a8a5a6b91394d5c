package payment

import "encoding/json"

// Webhook event types this service acts on. Anything else is acknowledged
// and ignored.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// Event is one signed webhook delivery from the payment processor.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object SessionObject `json:"object"`
}

// SessionObject carries the checkout session the event is about. The session
// id is the sole correlation key back to an order.
type SessionObject struct {
	ID            string `json:"id"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// ParseEvent decodes a verified webhook payload.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
