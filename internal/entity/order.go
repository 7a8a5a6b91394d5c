package entity

import "time"

// OrderStatus is the order lifecycle state. Orders only ever move forward
// along pending -> processing -> shipped -> out_for_delivery -> delivered,
// or from pending to cancelled when the payment session expires.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusProcessing     OrderStatus = "processing"
	StatusShipped        OrderStatus = "shipped"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// orderStatusRank positions each status in the forward ordering. Cancelled is
// terminal and sits outside the ordering.
var orderStatusRank = map[OrderStatus]int{
	StatusPending:        0,
	StatusProcessing:     1,
	StatusShipped:        2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
}

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := orderStatusRank[s]
	return ok
}

// Rank returns the position of s in the forward ordering, or -1 for
// cancelled and unknown statuses.
func (s OrderStatus) Rank() int {
	r, ok := orderStatusRank[s]
	if !ok {
		return -1
	}
	return r
}

// CanTransition reports whether an order may move from one status to another.
// Forward jumps are allowed (the tracking timeline derives the skipped steps);
// backward moves never are. Cancellation is only reachable from pending.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	if to == StatusCancelled {
		return from == StatusPending
	}
	if from == StatusCancelled {
		return false
	}
	return to.Rank() > from.Rank()
}

// TransitionsInto lists every status an order may hold immediately before
// moving to the given one. Used to build the compare-and-set WHERE clause.
func TransitionsInto(to OrderStatus) []OrderStatus {
	all := []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled}
	var froms []OrderStatus
	for _, from := range all {
		if CanTransition(from, to) {
			froms = append(froms, from)
		}
	}
	return froms
}

// Order is the central entity: one row per successful checkout attempt.
// Customer and item fields are snapshots taken at order time, never live
// references into the catalog.
type Order struct {
	ID               int          `json:"id"`
	InvoiceNumber    string       `json:"invoice_number"`
	Customer         CustomerInfo `json:"customer"`
	Items            []OrderItem  `json:"items"`
	TotalAmount      float64      `json:"total_amount"`
	Status           OrderStatus  `json:"status"`
	PaymentSessionID string       `json:"payment_session_id,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// OrderItem is a per-line snapshot captured at order time so later catalog
// price changes never alter a placed order.
type OrderItem struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	PricePerKg  float64 `json:"price_per_kg"`
	PackageSize int     `json:"package_size"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

// TrackingStep is one derived entry of the order tracking timeline. The
// timestamp is an estimate offset from the order's creation time, not a
// recorded transition time.
type TrackingStep struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Completed   bool      `json:"completed"`
}

// TrackedOrder is the tracking view of an order: the order summary plus the
// derived timeline.
type TrackedOrder struct {
	InvoiceNumber     string         `json:"invoice_number"`
	Status            OrderStatus    `json:"status"`
	CustomerName      string         `json:"customer_name"`
	TotalAmount       float64        `json:"total_amount"`
	OrderDate         time.Time      `json:"order_date"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
	Items             []OrderItem    `json:"items"`
	TrackingSteps     []TrackingStep `json:"tracking_steps"`
}
