package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionForwardOnly(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to out for delivery", StatusShipped, StatusOutForDelivery, true},
		{"out for delivery to delivered", StatusOutForDelivery, StatusDelivered, true},
		{"forward jump allowed", StatusProcessing, StatusDelivered, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"no backward move", StatusShipped, StatusProcessing, false},
		{"no self transition", StatusProcessing, StatusProcessing, false},
		{"cancel cannot claw back a paid order", StatusProcessing, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusProcessing, false},
		{"delivered is terminal", StatusDelivered, StatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransitionsInto(t *testing.T) {
	assert.Equal(t, []OrderStatus{StatusPending}, TransitionsInto(StatusProcessing))
	assert.Equal(t, []OrderStatus{StatusPending}, TransitionsInto(StatusCancelled))
	assert.Equal(t,
		[]OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusOutForDelivery},
		TransitionsInto(StatusDelivered),
	)
}

func TestStatusValidity(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, OrderStatus("paid").IsValid())
}
