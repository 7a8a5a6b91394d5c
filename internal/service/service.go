package service

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
	"github.com/himalayanBull/RameshOrchards/internal/payment"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderStore is the persistence surface the order lifecycle needs. The MySQL
// implementation lives in internal/repository.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *entity.Order) error
	AttachPaymentSession(ctx context.Context, invoiceNumber, sessionID string) error
	GetByInvoiceAndPhone(ctx context.Context, invoiceNumber, phone string) (*entity.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*entity.Order, error)
	GetByInvoice(ctx context.Context, invoiceNumber string) (*entity.Order, error)
	AdvanceStatusBySession(ctx context.Context, sessionID string, to entity.OrderStatus) (bool, error)
	AdvanceStatusByInvoice(ctx context.Context, invoiceNumber string, to entity.OrderStatus) (bool, error)
}

// PaymentClient creates hosted checkout sessions with the payment processor.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutSessionParams) (*payment.CheckoutSession, error)
}

// EventPublisher emits order lifecycle events for downstream consumers such
// as the stock adjuster.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, order *entity.Order, event string) error
}

// IdempotencyGuard claims client-supplied idempotency keys so a rapid
// duplicate checkout submission cannot create two orders.
type IdempotencyGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
}
