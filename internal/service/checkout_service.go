package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/himalayanBull/RameshOrchards/internal/cart"
	"github.com/himalayanBull/RameshOrchards/internal/entity"
	"github.com/himalayanBull/RameshOrchards/internal/invoice"
	"github.com/himalayanBull/RameshOrchards/internal/payment"
)

// invoiceRetries bounds how many times checkout regenerates the invoice
// number after a unique-key collision before giving up.
const invoiceRetries = 3

// CheckoutService turns a validated delivery form plus a non-empty cart into
// a pending order and a hosted payment session.
type CheckoutService struct {
	orders        OrderStore
	payments      PaymentClient
	publisher     EventPublisher
	guard         IdempotencyGuard
	publicBaseURL string
}

func NewCheckoutService(orders OrderStore, payments PaymentClient, publisher EventPublisher, guard IdempotencyGuard, publicBaseURL string) *CheckoutService {
	return &CheckoutService{
		orders:        orders,
		payments:      payments,
		publisher:     publisher,
		guard:         guard,
		publicBaseURL: publicBaseURL,
	}
}

// CheckoutResult is what the storefront needs to redirect the customer to
// the processor's hosted payment page.
type CheckoutResult struct {
	InvoiceNumber string `json:"invoice_number"`
	SessionID     string `json:"session_id"`
	RedirectURL   string `json:"redirect_url"`
}

// InitiateCheckout validates the customer form, snapshots the cart, persists
// the pending order atomically, and requests a hosted payment session.
//
// The payment call happens after the order is committed; when it fails the
// order stays pending without a session handle and the customer may retry
// checkout, which creates a fresh invoice.
func (s *CheckoutService) InitiateCheckout(ctx context.Context, customer entity.CustomerInfo, bag *cart.Cart, idempotencyKey string) (*CheckoutResult, error) {
	if verr := customer.Validate(); verr != nil {
		return nil, verr
	}

	items, total := bag.Snapshot()
	if len(items) == 0 {
		return nil, entity.ErrEmptyCart
	}

	if idempotencyKey != "" {
		won, err := s.guard.Claim(ctx, idempotencyKey)
		if err != nil {
			return nil, &entity.PersistenceError{Err: err}
		}
		if !won {
			return nil, entity.ErrDuplicateCheckout
		}
	}

	order, err := s.persistPendingOrder(ctx, customer, items, total)
	if err != nil {
		return nil, err
	}

	session, err := s.createPaymentSession(ctx, order)
	if err != nil {
		// The pending order stays behind without a session handle; it is
		// orphaned but recoverable via a fresh checkout attempt.
		logger.Error().Err(err).Str("invoice", order.InvoiceNumber).Msg("Error creating payment session")
		return nil, &entity.PaymentSessionError{Err: err}
	}

	if err := s.orders.AttachPaymentSession(ctx, order.InvoiceNumber, session.ID); err != nil {
		logger.Error().Err(err).Str("invoice", order.InvoiceNumber).Msg("Error attaching payment session")
		return nil, &entity.PersistenceError{Err: err}
	}
	order.PaymentSessionID = session.ID

	if err := s.publisher.PublishOrderEvent(ctx, order, EventOrderCreated); err != nil {
		// Stock adjustment lags until the consumer catches up; not fatal
		// for the checkout itself.
		logger.Error().Err(err).Str("invoice", order.InvoiceNumber).Msg("Error publishing order created event")
	}

	return &CheckoutResult{
		InvoiceNumber: order.InvoiceNumber,
		SessionID:     session.ID,
		RedirectURL:   session.URL,
	}, nil
}

func (s *CheckoutService) persistPendingOrder(ctx context.Context, customer entity.CustomerInfo, items []entity.OrderItem, total float64) (*entity.Order, error) {
	now := time.Now().UTC()
	order := &entity.Order{
		Customer:    customer,
		Items:       items,
		TotalAmount: total,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 0; attempt < invoiceRetries; attempt++ {
		order.InvoiceNumber = invoice.Generate()

		err := s.orders.CreateOrder(ctx, order)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, entity.ErrDuplicateInvoice) {
			logger.Warn().Str("invoice", order.InvoiceNumber).Msg("Invoice number collision, regenerating")
			continue
		}
		return nil, &entity.PersistenceError{Err: err}
	}

	return nil, &entity.PersistenceError{Err: fmt.Errorf("could not allocate a unique invoice number after %d attempts", invoiceRetries)}
}

func (s *CheckoutService) createPaymentSession(ctx context.Context, order *entity.Order) (*payment.CheckoutSession, error) {
	// Line items come from the frozen snapshot, never from live catalog
	// prices.
	lineItems := make([]payment.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		lineItems = append(lineItems, payment.LineItem{
			Name:       fmt.Sprintf("%s (%dkg)", item.ProductName, item.PackageSize),
			UnitAmount: item.PricePerKg * float64(item.PackageSize),
			Quantity:   item.Quantity,
		})
	}

	return s.payments.CreateCheckoutSession(ctx, payment.CheckoutSessionParams{
		CustomerEmail: order.Customer.Email,
		LineItems:     lineItems,
		SuccessURL:    fmt.Sprintf("%s/checkout/success?invoice=%s", s.publicBaseURL, order.InvoiceNumber),
		CancelURL:     fmt.Sprintf("%s/checkout/cancel?invoice=%s", s.publicBaseURL, order.InvoiceNumber),
		Metadata: map[string]string{
			"invoice_number": order.InvoiceNumber,
		},
	})
}
