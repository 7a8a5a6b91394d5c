package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himalayanBull/RameshOrchards/internal/cart"
	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

const testBaseURL = "https://shop.rameshorchards.example"

func validCustomer() entity.CustomerInfo {
	return entity.CustomerInfo{
		Name:       "Asha Negi",
		Email:      "asha@example.com",
		Phone:      "9876543210",
		Address:    "12 Orchard Lane",
		City:       "Shimla",
		State:      "Himachal Pradesh",
		PostalCode: "171001",
	}
}

func cartWithApples(t *testing.T) *cart.Cart {
	t.Helper()
	bag := cart.New()
	require.NoError(t, bag.Add(entity.Product{ID: 1, Name: "Apples", PricePerKg: 2}, 5))
	bag.UpdateQuantity(1, 5, 2)
	return bag
}

func newCheckoutFixture() (*CheckoutService, *fakeOrderStore, *fakePaymentClient, *fakePublisher) {
	store := newFakeOrderStore()
	payments := &fakePaymentClient{}
	publisher := &fakePublisher{}
	svc := NewCheckoutService(store, payments, publisher, newFakeGuard(), testBaseURL)
	return svc, store, payments, publisher
}

func TestInitiateCheckoutCreatesPendingOrder(t *testing.T) {
	svc, store, payments, publisher := newCheckoutFixture()

	result, err := svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^RO\d{6}[A-Z0-9]{3}$`), result.InvoiceNumber)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.NotEmpty(t, result.RedirectURL)

	order := store.orders[result.InvoiceNumber]
	require.NotNil(t, order)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Len(t, order.Items, 1)
	assert.InDelta(t, 20, order.TotalAmount, 1e-9)
	assert.Equal(t, "cs_test_1", order.PaymentSessionID)
	assert.Equal(t, validCustomer(), order.Customer)

	// Line items are derived from the snapshot and the callback URLs carry
	// the invoice number.
	require.Len(t, payments.last.LineItems, 1)
	assert.Equal(t, "Apples (5kg)", payments.last.LineItems[0].Name)
	assert.InDelta(t, 10, payments.last.LineItems[0].UnitAmount, 1e-9)
	assert.Equal(t, 2, payments.last.LineItems[0].Quantity)
	assert.Contains(t, payments.last.SuccessURL, "invoice="+result.InvoiceNumber)
	assert.Contains(t, payments.last.CancelURL, "invoice="+result.InvoiceNumber)

	assert.Equal(t, []string{"created:" + result.InvoiceNumber}, publisher.events)
}

func TestInitiateCheckoutRejectsInvalidCustomer(t *testing.T) {
	svc, store, _, _ := newCheckoutFixture()

	customer := validCustomer()
	customer.Phone = "1234567890"

	_, err := svc.InitiateCheckout(context.Background(), customer, cartWithApples(t), "")

	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)
	assert.Empty(t, store.orders, "nothing may be persisted on validation failure")
}

func TestInitiateCheckoutRejectsEmptyCart(t *testing.T) {
	svc, store, _, _ := newCheckoutFixture()

	_, err := svc.InitiateCheckout(context.Background(), validCustomer(), cart.New(), "")

	assert.ErrorIs(t, err, entity.ErrEmptyCart)
	assert.Empty(t, store.orders)
}

func TestInitiateCheckoutDeduplicatesByIdempotencyKey(t *testing.T) {
	svc, store, _, _ := newCheckoutFixture()

	_, err := svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "key-1")
	require.NoError(t, err)

	_, err = svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "key-1")
	assert.ErrorIs(t, err, entity.ErrDuplicateCheckout)
	assert.Len(t, store.orders, 1)
}

func TestInitiateCheckoutRetriesInvoiceCollision(t *testing.T) {
	svc, store, _, _ := newCheckoutFixture()
	store.duplicateInvoices = 2

	result, err := svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "")
	require.NoError(t, err)
	assert.Len(t, store.orders, 1)
	assert.NotEmpty(t, result.InvoiceNumber)
}

func TestInitiateCheckoutGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, store, _, _ := newCheckoutFixture()
	store.duplicateInvoices = invoiceRetries

	_, err := svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "")

	var perr *entity.PersistenceError
	assert.ErrorAs(t, err, &perr)
	assert.Empty(t, store.orders)
}

func TestInitiateCheckoutPaymentFailureLeavesPendingOrder(t *testing.T) {
	svc, store, payments, publisher := newCheckoutFixture()
	payments.err = errors.New("processor unavailable")

	_, err := svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "")

	var perr *entity.PaymentSessionError
	require.ErrorAs(t, err, &perr)

	// The order row survives without a session handle: orphaned but
	// recoverable by a fresh checkout attempt.
	require.Len(t, store.orders, 1)
	for _, order := range store.orders {
		assert.Equal(t, entity.StatusPending, order.Status)
		assert.Empty(t, order.PaymentSessionID)
	}
	assert.Empty(t, publisher.events)
}

func TestInitiateCheckoutRetryAfterPaymentFailureCreatesFreshInvoice(t *testing.T) {
	svc, store, payments, _ := newCheckoutFixture()

	payments.err = errors.New("processor unavailable")
	_, err := svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "key-1")
	require.Error(t, err)

	payments.err = nil
	result, err := svc.InitiateCheckout(context.Background(), validCustomer(), cartWithApples(t), "key-2")
	require.NoError(t, err)

	assert.Len(t, store.orders, 2)
	assert.Equal(t, entity.StatusPending, store.orders[result.InvoiceNumber].Status)
}
