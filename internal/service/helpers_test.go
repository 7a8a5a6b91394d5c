package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
	"github.com/himalayanBull/RameshOrchards/internal/payment"
)

// fakeOrderStore is an in-memory OrderStore keyed by invoice number.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*entity.Order

	duplicateInvoices int // next N creates fail with ErrDuplicateInvoice
	createErr         error
	attachErr         error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*entity.Order{}}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if f.duplicateInvoices > 0 {
		f.duplicateInvoices--
		return entity.ErrDuplicateInvoice
	}
	if _, exists := f.orders[order.InvoiceNumber]; exists {
		return entity.ErrDuplicateInvoice
	}

	stored := *order
	stored.ID = len(f.orders) + 1
	f.orders[order.InvoiceNumber] = &stored
	order.ID = stored.ID
	return nil
}

func (f *fakeOrderStore) AttachPaymentSession(_ context.Context, invoiceNumber, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.attachErr != nil {
		return f.attachErr
	}
	order, ok := f.orders[invoiceNumber]
	if !ok {
		return entity.ErrNotFound
	}
	order.PaymentSessionID = sessionID
	return nil
}

func (f *fakeOrderStore) GetByInvoiceAndPhone(_ context.Context, invoiceNumber, phone string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[invoiceNumber]
	if !ok || order.Customer.Phone != phone {
		return nil, entity.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) GetBySessionID(_ context.Context, sessionID string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, order := range f.orders {
		if order.PaymentSessionID == sessionID && sessionID != "" {
			copied := *order
			return &copied, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (f *fakeOrderStore) GetByInvoice(_ context.Context, invoiceNumber string) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[invoiceNumber]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) AdvanceStatusBySession(_ context.Context, sessionID string, to entity.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, order := range f.orders {
		if order.PaymentSessionID == sessionID && sessionID != "" {
			if !entity.CanTransition(order.Status, to) {
				return false, nil
			}
			order.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderStore) AdvanceStatusByInvoice(_ context.Context, invoiceNumber string, to entity.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[invoiceNumber]
	if !ok || !entity.CanTransition(order.Status, to) {
		return false, nil
	}
	order.Status = to
	return true, nil
}

// fakePaymentClient hands out sequential session ids or a configured error.
type fakePaymentClient struct {
	mu       sync.Mutex
	err      error
	sessions int
	last     payment.CheckoutSessionParams
}

func (f *fakePaymentClient) CreateCheckoutSession(_ context.Context, params payment.CheckoutSessionParams) (*payment.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	f.sessions++
	f.last = params
	id := fmt.Sprintf("cs_test_%d", f.sessions)
	return &payment.CheckoutSession{ID: id, URL: "https://pay.example.com/" + id}, nil
}

// fakePublisher records emitted lifecycle events as "<event>:<invoice>".
type fakePublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (f *fakePublisher) PublishOrderEvent(_ context.Context, order *entity.Order, event string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event+":"+order.InvoiceNumber)
	return nil
}

// fakeGuard claims keys in memory.
type fakeGuard struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{claimed: map[string]bool{}}
}

func (f *fakeGuard) Claim(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}
