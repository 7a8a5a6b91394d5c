package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
	"github.com/himalayanBull/RameshOrchards/internal/payment"
)

// WebhookService processes signed payment-processor events. It is the only
// component allowed to move an order out of pending, and it shares no state
// with checkout beyond the persisted order row and the session handle.
type WebhookService struct {
	orders    OrderStore
	publisher EventPublisher
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookService(orders OrderStore, publisher EventPublisher, secret string) *WebhookService {
	return &WebhookService{
		orders:    orders,
		publisher: publisher,
		secret:    secret,
		tolerance: payment.DefaultTolerance,
		now:       time.Now,
	}
}

// HandleEvent verifies and applies one webhook delivery. Processing is
// idempotent: replaying a completed event against an order already in
// processing or later is a successful no-op, and an expired event can never
// drag a paid order back to cancelled.
func (s *WebhookService) HandleEvent(ctx context.Context, body []byte, signatureHeader string) error {
	if err := payment.VerifySignature(body, signatureHeader, s.secret, s.tolerance, s.now()); err != nil {
		logger.Warn().Err(err).Msg("Rejected webhook delivery with bad signature")
		return err
	}

	event, err := payment.ParseEvent(body)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected malformed webhook payload")
		return fmt.Errorf("malformed webhook payload: %w", err)
	}

	switch event.Type {
	case payment.EventCheckoutCompleted:
		return s.applyTransition(ctx, event.Data.Object.ID, entity.StatusProcessing)
	case payment.EventCheckoutExpired:
		return s.applyTransition(ctx, event.Data.Object.ID, entity.StatusCancelled)
	default:
		logger.Info().Str("type", event.Type).Msg("Ignoring webhook event type")
		return nil
	}
}

func (s *WebhookService) applyTransition(ctx context.Context, sessionID string, to entity.OrderStatus) error {
	if sessionID == "" {
		logger.Warn().Msg("Webhook event carried no session id")
		return nil
	}

	updated, err := s.orders.AdvanceStatusBySession(ctx, sessionID, to)
	if err != nil {
		return &entity.PersistenceError{Err: err}
	}

	if !updated {
		order, err := s.orders.GetBySessionID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				// Acknowledge so the processor stops retrying a permanent
				// mismatch, but flag the integrity gap on our side.
				logger.Warn().Str("session_id", sessionID).Msg("Webhook for unknown payment session")
				return nil
			}
			return &entity.PersistenceError{Err: err}
		}
		logger.Info().
			Str("invoice", order.InvoiceNumber).
			Str("status", string(order.Status)).
			Str("target", string(to)).
			Msg("Webhook transition skipped by status guard")
		return nil
	}

	order, err := s.orders.GetBySessionID(ctx, sessionID)
	if err != nil {
		return &entity.PersistenceError{Err: err}
	}

	logger.Info().
		Str("invoice", order.InvoiceNumber).
		Str("status", string(order.Status)).
		Msg("Order status advanced by webhook")

	if err := s.publisher.PublishOrderEvent(ctx, order, StatusEventName(to)); err != nil {
		logger.Error().Err(err).Str("invoice", order.InvoiceNumber).Msg("Error publishing order event")
	}

	return nil
}
