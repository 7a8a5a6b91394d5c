package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

const testSecret = "whsec_test"

func TestVerifySignatureAcceptsValidDelivery(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()
	header := SignHeader(now, payload, testSecret)

	assert.NoError(t, VerifySignature(payload, header, testSecret, DefaultTolerance, now))
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()
	header := SignHeader(now, payload, testSecret)

	err := VerifySignature([]byte(`{"type":"checkout.session.expired"}`), header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, entity.ErrSignature)
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	header := SignHeader(now, payload, "whsec_other")

	err := VerifySignature(payload, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, entity.ErrSignature)
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	signedAt := time.Now().Add(-time.Hour)
	header := SignHeader(signedAt, payload, testSecret)

	err := VerifySignature(payload, header, testSecret, DefaultTolerance, time.Now())
	assert.ErrorIs(t, err, entity.ErrSignature)
}

func TestVerifySignatureRejectsMissingOrMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{"", "v1=abc", "t=notanumber,v1=abc", "t=123"} {
		err := VerifySignature(payload, header, testSecret, DefaultTolerance, now)
		assert.ErrorIs(t, err, entity.ErrSignature, "header %q", header)
	}
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_123", "customer_email": "asha@example.com"}}
	}`)

	event, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_123", event.Data.Object.ID)
	assert.Equal(t, "asha@example.com", event.Data.Object.CustomerEmail)
}
