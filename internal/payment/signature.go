package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
)

// SignatureHeader carries the processor's webhook signature, in the form
// "t=<unix seconds>,v1=<hex hmac-sha256 of "<t>.<payload>">".
const SignatureHeader = "Webhook-Signature"

// DefaultTolerance bounds how stale a signed timestamp may be before the
// delivery is rejected as a possible replay.
const DefaultTolerance = 5 * time.Minute

// ComputeSignature signs a payload with the shared webhook secret for the
// given timestamp. Exposed so tests and local tooling can produce valid
// deliveries.
func ComputeSignature(t time.Time, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", t.Unix())
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignHeader builds a complete signature header value for a payload.
func SignHeader(t time.Time, payload []byte, secret string) string {
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), ComputeSignature(t, payload, secret))
}

// VerifySignature checks a webhook delivery's authenticity and freshness.
// Any failure is reported as entity.ErrSignature; callers must not act on
// the payload when an error is returned.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return fmt.Errorf("%w: missing signature header", entity.ErrSignature)
	}

	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: malformed timestamp", entity.ErrSignature)
			}
			ts = parsed
		case "v1":
			sig = value
		}
	}

	if ts == 0 || sig == "" {
		return fmt.Errorf("%w: malformed signature header", entity.ErrSignature)
	}

	signedAt := time.Unix(ts, 0)
	age := now.Sub(signedAt)
	if age > tolerance || age < -tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", entity.ErrSignature)
	}

	expected := ComputeSignature(signedAt, payload, secret)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("%w: signature mismatch", entity.ErrSignature)
	}

	return nil
}
