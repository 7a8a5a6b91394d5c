package invoice

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// Prefix identifies RameshOrchards invoices; customers type these numbers
// into the tracking form, so the format stays short and uppercase.
const Prefix = "RO"

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// seq is folded into the time digits so bursts of generations within one
// millisecond still get distinct digits.
var seq atomic.Int64

// Generate produces a human-shareable invoice number: the merchant prefix,
// six decimal digits derived from the current unix-milli time, and three
// random base-36 characters, e.g. RO482913K7A.
//
// Uniqueness is overwhelmingly probable, not guaranteed. Callers must treat a
// unique-constraint violation from the store as retryable and regenerate.
func Generate() string {
	timePart := (time.Now().UnixMilli() + seq.Add(1)) % 1_000_000

	suffix := make([]byte, 3)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}

	return fmt.Sprintf("%s%06d%s", Prefix, timePart, suffix)
}
