package invoice

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoicePattern = regexp.MustCompile(`^RO\d{6}[A-Z0-9]{3}$`)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		inv := Generate()
		require.Regexp(t, invoicePattern, inv)
	}
}

func TestGenerateNoCollisionsAcrossManyValues(t *testing.T) {
	const n = 100_000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		inv := Generate()
		_, dup := seen[inv]
		require.False(t, dup, "duplicate invoice number %s after %d generations", inv, i)
		seen[inv] = struct{}{}
	}

	assert.Len(t, seen, n)
}
