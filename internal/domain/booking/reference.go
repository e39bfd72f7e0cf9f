package booking

import (
	"crypto/rand"
	"fmt"
	"time"
)

const referenceSuffixLength = 4

// newReference produces a customer-facing reference like BK-20260115-4821.
// The random suffix keeps references from leaking booking volume; the store's
// unique index is the real uniqueness guarantee and callers retry on conflict.
func newReference(now time.Time) string {
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), randomDigits(referenceSuffixLength))
}

func randomDigits(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b)
}
