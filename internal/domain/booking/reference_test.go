package booking

import (
	"regexp"
	"testing"
	"time"
)

func TestNewReferenceFormat(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^BK-20260115-\d{4}$`)

	for i := 0; i < 100; i++ {
		ref := newReference(now)
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match BK-YYYYMMDD-NNNN", ref)
		}
	}
}

func TestNewReferenceVaries(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[newReference(now)] = true
	}
	// 200 draws over 10000 suffixes; all-identical output would mean the
	// random source is broken.
	if len(seen) < 2 {
		t.Fatalf("expected varied references, got %d distinct out of 200", len(seen))
	}
}
