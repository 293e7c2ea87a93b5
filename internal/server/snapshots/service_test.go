package snapshots

import (
	"regexp"
	"testing"
)

func TestRandomStorageKey(t *testing.T) {
	pattern := regexp.MustCompile(`^projects/\d{4}/\d{1,2}/\d{1,2}/[0-9a-f-]{36}$`)

	k1 := RandomStorageKey()
	k2 := RandomStorageKey()

	if !pattern.MatchString(k1) {
		t.Fatalf("unexpected key format: %q", k1)
	}
	if k1 == k2 {
		t.Fatalf("keys must be unique, got %q twice", k1)
	}
}
