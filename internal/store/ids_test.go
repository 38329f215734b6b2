package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_PrefixAndLength(t *testing.T) {
	for _, prefix := range []string{categoryIDPrefix, edgeIDPrefix, tagIDPrefix, bookmarkIDPrefix} {
		id, err := newRandomID(prefix)
		if err != nil {
			t.Fatalf("newRandomID: %v", err)
		}
		if !strings.HasPrefix(id, prefix+"-") {
			t.Fatalf("expected %s prefix, got %q", prefix, id)
		}
		suffix := strings.TrimPrefix(id, prefix+"-")
		if got, want := len(suffix), 8; got != want {
			t.Fatalf("expected suffix len %d, got %d (%q)", want, got, suffix)
		}
		if suffix != strings.ToLower(suffix) {
			t.Fatalf("expected lowercase suffix, got %q", suffix)
		}
	}
}

func TestNewRandomID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id, err := newRandomID("cat")
		if err != nil {
			t.Fatalf("newRandomID: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
