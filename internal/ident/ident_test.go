package ident

import (
	"strings"
	"testing"
	"time"
)

func TestNewID_Format(t *testing.T) {
	id := NewID("ord")

	if !strings.HasPrefix(id, "ord_") {
		t.Fatalf("NewID(%q) = %q, want prefix %q", "ord", id, "ord_")
	}

	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("NewID(%q) = %q, want three underscore-separated parts", "ord", id)
	}
	if len(parts[2]) != 12 {
		t.Fatalf("random suffix %q has length %d, want 12", parts[2], len(parts[2]))
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID("prod")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNowISO(t *testing.T) {
	before := time.Now().UTC()
	got := NowISO()

	ts, err := time.Parse(time.RFC3339, got)
	if err != nil {
		t.Fatalf("NowISO() = %q, not parseable as RFC3339: %v", got, err)
	}

	if !strings.HasSuffix(got, "Z") {
		t.Fatalf("NowISO() = %q, want UTC timestamp with Z suffix", got)
	}

	diff := ts.Sub(before)
	if diff < -time.Second || diff > time.Second {
		t.Fatalf("NowISO() = %q, too far from current time", got)
	}
}
