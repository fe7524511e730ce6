package id

import (
	"strings"
	"testing"
	"time"
)

func TestRandomGenerator_NewID(t *testing.T) {
	g := &RandomGenerator{now: func() time.Time { return time.UnixMilli(36) }}

	first := g.NewID()
	second := g.NewID()
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
	prefix, suffix, ok := strings.Cut(first, "-")
	if !ok || prefix != "10" || len(suffix) != 16 {
		t.Fatalf("unexpected id shape %q", first)
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"  abc-123 ":             "abc-123",
		"":                       "",
		"has space":              "",
		"tab\there":              "",
		strings.Repeat("a", 129): "",
		strings.Repeat("b", 128): strings.Repeat("b", 128),
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
