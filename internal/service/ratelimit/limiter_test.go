package ratelimit

import "testing"

func TestBurstThenDeny(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("request %d within capacity denied", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatalf("request over capacity allowed")
	}
}

func TestKeysIsolated(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first request denied")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("exhausted key allowed")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("fresh key denied")
	}
}
