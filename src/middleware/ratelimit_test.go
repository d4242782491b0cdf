package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Request %d should have been allowed", i+1)
		}
	}

	if rl.Allow("10.0.0.1") {
		t.Error("Request over the limit should have been rejected")
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("First client's request should have been allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("Second client must have its own window")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("First client is over its limit")
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("First request should have been allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("Second request in the same window should have been rejected")
	}

	time.Sleep(15 * time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Error("Request after window expiry should have been allowed")
	}
}
