package util

import (
	"context"
	"testing"
)

func TestLimiterAllowRespectsBurst(t *testing.T) {
	// Refill is effectively zero within the test, so only the burst counts.
	l := NewLimiter(0.001, 2)

	if !l.Allow(1) || !l.Allow(1) {
		t.Fatal("burst tokens should be available immediately")
	}
	if l.Allow(1) {
		t.Error("third event should be rejected")
	}
}

func TestLimiterWaitHonorsCancellation(t *testing.T) {
	l := NewLimiter(0.001, 1)
	if err := l.Wait(context.Background(), 1); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx, 1); err == nil {
		t.Error("wait on a canceled context must fail")
	}
}
