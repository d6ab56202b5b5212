package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_WithinBurst(t *testing.T) {
	l := NewRegionLimiter(Config{RequestsPerSecond: 1, BurstSize: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "IN"); err != nil {
			t.Fatalf("wait %d within burst failed: %v", i, err)
		}
	}
}

func TestWait_RegionsAreIndependent(t *testing.T) {
	l := NewRegionLimiter(Config{RequestsPerSecond: 1, BurstSize: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "IN"); err != nil {
		t.Fatalf("first region wait failed: %v", err)
	}
	// Exhausting IN's burst must not affect AE.
	if err := l.Wait(ctx, "AE"); err != nil {
		t.Fatalf("second region wait failed: %v", err)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	l := NewRegionLimiter(Config{RequestsPerSecond: 0.1, BurstSize: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "IN"); err != nil {
		t.Fatalf("burst wait failed: %v", err)
	}
	if err := l.Wait(ctx, "IN"); err == nil {
		t.Fatal("expected wait to fail once the context deadline passed")
	}
}

func TestSetRegionLimit(t *testing.T) {
	l := NewRegionLimiter(Config{RequestsPerSecond: 0.1, BurstSize: 1})
	l.SetRegionLimit("IN", 1000, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx, "IN"); err != nil {
			t.Fatalf("wait %d under raised limit failed: %v", i, err)
		}
	}
}
