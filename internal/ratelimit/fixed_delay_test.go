package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestFixedDelayZeroNeverBlocks(t *testing.T) {
	f := NewFixedDelay(0)
	for i := 0; i < 3; i++ {
		if err := f.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if got := f.Reserve(); got != 0 {
		t.Errorf("Reserve() = %v, want 0", got)
	}
}

func TestFixedDelaySpacesCalls(t *testing.T) {
	f := NewFixedDelay(50 * time.Millisecond)

	start := time.Now()
	if err := f.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}
	if err := f.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("two calls completed in %v, want >= 50ms", elapsed)
	}
}

func TestFixedDelayContextCancel(t *testing.T) {
	f := NewFixedDelay(time.Minute)
	if err := f.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := f.Wait(ctx); err == nil {
		t.Error("expected context error on second Wait")
	}
}

func TestFixedDelayReset(t *testing.T) {
	f := NewFixedDelay(time.Minute)
	if err := f.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if f.Reserve() == 0 {
		t.Fatal("expected a pending wait before Reset")
	}
	f.Reset()
	if got := f.Reserve(); got != 0 {
		t.Errorf("Reserve() after Reset = %v, want 0", got)
	}
}
