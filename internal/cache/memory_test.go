package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = (%q, %v)", got, err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected expiry, got %v", err)
	}
}

func TestMemoryReturnsCopy(t *testing.T) {
	c := NewMemory(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("abc"), 0); err != nil {
		t.Fatal(err)
	}
	got, _ := c.Get(ctx, "k")
	got[0] = 'x'
	again, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("cached value mutated: %q", again)
	}
}

func TestMemoryClearAndClose(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Error("Clear left entries behind")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
}

func TestTyped(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	c := NewMemory(time.Minute)
	defer func() { _ = c.Close() }()
	typed := NewTyped[payload](c, time.Minute)
	ctx := context.Background()

	if _, ok := typed.Get(ctx, "missing"); ok {
		t.Error("expected miss")
	}
	if err := typed.Set(ctx, "k", &payload{Name: "secrets-ai"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := typed.Get(ctx, "k")
	if !ok || got.Name != "secrets-ai" {
		t.Errorf("Get = (%+v, %v)", got, ok)
	}

	// Garbage bytes decode as a miss, not an error.
	_ = c.Set(ctx, "bad", []byte("{not json"), 0)
	if _, ok := typed.Get(ctx, "bad"); ok {
		t.Error("garbage decoded as a hit")
	}
}
