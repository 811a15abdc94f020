package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// --- Cache ---

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v != 42 {
		t.Errorf("Get = %v, %v", v, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get returned a value for a missing key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)

	c.SetWithTTL("k", "v", -time.Second) // already expired
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still returned")
	}
}

func TestCacheInvalidateAndFlush(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("invalidated entry still returned")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("unrelated entry lost")
	}

	c.Flush()
	if _, ok := c.Get("b"); ok {
		t.Error("flushed entry still returned")
	}
}

// --- RateLimiter ---

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("burst of 3 took %v, want immediate", elapsed)
	}
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	rl := NewRateLimiter(1, 100*time.Millisecond)
	ctx := context.Background()

	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second Wait returned after %v, want a refill delay", elapsed)
	}
}

func TestRateLimiterContextCancel(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	_ = rl.Wait(context.Background()) // drain the only token

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want deadline exceeded", err)
	}
}

// --- DoGet ---

func TestDoGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent/1.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	body, status, err := DoGet(context.Background(), srv.URL, map[string]string{"User-Agent": "test-agent/1.0"})
	if err != nil {
		t.Fatalf("DoGet: %v", err)
	}
	defer body.Close()

	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "hello" {
		t.Errorf("body = %q", data)
	}
}

func TestDoGetErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, status, err := DoGet(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d", status)
	}
	var herr *ErrHTTP
	if !errors.As(err, &herr) {
		t.Fatalf("error type = %T", err)
	}
	if herr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", herr.StatusCode)
	}
}

func TestDoGetContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := DoGet(ctx, srv.URL, nil)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
