package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsBurstPerSource(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow(1) || !l.Allow(1) {
		t.Fatal("burst of 2 must be allowed")
	}
	if l.Allow(1) {
		t.Error("third immediate request must be throttled")
	}
	// A different source has its own budget.
	if !l.Allow(2) {
		t.Error("source 2 must not share source 1's budget")
	}
}

func TestLimiterDefaultBurst(t *testing.T) {
	l := NewLimiter(1, 0)
	for i := 0; i < 5; i++ {
		if !l.Allow(1) {
			t.Fatalf("request %d throttled, default burst is 5", i+1)
		}
	}
	if l.Allow(1) {
		t.Error("sixth immediate request must be throttled")
	}
}

func TestLimiterSetSourceRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetSourceRate(1, 100, 10)

	for i := 0; i < 10; i++ {
		if !l.Allow(1) {
			t.Fatalf("request %d throttled after rate override", i+1)
		}
	}
	// Other sources keep the defaults.
	if !l.Allow(2) {
		t.Fatal("source 2 first request must pass")
	}
	if l.Allow(2) {
		t.Error("source 2 second immediate request must be throttled")
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	if err := l.Wait(context.Background(), 1); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, 1); err == nil {
		t.Fatal("wait beyond the context deadline must fail")
	}
}
