package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew_Disabled(t *testing.T) {
	for _, rpm := range []int{0, -5} {
		l := New(rpm)
		if l != nil {
			t.Fatalf("New(%d) expected nil limiter", rpm)
		}
		if waited, err := l.Wait(context.Background()); err != nil || waited != 0 {
			t.Errorf("nil limiter should not block: waited %s, err %v", waited, err)
		}
		if l.RPM() != 0 {
			t.Errorf("expected 0 rpm, got %d", l.RPM())
		}
	}
}

func TestNew_Burst(t *testing.T) {
	tests := []struct {
		rpm       int
		wantBurst int
	}{
		{rpm: 5, wantBurst: 1},
		{rpm: 120, wantBurst: 12},
		{rpm: 600, wantBurst: 60},
	}

	for _, tt := range tests {
		l := New(tt.rpm)
		if got := l.limiter.Burst(); got != tt.wantBurst {
			t.Errorf("New(%d) burst = %d, want %d", tt.rpm, got, tt.wantBurst)
		}
		if l.RPM() != tt.rpm {
			t.Errorf("expected rpm %d, got %d", tt.rpm, l.RPM())
		}
	}
}

func TestWait_CancelledContext(t *testing.T) {
	l := New(1)
	// drain the single burst token
	if _, err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := l.Wait(ctx); err == nil {
		t.Fatal("expected error when the next token is beyond the deadline")
	}
}

func TestWait_NilLimiterHonoursCancel(t *testing.T) {
	var l *Limiter
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Wait(ctx); err == nil {
		t.Fatal("expected cancelled context error")
	}
}
