package api

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("client-a") {
		t.Error("request over the limit should be blocked")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("client-a") {
		t.Fatal("first request for client-a should be allowed")
	}
	if !rl.Allow("client-b") {
		t.Error("client-b must not be affected by client-a traffic")
	}
	if rl.Allow("client-a") {
		t.Error("client-a is at its limit")
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 50, false},
		{"1", 1, false},
		{"500", 500, false},
		{"50abc", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"501", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLimit(tt.raw, 50, 500)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLimit(%q) accepted, want error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLimit(%q): %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)

	if !rl.Allow("client") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("client") {
		t.Fatal("second immediate request should be blocked")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("client") {
		t.Error("request after the window expires should be allowed")
	}
}
