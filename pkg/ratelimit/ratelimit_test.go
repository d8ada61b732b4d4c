// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-jwt.
//
// go-jwt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.


package ratelimit

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc/peer"
)

func TestNew(t *testing.T) {
	limiter := New(&Config{
		Enabled:           true,
		FailuresPerMinute: 60,
		Burst:             10,
	})
	if limiter == nil {
		t.Fatal("Expected limiter to be created")
	}
	defer limiter.Stop()

	if !limiter.IsEnabled() {
		t.Error("Expected limiter to be enabled")
	}

	stats := limiter.Stats()
	if stats["burst"] != 10 {
		t.Errorf("Expected burst 10, got %v", stats["burst"])
	}
	if stats["failures_per_minute"] != 60.0 {
		t.Errorf("Expected 60 failures per minute, got %v", stats["failures_per_minute"])
	}
}

func TestBlockedAfterBurst(t *testing.T) {
	limiter := New(&Config{
		Enabled:           true,
		FailuresPerMinute: 1,
		Burst:             3,
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if limiter.Blocked("10.0.0.1") {
			t.Fatalf("Client should not be blocked after %d failures", i)
		}
		limiter.RecordFailure("10.0.0.1")
	}

	if !limiter.Blocked("10.0.0.1") {
		t.Error("Client should be blocked once the burst is used up")
	}
	if limiter.Blocked("10.0.0.2") {
		t.Error("Other clients should not be affected")
	}
}

func TestBlockedDoesNotCharge(t *testing.T) {
	limiter := New(&Config{Enabled: true, FailuresPerMinute: 1, Burst: 1})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if limiter.Blocked("client") {
			t.Fatal("Checking must not consume the failure budget")
		}
	}
}

func TestDisabledLimiter(t *testing.T) {
	limiter := New(nil)
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		limiter.RecordFailure("client")
	}
	if limiter.Blocked("client") {
		t.Error("Disabled limiter should never block")
	}
	if limiter.Stats()["tracked_clients"] != 0 {
		t.Error("Disabled limiter should not track clients")
	}
}

func TestCleanup(t *testing.T) {
	limiter := New(&Config{Enabled: true, FailuresPerMinute: 60, MaxIdle: -1})
	defer limiter.Stop()

	limiter.RecordFailure("client")
	limiter.cleanup()

	if n := limiter.Stats()["tracked_clients"]; n != 0 {
		t.Errorf("Expected idle clients to be removed, %v remain", n)
	}
}

func TestStopTwice(t *testing.T) {
	limiter := New(&Config{Enabled: true, FailuresPerMinute: 60})
	limiter.Stop()
	limiter.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "192.0.2.1:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "192.0.2.1:1234", "198.51.100.7"},
		{"no port", nil, "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPeerIP(t *testing.T) {
	if got := PeerIP(context.Background()); got != "unknown" {
		t.Errorf("PeerIP() = %q, want unknown", got)
	}

	ctx := peer.NewContext(context.Background(), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.ParseIP("192.0.2.9"), Port: 5000},
	})
	if got := PeerIP(ctx); got != "192.0.2.9" {
		t.Errorf("PeerIP() = %q, want 192.0.2.9", got)
	}
}
