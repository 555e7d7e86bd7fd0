package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitRejectsOverBurst(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	if first.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", second.Code)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	a := httptest.NewRequest(http.MethodPost, "/query", nil)
	a.RemoteAddr = "10.0.0.1:5000"
	b := httptest.NewRequest(http.MethodPost, "/query", nil)
	b.RemoteAddr = "10.0.0.2:5000"

	handler.ServeHTTP(httptest.NewRecorder(), a)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, b)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client: got %d, want 200", rec.Code)
	}
}

func TestClientLimitersEvictIdleEntries(t *testing.T) {
	limiters := newClientLimiters(1, 1)
	now := time.Now()

	limiters.get("10.0.0.1", now)
	limiters.get("10.0.0.2", now.Add(limiterIdleTTL+limiterSweepEvery))

	limiters.mu.Lock()
	remaining := len(limiters.byClient)
	_, idleGone := limiters.byClient["10.0.0.1"]
	limiters.mu.Unlock()

	if remaining != 1 || idleGone {
		t.Fatalf("got %d entries (idle kept: %v), want only the active client", remaining, idleGone)
	}
}

func TestClientLimitersKeepActiveEntries(t *testing.T) {
	limiters := newClientLimiters(1, 1)
	now := time.Now()

	limiters.get("10.0.0.1", now)
	limiters.get("10.0.0.1", now.Add(limiterIdleTTL-time.Second))
	limiters.get("10.0.0.2", now.Add(limiterIdleTTL+limiterSweepEvery))

	limiters.mu.Lock()
	_, active := limiters.byClient["10.0.0.1"]
	limiters.mu.Unlock()

	if !active {
		t.Fatal("recently seen client was evicted")
	}
}
