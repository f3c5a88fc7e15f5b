package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		header     string
		value      string
		wantStatus int
	}{
		{"disabled when key empty", "", "", "", http.StatusOK},
		{"missing key rejected", "secret", "", "", http.StatusUnauthorized},
		{"wrong key rejected", "secret", "X-API-Key", "nope", http.StatusUnauthorized},
		{"x-api-key accepted", "secret", "X-API-Key", "secret", http.StatusOK},
		{"bearer accepted", "secret", "Authorization", "Bearer secret", http.StatusOK},
		{"bearer with wrong token rejected", "secret", "Authorization", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Auth(tt.apiKey)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	t.Run("wildcard by default", func(t *testing.T) {
		h := CORS(nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want *", got)
		}
	})

	t.Run("echoes allowed origin", func(t *testing.T) {
		h := CORS([]string{"https://app.example"})(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.Header.Set("Origin", "https://app.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
			t.Errorf("Allow-Origin = %q, want https://app.example", got)
		}
	})

	t.Run("omits header for unknown origin", func(t *testing.T) {
		h := CORS([]string{"https://app.example"})(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		h := CORS(nil)(okHandler())
		req := httptest.NewRequest(http.MethodOptions, "/api/contracts", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}

type stubLimiter struct {
	allowed bool
	err     error
	gotKey  string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	s.gotKey = key
	return s.allowed, s.err
}

func TestRateLimit(t *testing.T) {
	t.Run("allows under limit", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true}
		h := RateLimit(limiter, 10, time.Minute, discardLogger())(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if limiter.gotKey != "http:10.1.2.3" {
			t.Errorf("key = %q, want http:10.1.2.3", limiter.gotKey)
		}
	})

	t.Run("rejects over limit", func(t *testing.T) {
		limiter := &stubLimiter{allowed: false}
		h := RateLimit(limiter, 10, time.Minute, discardLogger())(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429", rec.Code)
		}
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		limiter := &stubLimiter{err: errors.New("redis down")}
		h := RateLimit(limiter, 10, time.Minute, discardLogger())(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("prefers forwarded header", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true}
		h := RateLimit(limiter, 10, time.Minute, discardLogger())(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if limiter.gotKey != "http:203.0.113.9" {
			t.Errorf("key = %q, want http:203.0.113.9", limiter.gotKey)
		}
	})
}
