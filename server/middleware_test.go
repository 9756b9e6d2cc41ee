package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/posologie-api/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRealIPMiddleware(t *testing.T) {
	var seenAddr string
	handler := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAddr = r.RemoteAddr
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/formulaire", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if seenAddr != "203.0.113.7" {
		t.Errorf("Expected first forwarded IP, got %q", seenAddr)
	}
}

func TestBlockDirectAccessMiddleware(t *testing.T) {
	handler := BlockDirectAccessMiddleware(okHandler())

	t.Run("localhost allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/formulaire", nil)
		req.RemoteAddr = "127.0.0.1:54321"
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200 for localhost, got %d", rr.Code)
		}
	})

	t.Run("direct remote access blocked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/formulaire", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for direct access, got %d", rr.Code)
		}
	})

	t.Run("proxied request allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/formulaire", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		req.Header.Set("X-Forwarded-For", "198.51.100.3")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200 for proxied request, got %d", rr.Code)
		}
	})
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := &config.Config{
		MaxRequestBody: 100,
		MaxHeaderSize:  1024,
	}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/calculer", strings.NewReader("{}"))
		req.Header.Set("Content-Length", "2")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rr.Code)
		}
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/calculer", strings.NewReader("{}"))
		req.Header.Set("Content-Length", "5000")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413, got %d", rr.Code)
		}
	})

	t.Run("oversized headers rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/formulaire", nil)
		req.Header.Set("X-Big", strings.Repeat("x", 2048))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusRequestHeaderFieldsTooLarge {
			t.Errorf("Expected 431, got %d", rr.Code)
		}
	})
}

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		path     string
		expected int64
	}{
		{"/", 0},
		{"/favicon.ico", 0},
		{"/health", 5},
		{"/metrics", 5},
		{"/calculer", 100},
		{"/formulaire", 20},
		{"/formulaire/warfarine", 20},
		{"/unknown", 20},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := getTokenCost(req); got != tt.expected {
			t.Errorf("getTokenCost(%s) = %d, want %d", tt.path, got, tt.expected)
		}
	}
}

func TestRateLimitHandler(t *testing.T) {
	handler := RateLimitHandler(okHandler())

	t.Run("allows requests within budget", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("X-RateLimit-Remaining") == "" {
			t.Error("Expected X-RateLimit-Remaining header")
		}
	})

	t.Run("rejects when bucket is drained", func(t *testing.T) {
		// 1000 token bucket, /calculer costs 100: the 11th call must fail.
		var lastCode int
		for i := 0; i < 11; i++ {
			req := httptest.NewRequest(http.MethodPost, "/calculer", nil)
			req.RemoteAddr = "192.0.2.20:1234"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			lastCode = rr.Code
		}

		if lastCode != http.StatusTooManyRequests {
			t.Errorf("Expected 429 after draining the bucket, got %d", lastCode)
		}
	})
}
