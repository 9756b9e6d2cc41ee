package logging

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestLoggingMiddleware(t *testing.T) {
	var logOutput strings.Builder
	logger := slog.New(slog.NewTextHandler(&logOutput, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	t.Run("/health is not logged", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}
		if logs := logOutput.String(); logs != "" {
			t.Errorf("expected no logs for /health, got: %s", logs)
		}
	})

	t.Run("/metrics is not logged", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if logs := logOutput.String(); logs != "" {
			t.Errorf("expected no logs for /metrics, got: %s", logs)
		}
	})

	t.Run("regular paths are logged", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodPost, "/calculer", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-789"))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		logs := logOutput.String()
		if logs == "" {
			t.Fatal("expected logs for regular path, got empty output")
		}
		if !strings.Contains(logs, "HTTP request") {
			t.Errorf("log should contain 'HTTP request', got: %s", logs)
		}
		if !strings.Contains(logs, "/calculer") {
			t.Errorf("log should contain path, got: %s", logs)
		}
		if !strings.Contains(logs, "request_id=test-789") {
			t.Errorf("log should contain request id, got: %s", logs)
		}
	})

	t.Run("non-string request ID falls back to unknown", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/formulaire", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, 12345))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if logs := logOutput.String(); !strings.Contains(logs, "request_id=unknown") {
			t.Errorf("log should contain request_id=unknown, got: %s", logs)
		}
	})

	t.Run("query params only logged when present", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/formulaire", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if logs := logOutput.String(); strings.Contains(logs, "query=") {
			t.Errorf("log should not contain query field when empty, got: %s", logs)
		}

		logOutput.Reset()
		req = httptest.NewRequest(http.MethodGet, "/formulaire?nom=warfarine", nil)
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if logs := logOutput.String(); !strings.Contains(logs, "nom=warfarine") {
			t.Errorf("log should contain query value, got: %s", logs)
		}
	})
}
