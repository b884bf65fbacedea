package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/araguaina/iptu-portal-bfa/internal/handler"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"

	"go.uber.org/zap"
)

func newBareRouter() http.Handler {
	return handler.NewRouter(nil, nil, observability.NewMetrics(), []string{"*"}, zap.NewNop())
}

func TestHealth(t *testing.T) {
	router := newBareRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	router := newBareRouter()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestPing(t *testing.T) {
	router := newBareRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newBareRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	router := newBareRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(observability.CorrelationHeader, "abc-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(observability.CorrelationHeader); got != "abc-123" {
		t.Errorf("expected correlation id abc-123, got %q", got)
	}
}

func TestCorrelationIDIsGenerated(t *testing.T) {
	router := newBareRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Header().Get(observability.CorrelationHeader) == "" {
		t.Error("expected a generated correlation id")
	}
}

func TestPaymentStubs(t *testing.T) {
	router := newBareRouter()

	for _, path := range []string{"/functions/processarPagamentoOnline", "/functions/consultarStatusPagamentos"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotImplemented {
			t.Errorf("%s: expected 501, got %d", path, rec.Code)
		}
	}
}

func TestGetAPIMetrics(t *testing.T) {
	router := newBareRouter()

	req := httptest.NewRequest(http.MethodPost, "/functions/getApiMetrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"origem":"iptu-portal-bfa"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
