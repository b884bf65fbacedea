package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	empty := m.Snapshot()
	assert.Equal(t, "ok", empty.Status)
	assert.Zero(t, empty.UpstreamCalls)
	assert.Zero(t, empty.ErrorRate)

	m.RecordUpstream("/imoveis", "200", 100*time.Millisecond)
	m.RecordUpstream("/imoveis", "200", 300*time.Millisecond)
	m.RecordUpstream("/debitos", "504", time.Second)
	m.RecordUpstream("/debitos", "500", 200*time.Millisecond)
	m.IncrUpstreamError("timeout")
	m.IncrUpstreamError("upstream")
	m.IncrTokenRefresh("success")

	s := m.Snapshot()
	assert.EqualValues(t, 4, s.UpstreamCalls)
	assert.EqualValues(t, 2, s.UpstreamErrors)
	assert.EqualValues(t, 1, s.UpstreamTimeouts)
	assert.EqualValues(t, 1, s.TokenRefreshes)
	assert.InDelta(t, 0.5, s.ErrorRate, 1e-9)
	assert.InDelta(t, 400, s.AvgUpstreamLatency, 1e-6)
}

func TestCorrelationMiddleware(t *testing.T) {
	var seen string
	h := observability.CorrelationMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.CorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(observability.CorrelationHeader, "corr-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "corr-1", seen)
	assert.Equal(t, "corr-1", rec.Header().Get(observability.CorrelationHeader))
}

func TestRecoverMiddleware(t *testing.T) {
	h := observability.RecoverMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Erro interno ao processar requisição."}`, rec.Body.String())
}
