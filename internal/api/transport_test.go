package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/fetcher"
	"github.com/auditkit/auditkit/pkg/ratelimit"
)

type mockFetcher struct {
	result       *fetcher.Result
	err          error
	indexability models.Indexability
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (*fetcher.Result, error) {
	return m.result, m.err
}

func (m *mockFetcher) Indexability(_ context.Context, _ *url.URL) models.Indexability {
	return m.indexability
}

type mockEngine struct {
	report *models.AuditReport
	err    error
}

func (m *mockEngine) Run(_, _ string, _ models.ResponseMeta, _ models.Options) (*models.AuditReport, error) {
	return m.report, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMux(f PageFetcher, engine AuditEngine, gate ratelimit.Gate) *http.ServeMux {
	return newTrustProxyMux(f, engine, gate, false)
}

func newTrustProxyMux(f PageFetcher, engine AuditEngine, gate ratelimit.Gate, trustProxy bool) *http.ServeMux {
	logger := discardLogger()
	svc := NewService(f, engine, logger)
	reg := prometheus.NewRegistry()
	transport := NewTransport(svc, gate, logger, reg, trustProxy)
	mux := http.NewServeMux()
	transport.RegisterRoutes(mux, reg)
	return mux
}

func happyFetcher() *mockFetcher {
	return &mockFetcher{
		result: &fetcher.Result{
			HTML:       "<html></html>",
			StatusCode: http.StatusOK,
			Meta:       models.ResponseMeta{LoadTimeMs: 100, HTMLSizeBytes: 13},
		},
	}
}

func happyEngine() *mockEngine {
	return &mockEngine{
		report: &models.AuditReport{
			Score: 87,
			URL:   "https://example.com/",
			Stats: models.Stats{TotalChecks: 30, PassedChecks: 26, FailedChecks: 4},
		},
	}
}

func postAudit(mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/audit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleAuditSuccess(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.Unlimited{})

	rec := postAudit(mux, `{"url": "https://example.com/"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var report models.AuditReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, 87, report.Score)
	assert.Equal(t, "https://example.com/", report.URL)
}

func TestHandleAuditInvalidBody(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.Unlimited{})

	rec := postAudit(mux, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAuditMissingURL(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.Unlimited{})

	rec := postAudit(mux, `{"url": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAuditInvalidURL(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.Unlimited{})

	for _, raw := range []string{"not-a-url", "ftp://example.com/", "https://"} {
		rec := postAudit(mux, `{"url": "`+raw+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "url %q", raw)

		var resp models.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandleAuditRateLimited(t *testing.T) {
	gate := ratelimit.NewFixedWindow(2, time.Hour)
	mux := newTestMux(happyFetcher(), happyEngine(), gate)

	body := `{"url": "https://example.com/"}`
	assert.Equal(t, http.StatusOK, postAudit(mux, body).Code)
	assert.Equal(t, http.StatusOK, postAudit(mux, body).Code)

	rec := postAudit(mux, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "Rate limit")
}

func TestHandleAuditFetchFailure(t *testing.T) {
	f := &mockFetcher{err: errors.New("upstream returned 503 Service Unavailable")}
	mux := newTestMux(f, happyEngine(), ratelimit.Unlimited{})

	rec := postAudit(mux, `{"url": "https://example.com/"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "503")
}

func TestHandleAuditAttachesIndexability(t *testing.T) {
	f := happyFetcher()
	f.indexability = models.Indexability{Available: true, RobotsFound: true, AllowsCrawl: true}
	mux := newTestMux(f, happyEngine(), ratelimit.Unlimited{})

	rec := postAudit(mux, `{"url": "https://example.com/"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var report models.AuditReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.NotNil(t, report.Indexability)
	assert.True(t, report.Indexability.AllowsCrawl)
}

func TestHealthz(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.Unlimited{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.Unlimited{})

	postAudit(mux, `{"url": "https://example.com/"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auditkit_audits_total")
}

func TestDurationRecordedForFailedAudits(t *testing.T) {
	f := &mockFetcher{err: errors.New("upstream returned 503 Service Unavailable")}
	mux := newTestMux(f, happyEngine(), ratelimit.Unlimited{})

	postAudit(mux, `{"url": "https://example.com/"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	// Slow failing requests must land in the latency histogram too.
	assert.Contains(t, rec.Body.String(), `auditkit_audit_duration_seconds_count{status="error"} 1`)
}

func TestDurationRecordedWhenRateLimited(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.NewFixedWindow(1, time.Hour))

	body := `{"url": "https://example.com/"}`
	postAudit(mux, body)
	postAudit(mux, body)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), `auditkit_audit_duration_seconds_count{status="ok"} 1`)
	assert.Contains(t, rec.Body.String(), `auditkit_audit_duration_seconds_count{status="rate_limited"} 1`)
}

func TestForwardedForIgnoredByDefault(t *testing.T) {
	mux := newTestMux(happyFetcher(), happyEngine(), ratelimit.NewFixedWindow(2, time.Hour))

	// A direct caller rotating X-Forwarded-For must not mint fresh
	// rate-limit keys.
	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/v1/audit", strings.NewReader(`{"url": "https://example.com/"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", string(rune('a'+i))+".example")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i+1)
	}
}

func TestForwardedForHonoredBehindTrustedProxy(t *testing.T) {
	mux := newTrustProxyMux(happyFetcher(), happyEngine(), ratelimit.NewFixedWindow(1, time.Hour), true)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/audit", strings.NewReader(`{"url": "https://example.com/"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1, 172.16.0.9"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get("X-Request-ID")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NotEmpty(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
