package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/auditkit/auditkit/internal/errs"
	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/ratelimit"
)

const auditTimeout = 90 * time.Second

// Transport handles HTTP requests for page audits.
type Transport struct {
	service    *Service
	gate       ratelimit.Gate
	logger     *slog.Logger
	metrics    *metrics
	trustProxy bool
}

// NewTransport creates an HTTP transport backed by the given service.
// The gate admits or rejects clients before any fetch happens.
// trustProxy controls whether X-Forwarded-For may override the remote
// address as the rate-limit key; leave it off unless a trusted reverse
// proxy sets the header, because direct callers can forge it.
func NewTransport(service *Service, gate ratelimit.Gate, logger *slog.Logger, reg *prometheus.Registry, trustProxy bool) *Transport {
	return &Transport{
		service:    service,
		gate:       gate,
		logger:     logger,
		metrics:    newMetrics(reg),
		trustProxy: trustProxy,
	}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux, reg *prometheus.Registry) {
	mux.HandleFunc("POST /v1/audit", t.handleAudit)
	mux.HandleFunc("GET /healthz", t.handleHealthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

type auditRequest struct {
	URL           string `json:"url"`
	TargetKeyword string `json:"targetKeyword,omitempty"`
}

func (t *Transport) handleAudit(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	start := time.Now()
	// Every outcome records its duration so the histogram keeps the
	// slow error and timeout requests.
	finish := func(status string) {
		t.metrics.auditsTotal.WithLabelValues(status).Inc()
		t.metrics.auditDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}

	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		finish("invalid")
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return
	}
	if req.URL == "" {
		finish("invalid")
		t.renderError(w, http.StatusBadRequest, "The \"url\" field is required.")
		return
	}

	if !t.gate.Allow(t.clientIP(r)) {
		t.metrics.rateLimited.Inc()
		finish("rate_limited")
		t.renderError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), auditTimeout)
	defer cancel()

	report, err := t.service.Audit(ctx, req.URL, models.Options{TargetKeyword: req.TargetKeyword})
	if err != nil {
		finish("error")
		t.handleServiceError(w, err)
		return
	}

	finish("ok")
	t.renderJSON(w, http.StatusOK, report)
}

func (t *Transport) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.RateLimited:
			status = http.StatusTooManyRequests
		case errs.FetchFailed, errs.Unknown:
			// 500 Internal Server Error
		}
		t.renderError(w, status, appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, models.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}

// clientIP extracts the rate-limit key for a request. X-Forwarded-For
// is honored only behind a trusted proxy.
func (t *Transport) clientIP(r *http.Request) string {
	if t.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
