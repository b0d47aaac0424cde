// Package api exposes the audit engine over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/auditkit/auditkit/internal/errs"
	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/internal/requestid"
	"github.com/auditkit/auditkit/pkg/fetcher"
)

// PageFetcher retrieves pages and robots.txt verdicts for the service.
type PageFetcher interface {
	Fetch(ctx context.Context, targetURL string) (*fetcher.Result, error)
	Indexability(ctx context.Context, pageURL *url.URL) models.Indexability
}

// AuditEngine runs a full audit over fetched HTML.
type AuditEngine interface {
	Run(rawURL, rawHTML string, meta models.ResponseMeta, opts models.Options) (*models.AuditReport, error)
}

// Service orchestrates fetch, audit, and robots.txt enrichment.
type Service struct {
	fetcher PageFetcher
	engine  AuditEngine
	logger  *slog.Logger
}

// NewService creates a Service backed by the given fetcher and engine.
func NewService(f PageFetcher, engine AuditEngine, logger *slog.Logger) *Service {
	return &Service{fetcher: f, engine: engine, logger: logger}
}

// Audit fetches rawURL and runs the full audit over the response.
func (s *Service) Audit(ctx context.Context, rawURL string, opts models.Options) (*models.AuditReport, error) {
	logger := s.logger.With("url", rawURL, "request_id", requestid.FromContext(ctx))

	pageURL, err := parseTargetURL(rawURL)
	if err != nil {
		return nil, err
	}

	result, err := s.fetcher.Fetch(ctx, pageURL.String())
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return nil, &errs.AppError{
			Kind:    errs.FetchFailed,
			Message: "Failed to fetch the page: " + err.Error(),
			Cause:   err,
		}
	}

	report, err := s.engine.Run(pageURL.String(), result.HTML, result.Meta, opts)
	if err != nil {
		logger.Error("audit failed", "error", err)
		return nil, &errs.AppError{
			Kind:    errs.Unknown,
			Message: "The audit could not be completed.",
			Cause:   err,
		}
	}

	indexability := s.fetcher.Indexability(ctx, pageURL)
	if indexability.Available {
		report.Indexability = &indexability
	}

	logger.Info("audit complete",
		"score", report.Score,
		"total_checks", report.Stats.TotalChecks,
		"failed_checks", report.Stats.FailedChecks,
		"status", result.StatusCode,
	)
	return report, nil
}

func parseTargetURL(rawURL string) (*url.URL, error) {
	invalid := func() error {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "The \"url\" field must be an absolute http or https URL.",
		}
	}

	pageURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, invalid()
	}
	if (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return nil, invalid()
	}
	return pageURL, nil
}
