package audit

import (
	"errors"
	"math"

	"github.com/auditkit/auditkit/internal/models"
)

// ErrNoChecks signals an empty check list reaching the scorer. The
// registry is never empty, so this is an invariant violation rather
// than a user-facing condition; the scorer fails closed instead of
// dividing by zero.
var ErrNoChecks = errors.New("audit: no checks to score")

// Score computes the severity-weighted 0-100 score over a check list.
// Re-running it over a stored check list reproduces the original score.
func Score(checks []models.CheckResult) (int, error) {
	totalWeight := 0
	passedWeight := 0
	for _, c := range checks {
		w := c.Severity.Weight()
		totalWeight += w
		if c.Passed {
			passedWeight += w
		}
	}
	if totalWeight == 0 {
		return 0, ErrNoChecks
	}
	return int(math.Round(100 * float64(passedWeight) / float64(totalWeight))), nil
}

// GroupByCategory builds the per-category rollup. No weighting applies
// at this level; totals are plain counts.
func GroupByCategory(checks []models.CheckResult) map[models.Category]models.CategorySummary {
	grouped := make(map[models.Category]models.CategorySummary)
	for _, c := range checks {
		summary := grouped[c.Category]
		summary.Total++
		if c.Passed {
			summary.Passed++
		}
		summary.Checks = append(summary.Checks, c)
		grouped[c.Category] = summary
	}
	return grouped
}

// Summarize counts passed and failed checks.
func Summarize(checks []models.CheckResult) models.Stats {
	stats := models.Stats{TotalChecks: len(checks)}
	for _, c := range checks {
		if c.Passed {
			stats.PassedChecks++
		} else {
			stats.FailedChecks++
		}
	}
	return stats
}
