package models

// Severity is the importance weight of a check. It reflects how much the
// check matters, not how badly it failed.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight returns the scoring weight for a severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// Category groups checks in the report rollup.
type Category string

const (
	CategorySEO           Category = "SEO"
	CategoryTechnical     Category = "Technical"
	CategoryContent       Category = "Content"
	CategorySecurity      Category = "Security"
	CategorySocial        Category = "Social"
	CategoryAccessibility Category = "Accessibility"
	CategoryPerformance   Category = "Performance"
)

// CheckResult is one evaluated rule. Immutable once produced.
// Value, when present, holds the measured quantity driving the verdict
// (a character count, a percentage, a millisecond duration).
type CheckResult struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Value    any      `json:"value,omitempty"`
}

// Issue is a user-facing critical issue derived from a failed
// high-severity check.
type Issue struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// CategorySummary is the per-category rollup. Counts are unweighted.
type CategorySummary struct {
	Total  int           `json:"total"`
	Passed int           `json:"passed"`
	Checks []CheckResult `json:"checks"`
}

// Stats summarizes the flat check list.
type Stats struct {
	TotalChecks  int `json:"totalChecks"`
	PassedChecks int `json:"passedChecks"`
	FailedChecks int `json:"failedChecks"`
}

// Keyword is one extracted keyword with its frequency.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ContentAnalysis carries the supporting content signals. The article
// fields are optional enrichment and may be empty.
type ContentAnalysis struct {
	Readability    int       `json:"readability"`
	Keywords       []Keyword `json:"keywords"`
	WordCount      int       `json:"wordCount"`
	ArticleTitle   string    `json:"articleTitle,omitempty"`
	ArticleExcerpt string    `json:"articleExcerpt,omitempty"`
}

// Performance reports fetch timing and page weight in the units the
// report consumers expect: seconds (2 decimals) and kilobytes (rounded).
type Performance struct {
	LoadTime float64 `json:"loadTime"`
	HTMLSize float64 `json:"htmlSize"`
}

// AuditReport is the complete audit output. Nothing mutates it after
// assembly.
type AuditReport struct {
	Score            int                          `json:"score"`
	URL              string                       `json:"url"`
	CriticalIssues   []Issue                      `json:"criticalIssues"`
	QuickWins        []string                     `json:"quickWins"`
	Checks           []CheckResult                `json:"checks"`
	ChecksByCategory map[Category]CategorySummary `json:"checksByCategory"`
	Stats            Stats                        `json:"stats"`
	Performance      Performance                  `json:"performance"`
	ContentAnalysis  ContentAnalysis              `json:"contentAnalysis"`
	Indexability     *Indexability                `json:"indexability,omitempty"`
}

// ErrorResponse is the JSON error envelope returned by the API.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ResponseMeta is the fetch metadata the evaluator consumes alongside the
// parsed document. Header keys are lowercased.
type ResponseMeta struct {
	Headers       map[string]string `json:"headers"`
	LoadTimeMs    int64             `json:"loadTimeMs"`
	HTMLSizeBytes int               `json:"htmlSizeBytes"`
}

// Options tunes a single audit run.
type Options struct {
	TargetKeyword string `json:"targetKeyword,omitempty"`
}

// Indexability is the optional robots.txt enrichment attached next to a
// report. Available is false when robots.txt could not be fetched; the
// remaining fields are then meaningless.
type Indexability struct {
	Available   bool `json:"available"`
	RobotsFound bool `json:"robotsFound"`
	AllowsCrawl bool `json:"allowsCrawl"`
}
