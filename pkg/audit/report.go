package audit

import (
	"fmt"

	"github.com/auditkit/auditkit/internal/models"
)

const (
	maxCriticalIssues = 5
	maxQuickWins      = 3
)

// criticalIssueText maps high-severity check ids to the user-facing
// issue presentation.
var criticalIssueText = map[string]models.Issue{
	"title_exists": {
		Title:       "Missing Title Tag",
		Description: "Your page doesn't have a title tag. This is critical for SEO.",
	},
	"meta_description": {
		Title:       "Missing Meta Description",
		Description: "Add a compelling meta description to improve click-through rates.",
	},
	"h1_exists": {
		Title:       "Missing H1 Tag",
		Description: "Add a primary H1 heading to clearly define your page topic.",
	},
	"https": {
		Title:       "Not Using HTTPS",
		Description: "Switch to HTTPS for security and better SEO rankings.",
	},
	"robots_meta": {
		Title:       "Page Blocked from Indexing",
		Description: "Remove the noindex directive so search engines can index this page.",
	},
	"viewport": {
		Title:       "Missing Mobile Viewport",
		Description: "Add viewport meta tag for proper mobile rendering.",
	},
	"response_time": {
		Title:       "Very Slow Server Response",
		Description: "The server took over 2 seconds to respond. Improve hosting or caching.",
	},
}

// CriticalIssues surfaces failed high-severity checks as user-facing
// issues, in evaluation order, truncated to the first five.
func CriticalIssues(checks []models.CheckResult) []models.Issue {
	issues := []models.Issue{}
	for _, c := range checks {
		if c.Passed || c.Severity != models.SeverityHigh {
			continue
		}
		issue, ok := criticalIssueText[c.ID]
		if !ok {
			issue = models.Issue{Title: c.Name, Description: c.Message}
		}
		issue.Severity = models.SeverityHigh
		issues = append(issues, issue)
		if len(issues) == maxCriticalIssues {
			break
		}
	}
	return issues
}

// QuickWins derives cheap, high-leverage fixes from a fixed subset of
// failing checks, in evaluation order, truncated to three.
func QuickWins(checks []models.CheckResult) []string {
	wins := []string{}
	for _, c := range checks {
		if c.Passed {
			continue
		}
		win := quickWinFor(c)
		if win == "" {
			continue
		}
		wins = append(wins, win)
		if len(wins) == maxQuickWins {
			break
		}
	}
	return wins
}

func quickWinFor(c models.CheckResult) string {
	switch c.ID {
	case "title_length":
		return fmt.Sprintf("Optimize title length (currently %v chars, ideal %d-%d)", c.Value, titleMinLength, titleMaxLength)
	case "meta_description_length":
		if length, ok := c.Value.(int); ok && length < metaDescMinLength {
			return fmt.Sprintf("Expand meta description (currently %d chars, ideal %d-%d)", length, metaDescMinLength, metaDescMaxLength)
		}
		return ""
	case "heading_hierarchy":
		return "Structure content with a single H1 followed by H2 subheadings"
	case "word_count":
		return fmt.Sprintf("Expand content (currently ~%v words, aim for %d+)", c.Value, minWordCount)
	case "internal_links":
		return "Add more internal links to improve site navigation and SEO"
	case "canonical":
		return "Add a canonical link tag to prevent duplicate content issues"
	case "html_size":
		return fmt.Sprintf("Reduce HTML size (currently %vKB) by minifying markup", c.Value)
	case "schema_markup":
		return "Add JSON-LD structured data to help search engines understand your content"
	case "og_image":
		return "Add an og:image tag so shared links show a preview image"
	case "h1_single":
		return fmt.Sprintf("Multiple H1 tags found (%v). Use only one H1 per page", c.Value)
	default:
		return ""
	}
}

// Assemble packages the evaluated checks and content signals into the
// final report. It is the single place the report shape is produced.
func Assemble(pageURL string, checks []models.CheckResult, analysis models.ContentAnalysis, perf models.Performance) (*models.AuditReport, error) {
	score, err := Score(checks)
	if err != nil {
		return nil, err
	}
	return &models.AuditReport{
		Score:            score,
		URL:              pageURL,
		CriticalIssues:   CriticalIssues(checks),
		QuickWins:        QuickWins(checks),
		Checks:           checks,
		ChecksByCategory: GroupByCategory(checks),
		Stats:            Summarize(checks),
		Performance:      perf,
		ContentAnalysis:  analysis,
	}, nil
}
