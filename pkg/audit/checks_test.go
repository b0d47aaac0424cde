package audit

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/parser"
)

func evalPage(t *testing.T, rawHTML, pageURL string, meta models.ResponseMeta, opts models.Options) []models.CheckResult {
	t.Helper()
	u, err := url.Parse(pageURL)
	require.NoError(t, err)
	doc, err := parser.Parse(rawHTML, u)
	require.NoError(t, err)
	return Evaluate(doc, &Context{URL: u, Meta: meta, Options: opts})
}

func findCheck(t *testing.T, checks []models.CheckResult, id string) models.CheckResult {
	t.Helper()
	for _, c := range checks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("check %q not found", id)
	return models.CheckResult{}
}

func hasCheck(checks []models.CheckResult, id string) bool {
	for _, c := range checks {
		if c.ID == id {
			return true
		}
	}
	return false
}

func pageWithTitle(title string) string {
	return fmt.Sprintf("<html><head><title>%s</title></head><body></body></html>", title)
}

func TestTitleLengthBoundaries(t *testing.T) {
	tests := []struct {
		length       int
		wantPassed   bool
		wantSeverity models.Severity
	}{
		{29, false, models.SeverityMedium},
		{30, true, models.SeverityMedium},
		{60, true, models.SeverityMedium},
		{61, false, models.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d chars", tt.length), func(t *testing.T) {
			html := pageWithTitle(strings.Repeat("x", tt.length))
			checks := evalPage(t, html, "https://example.com/", models.ResponseMeta{}, models.Options{})

			c := findCheck(t, checks, "title_length")
			assert.Equal(t, tt.wantPassed, c.Passed)
			assert.Equal(t, tt.wantSeverity, c.Severity)
			assert.Equal(t, tt.length, c.Value)
		})
	}
}

func TestTitleLengthCountsCharactersNotBytes(t *testing.T) {
	// 28 characters but 31 bytes: the accented title must still fail
	// the too-short rule with the character count as its value.
	title := "Café Résumé " + strings.Repeat("x", 16)
	checks := evalPage(t, pageWithTitle(title), "https://example.com/", models.ResponseMeta{}, models.Options{})

	c := findCheck(t, checks, "title_length")
	assert.False(t, c.Passed)
	assert.Equal(t, 28, c.Value)

	// A CJK title of 35 characters is in range despite being 105 bytes.
	checks = evalPage(t, pageWithTitle(strings.Repeat("字", 35)), "https://example.com/", models.ResponseMeta{}, models.Options{})
	c = findCheck(t, checks, "title_length")
	assert.True(t, c.Passed)
	assert.Equal(t, 35, c.Value)
}

func TestTitleChecksWhenMissing(t *testing.T) {
	checks := evalPage(t, "<html><body></body></html>", "https://example.com/", models.ResponseMeta{}, models.Options{})

	c := findCheck(t, checks, "title_exists")
	assert.False(t, c.Passed)
	assert.Equal(t, models.SeverityHigh, c.Severity)

	// title_length is vacuous without a title.
	assert.False(t, hasCheck(checks, "title_length"))
}

func TestMetaDescriptionLength(t *testing.T) {
	page := func(length int) string {
		return fmt.Sprintf(`<html><head><meta name="description" content="%s"></head><body></body></html>`, strings.Repeat("y", length))
	}

	checks := evalPage(t, page(140), "https://example.com/", models.ResponseMeta{}, models.Options{})
	assert.True(t, findCheck(t, checks, "meta_description_length").Passed)

	checks = evalPage(t, page(80), "https://example.com/", models.ResponseMeta{}, models.Options{})
	assert.False(t, findCheck(t, checks, "meta_description_length").Passed)

	checks = evalPage(t, "<html><body></body></html>", "https://example.com/", models.ResponseMeta{}, models.Options{})
	assert.False(t, hasCheck(checks, "meta_description_length"))

	// 130 accented characters exceed 160 bytes but are within bounds.
	accented := fmt.Sprintf(`<html><head><meta name="description" content="%s"></head><body></body></html>`, strings.Repeat("é", 130))
	checks = evalPage(t, accented, "https://example.com/", models.ResponseMeta{}, models.Options{})
	c := findCheck(t, checks, "meta_description_length")
	assert.True(t, c.Passed)
	assert.Equal(t, 130, c.Value)
}

func TestHeadingChecks(t *testing.T) {
	html := `<html><body><h1>One</h1><h1>Two</h1><h2>Sub</h2></body></html>`
	checks := evalPage(t, html, "https://example.com/", models.ResponseMeta{}, models.Options{})

	assert.True(t, findCheck(t, checks, "h1_exists").Passed)
	single := findCheck(t, checks, "h1_single")
	assert.False(t, single.Passed)
	assert.Equal(t, 2, single.Value)

	hierarchy := findCheck(t, checks, "heading_hierarchy")
	assert.False(t, hierarchy.Passed) // two H1s break the hierarchy
	assert.Equal(t, "2 H1, 1 H2, 0 H3", hierarchy.Value)
}

func TestHTTPSCheck(t *testing.T) {
	httpChecks := evalPage(t, "<html></html>", "http://example.com/", models.ResponseMeta{}, models.Options{})
	httpsChecks := evalPage(t, "<html></html>", "https://example.com/", models.ResponseMeta{}, models.Options{})

	c := findCheck(t, httpChecks, "https")
	assert.False(t, c.Passed)
	assert.Equal(t, models.SeverityHigh, c.Severity)
	assert.True(t, findCheck(t, httpsChecks, "https").Passed)
}

func TestSecurityHeaderChecks(t *testing.T) {
	meta := models.ResponseMeta{Headers: map[string]string{
		"content-security-policy":   "default-src 'self'",
		"strict-transport-security": "max-age=63072000",
	}}
	checks := evalPage(t, "<html></html>", "https://example.com/", meta, models.Options{})

	assert.True(t, findCheck(t, checks, "csp_header").Passed)
	assert.True(t, findCheck(t, checks, "hsts_header").Passed)
	assert.False(t, findCheck(t, checks, "x_frame_options").Passed)
}

func TestRobotsMetaEscalatesOnNoindex(t *testing.T) {
	html := `<html><head><meta name="robots" content="noindex, nofollow"></head><body></body></html>`
	checks := evalPage(t, html, "https://example.com/", models.ResponseMeta{}, models.Options{})

	c := findCheck(t, checks, "robots_meta")
	assert.False(t, c.Passed)
	assert.Equal(t, models.SeverityHigh, c.Severity)

	checks = evalPage(t, "<html></html>", "https://example.com/", models.ResponseMeta{}, models.Options{})
	c = findCheck(t, checks, "robots_meta")
	assert.True(t, c.Passed)
	assert.Equal(t, models.SeverityLow, c.Severity)
}

func TestImgAltPercentage(t *testing.T) {
	// Three of four images carry alt text.
	html := `<html><body>
		<img src="a.jpg" alt="a">
		<img src="b.jpg" alt="b">
		<img src="c.jpg" alt="c">
		<img src="d.jpg">
	</body></html>`
	checks := evalPage(t, html, "https://example.com/", models.ResponseMeta{}, models.Options{})

	c := findCheck(t, checks, "img_alt")
	assert.False(t, c.Passed)
	assert.Equal(t, 75, c.Value)
}

func TestImgAltOmittedWithoutImages(t *testing.T) {
	checks := evalPage(t, "<html><body></body></html>", "https://example.com/", models.ResponseMeta{}, models.Options{})
	assert.False(t, hasCheck(checks, "img_alt"))
	assert.False(t, hasCheck(checks, "image_formats"))
	assert.False(t, hasCheck(checks, "form_labels"))
	assert.False(t, hasCheck(checks, "button_labels"))
	assert.False(t, hasCheck(checks, "deferred_scripts"))
}

func TestResponseTimeSeverityBands(t *testing.T) {
	tests := []struct {
		ms           int64
		wantPassed   bool
		wantSeverity models.Severity
	}{
		{800, true, models.SeverityHigh},
		{1500, false, models.SeverityMedium},
		{2500, false, models.SeverityHigh},
	}

	for _, tt := range tests {
		checks := evalPage(t, "<html></html>", "https://example.com/", models.ResponseMeta{LoadTimeMs: tt.ms}, models.Options{})
		c := findCheck(t, checks, "response_time")
		assert.Equal(t, tt.wantPassed, c.Passed, "ms=%d", tt.ms)
		assert.Equal(t, tt.wantSeverity, c.Severity, "ms=%d", tt.ms)
	}
}

func TestHTMLSizeBands(t *testing.T) {
	tests := []struct {
		bytes      int
		wantPassed bool
	}{
		{50 * 1024, true},
		{120 * 1024, false},
		{200 * 1024, false},
	}

	for _, tt := range tests {
		checks := evalPage(t, "<html></html>", "https://example.com/", models.ResponseMeta{HTMLSizeBytes: tt.bytes}, models.Options{})
		assert.Equal(t, tt.wantPassed, findCheck(t, checks, "html_size").Passed, "bytes=%d", tt.bytes)
	}
}

func TestKeywordCheckOnlyWithTarget(t *testing.T) {
	html := pageWithTitle("Best Coffee Grinder Reviews 2026")

	without := evalPage(t, html, "https://example.com/", models.ResponseMeta{}, models.Options{})
	assert.False(t, hasCheck(without, "keyword_in_title"))

	match := evalPage(t, html, "https://example.com/", models.ResponseMeta{}, models.Options{TargetKeyword: "coffee grinder"})
	assert.True(t, findCheck(t, match, "keyword_in_title").Passed)

	miss := evalPage(t, html, "https://example.com/", models.ResponseMeta{}, models.Options{TargetKeyword: "espresso"})
	assert.False(t, findCheck(t, miss, "keyword_in_title").Passed)
}

func TestEvaluateDeterministic(t *testing.T) {
	html := pageWithTitle("A perfectly reasonable page title here")
	meta := models.ResponseMeta{LoadTimeMs: 500, HTMLSizeBytes: 40 * 1024}

	first := evalPage(t, html, "https://example.com/", meta, models.Options{})
	second := evalPage(t, html, "https://example.com/", meta, models.Options{})
	assert.Equal(t, first, second)
}

func TestEvaluateRegistryOrder(t *testing.T) {
	checks := evalPage(t, "<html></html>", "https://example.com/", models.ResponseMeta{}, models.Options{})

	categoryOrder := []models.Category{
		models.CategorySEO,
		models.CategoryContent,
		models.CategoryTechnical,
		models.CategorySecurity,
		models.CategorySocial,
		models.CategoryAccessibility,
		models.CategoryPerformance,
	}
	rank := map[models.Category]int{}
	for i, c := range categoryOrder {
		rank[c] = i
	}

	last := -1
	for _, c := range checks {
		r, ok := rank[c.Category]
		require.True(t, ok, "unexpected category %q", c.Category)
		assert.GreaterOrEqual(t, r, last, "check %s out of category order", c.ID)
		if r > last {
			last = r
		}
	}
}
