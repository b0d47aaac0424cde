package audit

import (
	"fmt"
	"math"
	"net/url"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/content"
	"github.com/auditkit/auditkit/pkg/parser"
)

// Config tunes optional engine behavior. The check registry itself is
// fixed; only enrichment toggles live here.
type Config struct {
	// ExtractArticle enables trafilatura main-content extraction,
	// folded into the report's content analysis as additive fields.
	ExtractArticle bool
}

// Engine is the consolidated audit engine. It is stateless: concurrent
// Run calls share nothing, and the same input always produces the same
// report.
type Engine struct {
	config Config
}

// New creates an Engine.
func New(config Config) *Engine {
	return &Engine{config: config}
}

// Run audits a fetched page: parse, evaluate every check, analyze
// content, and assemble the report. rawURL must already be normalized by
// the caller. The raw HTML and response metadata come from the fetch
// collaborator; Run itself performs no I/O.
func (e *Engine) Run(rawURL, rawHTML string, meta models.ResponseMeta, opts models.Options) (*models.AuditReport, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := parser.Parse(rawHTML, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	ctx := &Context{URL: pageURL, Meta: meta, Options: opts}
	checks := Evaluate(doc, ctx)

	analysis := models.ContentAnalysis{
		Readability: content.Readability(doc.BodyText),
		Keywords:    content.Keywords(doc.BodyText),
		WordCount:   doc.WordCount,
	}
	if e.config.ExtractArticle {
		article := content.ExtractArticle(rawHTML)
		analysis.ArticleTitle = article.Title
		analysis.ArticleExcerpt = article.Excerpt
	}

	perf := models.Performance{
		LoadTime: math.Round(float64(meta.LoadTimeMs)/10) / 100,
		HTMLSize: math.Round(float64(meta.HTMLSizeBytes) / 1024),
	}

	return Assemble(rawURL, checks, analysis, perf)
}
