package audit

import (
	"fmt"
	"math"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/parser"
)

const (
	goodResponseTimeMs   = 1000
	slowResponseTimeMs   = 2000
	goodHTMLSizeKB       = 100
	largeHTMLSizeKB      = 150
	modernImagePercent   = 70
	goodExternalScripts  = 10
	manyExternalScripts  = 15
	deferredScriptTarget = 60
)

func performanceRules() []rule {
	return []rule{
		{
			id:       "response_time",
			category: models.CategoryPerformance,
			name:     "Server Response Time",
			severity: models.SeverityHigh,
			eval: func(_ *parser.ParsedDocument, ctx *Context) verdict {
				ms := ctx.Meta.LoadTimeMs
				switch {
				case ms < goodResponseTimeMs:
					return passValue(fmt.Sprintf("Server responded in %dms.", ms), ms)
				case ms >= slowResponseTimeMs:
					return failValue(fmt.Sprintf("Very slow server response (%dms).", ms), ms).
						withSeverity(models.SeverityHigh)
				default:
					return failValue(fmt.Sprintf("Slow server response (%dms).", ms), ms).
						withSeverity(models.SeverityMedium)
				}
			},
		},
		{
			id:       "html_size",
			category: models.CategoryPerformance,
			name:     "HTML Size",
			severity: models.SeverityLow,
			eval: func(_ *parser.ParsedDocument, ctx *Context) verdict {
				kb := int(math.Round(float64(ctx.Meta.HTMLSizeBytes) / 1024))
				switch {
				case kb < goodHTMLSizeKB:
					return passValue(fmt.Sprintf("HTML size is %dKB.", kb), kb)
				case kb > largeHTMLSizeKB:
					return failValue(fmt.Sprintf("Very large HTML document (%dKB).", kb), kb).
						withSeverity(models.SeverityMedium)
				default:
					return failValue(fmt.Sprintf("Large HTML document (%dKB).", kb), kb).
						withSeverity(models.SeverityLow)
				}
			},
		},
		{
			id:       "image_formats",
			category: models.CategoryPerformance,
			name:     "Modern Image Formats",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				total := len(doc.Images)
				if total == 0 {
					return omitted()
				}
				pct := percent(doc.ModernImageCount, total)
				if pct <= modernImagePercent {
					return failValue(fmt.Sprintf("Only %d%% of images use modern formats (WebP, SVG, AVIF).", pct), pct)
				}
				return passValue(fmt.Sprintf("%d%% of images use modern formats.", pct), pct)
			},
		},
		{
			id:       "external_scripts",
			category: models.CategoryPerformance,
			name:     "External Script Count",
			severity: models.SeverityLow,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				count := doc.Scripts.External
				switch {
				case count < goodExternalScripts:
					return passValue(fmt.Sprintf("%d external scripts.", count), count)
				case count > manyExternalScripts:
					return failValue(fmt.Sprintf("Too many external scripts (%d).", count), count).
						withSeverity(models.SeverityMedium)
				default:
					return failValue(fmt.Sprintf("Many external scripts (%d).", count), count).
						withSeverity(models.SeverityLow)
				}
			},
		},
		{
			id:       "deferred_scripts",
			category: models.CategoryPerformance,
			name:     "Deferred Script Loading",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.Scripts.External == 0 {
					return omitted()
				}
				pct := percent(doc.Scripts.Deferred, doc.Scripts.External)
				if pct <= deferredScriptTarget {
					return failValue(fmt.Sprintf("Only %d%% of external scripts load deferred or async.", pct), pct)
				}
				return passValue(fmt.Sprintf("%d%% of external scripts load deferred or async.", pct), pct)
			},
		},
	}
}
