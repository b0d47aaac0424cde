package audit

import (
	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/parser"
)

func securityRules() []rule {
	return []rule{
		{
			id:       "https",
			category: models.CategorySecurity,
			name:     "HTTPS",
			severity: models.SeverityHigh,
			eval: func(_ *parser.ParsedDocument, ctx *Context) verdict {
				if ctx.URL == nil || ctx.URL.Scheme != "https" {
					return fail("Switch to HTTPS for security and better SEO rankings.")
				}
				return pass("Page is served over HTTPS.")
			},
		},
		{
			id:       "csp_header",
			category: models.CategorySecurity,
			name:     "Content Security Policy",
			severity: models.SeverityMedium,
			eval: func(_ *parser.ParsedDocument, ctx *Context) verdict {
				if ctx.Header("content-security-policy") == "" {
					return fail("Add a Content-Security-Policy header.")
				}
				return pass("Content-Security-Policy header is set.")
			},
		},
		{
			id:       "x_frame_options",
			category: models.CategorySecurity,
			name:     "X-Frame-Options",
			severity: models.SeverityMedium,
			eval: func(_ *parser.ParsedDocument, ctx *Context) verdict {
				if ctx.Header("x-frame-options") == "" {
					return fail("Add an X-Frame-Options header to prevent clickjacking.")
				}
				return pass("X-Frame-Options header is set.")
			},
		},
		{
			id:       "hsts_header",
			category: models.CategorySecurity,
			name:     "Strict Transport Security",
			severity: models.SeverityLow,
			eval: func(_ *parser.ParsedDocument, ctx *Context) verdict {
				if ctx.Header("strict-transport-security") == "" {
					return fail("Add a Strict-Transport-Security header.")
				}
				return pass("Strict-Transport-Security header is set.")
			},
		},
	}
}

func socialRules() []rule {
	presence := func(id, name, missing, ok string, severity models.Severity, present func(*parser.ParsedDocument) bool) rule {
		return rule{
			id:       id,
			category: models.CategorySocial,
			name:     name,
			severity: severity,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if !present(doc) {
					return fail(missing)
				}
				return pass(ok)
			},
		}
	}

	return []rule{
		presence("og_title", "Open Graph Title",
			"Add an og:title tag for social sharing.", "og:title tag is present.",
			models.SeverityLow, func(d *parser.ParsedDocument) bool { return d.OGTitle }),
		presence("og_description", "Open Graph Description",
			"Add an og:description tag for social sharing.", "og:description tag is present.",
			models.SeverityLow, func(d *parser.ParsedDocument) bool { return d.OGDescription }),
		presence("og_image", "Open Graph Image",
			"Add an og:image tag so shared links show a preview image.", "og:image tag is present.",
			models.SeverityMedium, func(d *parser.ParsedDocument) bool { return d.OGImage }),
		presence("twitter_card", "Twitter Card",
			"Add a twitter:card tag for Twitter sharing.", "twitter:card tag is present.",
			models.SeverityLow, func(d *parser.ParsedDocument) bool { return d.TwitterCard }),
	}
}
