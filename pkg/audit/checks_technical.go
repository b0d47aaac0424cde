package audit

import (
	"strings"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/parser"
)

func technicalRules() []rule {
	return []rule{
		{
			id:       "robots_meta",
			category: models.CategoryTechnical,
			name:     "Robots Meta",
			severity: models.SeverityLow,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				robots := strings.ToLower(doc.RobotsMeta)
				if strings.Contains(robots, "noindex") {
					// A noindex page is invisible to search; escalate.
					return failValue("Page has a noindex directive and will not be indexed.", doc.RobotsMeta).
						withSeverity(models.SeverityHigh)
				}
				return pass("No noindex directive found.")
			},
		},
		{
			id:       "viewport",
			category: models.CategoryTechnical,
			name:     "Mobile Viewport",
			severity: models.SeverityHigh,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if !strings.Contains(doc.Viewport, "width=device-width") {
					return fail("Add viewport meta tag for proper mobile rendering.")
				}
				return pass("Viewport meta tag is configured for mobile.")
			},
		},
		{
			id:       "lang_attribute",
			category: models.CategoryTechnical,
			name:     "Language Attribute",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.Lang == "" {
					return fail("Add a lang attribute to the <html> element.")
				}
				return passValue("Language attribute is set.", doc.Lang)
			},
		},
		{
			id:       "charset",
			category: models.CategoryTechnical,
			name:     "Character Encoding",
			severity: models.SeverityLow,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if !doc.HasCharset {
					return fail("Declare a character encoding with a meta charset tag.")
				}
				return pass("Character encoding is declared.")
			},
		},
		{
			id:       "favicon",
			category: models.CategoryTechnical,
			name:     "Favicon",
			severity: models.SeverityLow,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if !doc.HasFavicon {
					return fail("Add a favicon link tag.")
				}
				return pass("Favicon is declared.")
			},
		},
	}
}
