package audit

import (
	"fmt"
	"math"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/parser"
)

const minLandmarks = 3

func percent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

func accessibilityRules() []rule {
	return []rule{
		{
			id:       "img_alt",
			category: models.CategoryAccessibility,
			name:     "Image Alt Text",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				total := len(doc.Images)
				if total == 0 {
					return omitted()
				}
				withAlt := 0
				for _, img := range doc.Images {
					if img.Alt != nil {
						withAlt++
					}
				}
				pct := percent(withAlt, total)
				if withAlt < total {
					return failValue(fmt.Sprintf("%d of %d images are missing alt text.", total-withAlt, total), pct)
				}
				return passValue("All images have alt text.", pct)
			},
		},
		{
			id:       "aria_landmarks",
			category: models.CategoryAccessibility,
			name:     "ARIA Landmarks",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.Landmarks < minLandmarks {
					return failValue(fmt.Sprintf("Only %d of 4 landmark regions found (main, nav, header, footer).", doc.Landmarks), doc.Landmarks)
				}
				return passValue("Landmark regions are in place.", doc.Landmarks)
			},
		},
		{
			id:       "form_labels",
			category: models.CategoryAccessibility,
			name:     "Form Labels",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.Forms.Controls == 0 {
					return omitted()
				}
				pct := percent(doc.Forms.Labeled, doc.Forms.Controls)
				if doc.Forms.Labeled < doc.Forms.Controls {
					return failValue(fmt.Sprintf("%d of %d form controls lack a label.", doc.Forms.Controls-doc.Forms.Labeled, doc.Forms.Controls), pct)
				}
				return passValue("All form controls are labeled.", pct)
			},
		},
		{
			id:       "button_labels",
			category: models.CategoryAccessibility,
			name:     "Button Labels",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.Buttons.Total == 0 {
					return omitted()
				}
				pct := percent(doc.Buttons.Labeled, doc.Buttons.Total)
				if doc.Buttons.Labeled < doc.Buttons.Total {
					return failValue(fmt.Sprintf("%d of %d buttons have no accessible label.", doc.Buttons.Total-doc.Buttons.Labeled, doc.Buttons.Total), pct)
				}
				return passValue("All buttons have accessible labels.", pct)
			},
		},
		{
			id:       "empty_links",
			category: models.CategoryAccessibility,
			name:     "Empty Links",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.EmptyLinks > 0 {
					return failValue(fmt.Sprintf("%d links have neither text nor an aria-label.", doc.EmptyLinks), doc.EmptyLinks)
				}
				return passValue("No empty links found.", 0)
			},
		},
		{
			id:       "skip_link",
			category: models.CategoryAccessibility,
			name:     "Skip to Content Link",
			severity: models.SeverityLow,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if !doc.SkipLinkPresent {
					return fail("Add a skip-to-content link for keyboard users.")
				}
				return pass("Skip-to-content link is present.")
			},
		},
	}
}
