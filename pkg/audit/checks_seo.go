package audit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/parser"
)

const (
	titleMinLength    = 30
	titleMaxLength    = 60
	metaDescMinLength = 120
	metaDescMaxLength = 160
	minInternalLinks  = 5
)

func seoRules() []rule {
	return []rule{
		{
			id:       "title_exists",
			category: models.CategorySEO,
			name:     "Title Tag",
			severity: models.SeverityHigh,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.Title == nil {
					return fail("Your page doesn't have a title tag. This is critical for SEO.")
				}
				return passValue("Title tag is present.", *doc.Title)
			},
		},
		{
			id:       "title_length",
			category: models.CategorySEO,
			name:     "Title Length",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.Title == nil {
					return omitted() // covered by title_exists
				}
				// Bounds are in characters, not bytes.
				length := utf8.RuneCountInString(*doc.Title)
				switch {
				case length < titleMinLength:
					return failValue(fmt.Sprintf("Title is too short (%d chars, ideal %d-%d).", length, titleMinLength, titleMaxLength), length).
						withSeverity(models.SeverityMedium)
				case length > titleMaxLength:
					return failValue(fmt.Sprintf("Title is too long (%d chars, ideal %d-%d).", length, titleMinLength, titleMaxLength), length).
						withSeverity(models.SeverityLow)
				default:
					return passValue(fmt.Sprintf("Title length is good (%d chars).", length), length)
				}
			},
		},
		{
			id:       "meta_description",
			category: models.CategorySEO,
			name:     "Meta Description",
			severity: models.SeverityHigh,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.MetaDescription == nil {
					return fail("Add a compelling meta description to improve click-through rates.")
				}
				return pass("Meta description is present.")
			},
		},
		{
			id:       "meta_description_length",
			category: models.CategorySEO,
			name:     "Meta Description Length",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.MetaDescription == nil {
					return omitted()
				}
				length := utf8.RuneCountInString(*doc.MetaDescription)
				if length < metaDescMinLength || length > metaDescMaxLength {
					return failValue(fmt.Sprintf("Meta description is %d chars (ideal %d-%d).", length, metaDescMinLength, metaDescMaxLength), length)
				}
				return passValue(fmt.Sprintf("Meta description length is good (%d chars).", length), length)
			},
		},
		{
			id:       "h1_exists",
			category: models.CategorySEO,
			name:     "H1 Heading",
			severity: models.SeverityHigh,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if len(doc.Headings.H1) == 0 {
					return fail("Add a primary H1 heading to clearly define your page topic.")
				}
				return passValue("H1 heading is present.", len(doc.Headings.H1))
			},
		},
		{
			id:       "h1_single",
			category: models.CategorySEO,
			name:     "Single H1",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				count := len(doc.Headings.H1)
				if count == 0 {
					return omitted() // covered by h1_exists
				}
				if count > 1 {
					return failValue(fmt.Sprintf("Multiple H1 tags found (%d). Use only one H1 per page.", count), count)
				}
				return passValue("Exactly one H1 tag.", count)
			},
		},
		{
			id:       "heading_hierarchy",
			category: models.CategorySEO,
			name:     "Heading Hierarchy",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				h1 := len(doc.Headings.H1)
				h2 := len(doc.Headings.H2)
				counts := fmt.Sprintf("%d H1, %d H2, %d H3", h1, h2, len(doc.Headings.H3))
				if h1 == 1 && h2 > 0 {
					return passValue("Heading structure looks good.", counts)
				}
				return failValue("Use a single H1 followed by H2 subheadings.", counts)
			},
		},
		{
			id:       "internal_links",
			category: models.CategorySEO,
			name:     "Internal Links",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				count := len(doc.Links.Internal)
				if count < minInternalLinks {
					return failValue(fmt.Sprintf("Only %d internal links found (aim for %d+).", count, minInternalLinks), count)
				}
				return passValue(fmt.Sprintf("%d internal links found.", count), count)
			},
		},
		{
			id:       "external_links",
			category: models.CategorySEO,
			name:     "External Links",
			severity: models.SeverityLow,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				count := len(doc.Links.External)
				return passValue(fmt.Sprintf("%d external links found.", count), count)
			},
		},
		{
			id:       "canonical",
			category: models.CategorySEO,
			name:     "Canonical Tag",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.CanonicalURL == nil {
					return fail("Add a canonical link tag to prevent duplicate content issues.")
				}
				return passValue("Canonical tag is present.", *doc.CanonicalURL)
			},
		},
		{
			id:       "schema_markup",
			category: models.CategorySEO,
			name:     "Structured Data",
			severity: models.SeverityLow,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				count := len(doc.StructuredDataTypes)
				if count == 0 {
					return fail("No JSON-LD structured data detected.")
				}
				return passValue(fmt.Sprintf("Structured data found: %s.", strings.Join(doc.StructuredDataTypes, ", ")), count)
			},
		},
	}
}

func contentRules() []rule {
	return []rule{
		{
			id:       "word_count",
			category: models.CategoryContent,
			name:     "Content Length",
			severity: models.SeverityMedium,
			eval: func(doc *parser.ParsedDocument, _ *Context) verdict {
				if doc.WordCount < minWordCount {
					return failValue(fmt.Sprintf("Thin content: ~%d words (aim for %d+).", doc.WordCount, minWordCount), doc.WordCount)
				}
				return passValue(fmt.Sprintf("~%d words of content.", doc.WordCount), doc.WordCount)
			},
		},
	}
}

const minWordCount = 300

func keywordRule() rule {
	return rule{
		id:       "keyword_in_title",
		category: models.CategorySEO,
		name:     "Keyword in Title",
		severity: models.SeverityLow,
		eval: func(doc *parser.ParsedDocument, ctx *Context) verdict {
			keyword := ctx.Options.TargetKeyword
			if doc.Title != nil && strings.Contains(strings.ToLower(*doc.Title), strings.ToLower(keyword)) {
				return passValue("Target keyword appears in the title.", keyword)
			}
			return failValue(fmt.Sprintf("Target keyword %q does not appear in the title.", keyword), keyword)
		},
	}
}
