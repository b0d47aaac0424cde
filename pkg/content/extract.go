package content

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
)

const excerptLength = 280

// Article is the optional main-content extraction enrichment. Both fields
// may be empty when extraction finds nothing usable.
type Article struct {
	Title   string
	Excerpt string
}

// ExtractArticle runs main-content extraction over raw HTML. It is
// best-effort: any extraction failure yields an empty Article rather than
// an error, because the enrichment is never required for a report.
func ExtractArticle(rawHTML string) Article {
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{})
	if err != nil || result == nil {
		return Article{}
	}

	article := Article{Title: strings.TrimSpace(result.Metadata.Title)}
	text := strings.Join(strings.Fields(result.ContentText), " ")
	if len(text) > excerptLength {
		if cut := strings.LastIndex(text[:excerptLength], " "); cut > 0 {
			text = text[:cut]
		} else {
			text = text[:excerptLength]
		}
	}
	article.Excerpt = text
	return article
}
