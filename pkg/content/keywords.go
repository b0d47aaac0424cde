package content

import (
	"sort"
	"strings"

	"github.com/auditkit/auditkit/internal/models"
)

const topKeywords = 5

// stopWords are common English function words excluded from keyword
// extraction. Tokens of three characters or fewer are dropped anyway, so
// the short entries only document intent.
var stopWords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true,
	"a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "with": true, "to": true, "for": true, "of": true,
	"as": true, "by": true, "that": true, "this": true, "it": true,
	"from": true, "are": true, "was": true, "be": true, "been": true,
	"has": true, "have": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"were": true, "they": true, "them": true, "then": true, "than": true,
	"there": true, "their": true, "these": true, "those": true,
	"what": true, "when": true, "where": true, "while": true,
	"your": true, "yours": true, "about": true, "into": true,
	"also": true, "just": true, "more": true, "most": true,
	"other": true, "some": true, "such": true, "only": true,
	"over": true, "very": true, "because": true, "between": true,
	"after": true, "before": true, "during": true, "under": true,
	"each": true, "both": true, "here": true, "once": true, "again": true,
}

// Keywords extracts the top keywords from a text by frequency. The text
// is lowercased, non-letters become spaces, tokens of three characters or
// fewer and stop words are discarded. Ties keep first-encountered order.
func Keywords(text string) []models.Keyword {
	var cleaned strings.Builder
	cleaned.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			cleaned.WriteRune(r)
		} else {
			cleaned.WriteRune(' ')
		}
	}

	counts := map[string]int{}
	var order []string
	for _, token := range strings.Fields(cleaned.String()) {
		if len(token) <= 3 || stopWords[token] {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topKeywords {
		order = order[:topKeywords]
	}
	keywords := make([]models.Keyword, 0, len(order))
	for _, w := range order {
		keywords = append(keywords, models.Keyword{Word: w, Count: counts[w]})
	}
	return keywords
}
