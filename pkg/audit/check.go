// Package audit implements the on-page heuristic audit engine: a fixed
// registry of independent checks, a severity-weighted scorer, and the
// report assembler.
package audit

import (
	"net/url"

	"github.com/auditkit/auditkit/internal/models"
	"github.com/auditkit/auditkit/pkg/parser"
)

// Context carries the ancillary inputs a check may consult besides the
// parsed document.
type Context struct {
	URL     *url.URL
	Meta    models.ResponseMeta
	Options models.Options
}

// Header returns a response header by its lowercased name.
func (c *Context) Header(name string) string {
	return c.Meta.Headers[name]
}

// verdict is what a rule predicate produces. severity overrides the
// rule's default when non-empty, for rules whose severity policy depends
// on the measured condition. omit drops the check from the result list
// (vacuous percentage checks with a zero denominator).
type verdict struct {
	passed   bool
	severity models.Severity
	message  string
	value    any
	omit     bool
}

func pass(message string) verdict {
	return verdict{passed: true, message: message}
}

func passValue(message string, value any) verdict {
	return verdict{passed: true, message: message, value: value}
}

func fail(message string) verdict {
	return verdict{message: message}
}

func failValue(message string, value any) verdict {
	return verdict{message: message, value: value}
}

func omitted() verdict {
	return verdict{omit: true}
}

func (v verdict) withSeverity(s models.Severity) verdict {
	v.severity = s
	return v
}

// rule is one declarative check descriptor. severity is the default; a
// verdict may override it per the rule's documented policy, but the
// policy lives here in the definition, never derived from how far a
// value missed the threshold.
type rule struct {
	id       string
	category models.Category
	name     string
	severity models.Severity
	eval     func(doc *parser.ParsedDocument, ctx *Context) verdict
}

// Evaluate runs every registered check against the document, in registry
// order, and returns the flat result list. Checks are independent: none
// is skipped because another failed, and none may panic on missing data.
func Evaluate(doc *parser.ParsedDocument, ctx *Context) []models.CheckResult {
	rules := registry(ctx)
	results := make([]models.CheckResult, 0, len(rules))
	for _, r := range rules {
		v := r.eval(doc, ctx)
		if v.omit {
			continue
		}
		severity := r.severity
		if v.severity != "" {
			severity = v.severity
		}
		results = append(results, models.CheckResult{
			ID:       r.id,
			Category: r.category,
			Name:     r.name,
			Passed:   v.passed,
			Severity: severity,
			Message:  v.message,
			Value:    v.value,
		})
	}
	return results
}
