package audit

// registry returns every check in its fixed, documented order. Critical
// issues and quick wins are truncated by discovery order, so this order
// is part of the engine's contract: SEO first, then content, technical,
// security, social, accessibility, performance. The optional keyword
// check is appended only when a target keyword was supplied.
func registry(ctx *Context) []rule {
	rules := make([]rule, 0, 40)
	rules = append(rules, seoRules()...)
	rules = append(rules, contentRules()...)
	rules = append(rules, technicalRules()...)
	rules = append(rules, securityRules()...)
	rules = append(rules, socialRules()...)
	rules = append(rules, accessibilityRules()...)
	rules = append(rules, performanceRules()...)
	if ctx != nil && ctx.Options.TargetKeyword != "" {
		rules = append(rules, keywordRule())
	}
	return rules
}
