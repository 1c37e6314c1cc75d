package chat

import "regexp"

// Tier is a cost/capability level for model selection
type Tier string

const (
	// TierLite: cheap and fast, simple factual lookups
	TierLite Tier = "lite"
	// TierStandard: default, general conversation
	TierStandard Tier = "standard"
	// TierPro: highest capability, reasoning and cross-signal analysis
	TierPro Tier = "pro"
)

// Route is the outcome of message classification
type Route struct {
	Tier  Tier
	Model string
}

var tierModels = map[Tier]string{
	TierLite:     "gemini-2.5-flash-lite",
	TierStandard: "gemini-2.5-flash",
	TierPro:      "gemini-2.5-pro",
}

type routingRule struct {
	tier    Tier
	pattern *regexp.Regexp
}

// routingRules are evaluated in order, first match wins. Pro rules come
// before lite rules: overlapping patterns are possible ("why is mom's
// pharmacy closed" hits both groups) and the higher tier must win.
var routingRules = []routingRule{
	// Reasoning and causal language
	{TierPro, regexp.MustCompile(`(?i)\bwhy\b`)},
	{TierPro, regexp.MustCompile(`(?i)\bcould\b.*\bcause\b`)},
	{TierPro, regexp.MustCompile(`(?i)\bcaus(e|es|ed|ing)\b`)},
	{TierPro, regexp.MustCompile(`(?i)correlat`)},
	{TierPro, regexp.MustCompile(`(?i)interaction`)},
	{TierPro, regexp.MustCompile(`(?i)side[ -]effects?`)},
	// Explicit cross-signal phrasing
	{TierPro, regexp.MustCompile(`(?i)blood pressure.*\bweight\b|\bweight\b.*blood pressure`)},
	{TierPro, regexp.MustCompile(`(?i)\banaly[sz]`)},
	{TierPro, regexp.MustCompile(`(?i)\bexplain\b.*(trend|change|pattern)`)},

	// Simple factual lookups
	{TierLite, regexp.MustCompile(`(?i)pharmacy`)},
	{TierLite, regexp.MustCompile(`(?i)doctor.{0,12}\b(phone|number|office|contact|address|email)\b`)},
	{TierLite, regexp.MustCompile(`(?i)allerg`)},
	{TierLite, regexp.MustCompile(`(?i)\b(medication|med)s?\b.{0,10}\blist\b|\blist\b.{0,10}\bmedications?\b`)},
	{TierLite, regexp.MustCompile(`(?i)appointment`)},
	{TierLite, regexp.MustCompile(`(?i)insurance`)},
	{TierLite, regexp.MustCompile(`(?i)hospital`)},
	{TierLite, regexp.MustCompile(`(?i)\bwhat('?s| is)\b.{0,24}\b(doctor|pharmacy|hospital)\b`)},
}

// ClassifyMessage picks the minimum-capability tier sufficient for a
// free-text question. Pure function: no state, no model call, same text
// always yields the same route. A deep question matching no pattern is
// under-routed to standard, accepted behavior.
func ClassifyMessage(text string) Route {
	if text != "" {
		for _, rule := range routingRules {
			if rule.pattern.MatchString(text) {
				return Route{Tier: rule.tier, Model: tierModels[rule.tier]}
			}
		}
	}
	return Route{Tier: TierStandard, Model: tierModels[TierStandard]}
}
