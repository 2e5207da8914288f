package report

import (
	"strings"

	"BrandRadar/internal/config"
)

// Rule maps a theme-label pattern to a recommendation template. Pattern is a
// case-insensitive substring; "*" matches any theme and serves as the
// operator-provided fallback.
type Rule struct {
	Pattern   string
	Action    string
	Rationale string
	Tactics   []string
}

// RuleSet is an ordered collection of rules; earlier rules win.
type RuleSet []Rule

// RulesFromConfig converts the configured recommendation mapping.
func RulesFromConfig(cfgs []config.RecommendationConfig) RuleSet {
	rules := make(RuleSet, 0, len(cfgs))
	for _, c := range cfgs {
		rules = append(rules, Rule{
			Pattern:   c.Pattern,
			Action:    c.Action,
			Rationale: c.Rationale,
			Tactics:   c.Tactics,
		})
	}
	return rules
}

// Match returns the first rule applying to the theme label, or false when no
// rule covers it.
func (rs RuleSet) Match(label string) (Rule, bool) {
	lowered := strings.ToLower(label)
	for _, r := range rs {
		if r.Pattern == "*" {
			return r, true
		}
		if r.Pattern != "" && strings.Contains(lowered, strings.ToLower(r.Pattern)) {
			return r, true
		}
	}
	return Rule{}, false
}
