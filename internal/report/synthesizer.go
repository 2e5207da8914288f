package report

import (
	"fmt"
	"time"

	"BrandRadar/internal/aggregate"
	"BrandRadar/internal/domain"
)

// SynthesisDefect is returned when an escalated theme has no recommendation
// rule covering it. It is fatal for the run: emitting a report that silently
// omits a mandated recommendation would be worse than no report.
type SynthesisDefect struct {
	ThemeLabel    string
	NegativeShare int
}

func (e *SynthesisDefect) Error() string {
	return fmt.Sprintf("synthesis defect: theme %q holds %d%% of mentions as negative but no recommendation rule covers it",
		e.ThemeLabel, e.NegativeShare)
}

// Synthesizer turns aggregated pipeline output into the immutable Report.
type Synthesizer struct {
	rules         RuleSet
	escalationPct int
	notableTopK   int
}

// NewSynthesizer builds a synthesizer; escalationPct <= 0 falls back to 15.
func NewSynthesizer(rules RuleSet, escalationPct, notableTopK int) *Synthesizer {
	if escalationPct <= 0 {
		escalationPct = 15
	}
	return &Synthesizer{rules: rules, escalationPct: escalationPct, notableTopK: notableTopK}
}

// Synthesize aggregates the themes and produces the report. Every theme
// whose negative mentions exceed the escalation threshold share of all
// counted mentions must yield at least one recommendation; a gap aborts with
// SynthesisDefect. Percentages come straight from the aggregator, never
// invented here.
func (s *Synthesizer) Synthesize(run domain.Run, themes []domain.Theme, date time.Time) (domain.Report, error) {
	var all []domain.ClassifiedMention
	unclassified := 0
	for _, t := range themes {
		for _, m := range t.Members {
			all = append(all, m)
			if !m.Counted() {
				unclassified++
			}
		}
	}

	counted := len(all) - unclassified
	dist := aggregate.Distribution(all)
	summaries := aggregate.Summarize(themes)
	notables := aggregate.Notables(themes, s.notableTopK)

	recommendations, err := s.recommend(themes, counted)
	if err != nil {
		return domain.Report{}, err
	}

	rpt := domain.Report{
		RunID:           run.ID,
		Brand:           run.Brand,
		Date:            date,
		Distribution:    dist,
		Themes:          summaries,
		Notables:        notables,
		Recommendations: recommendations,
		MeasuredTotal:   counted,
		UnclassifiedN:   unclassified,
	}
	rpt.ExecutiveSummary = executiveSummary(rpt)

	return rpt, nil
}

// recommend emits one entry per escalated theme. Non-escalated themes get a
// recommendation too when a specific (non-wildcard) rule names them.
func (s *Synthesizer) recommend(themes []domain.Theme, counted int) ([]domain.Recommendation, error) {
	var recs []domain.Recommendation
	for _, t := range themes {
		negShare := negativeShare(t, counted)
		escalated := negShare > s.escalationPct

		rule, ok := s.rules.Match(t.Label)
		if !ok {
			if escalated {
				return nil, &SynthesisDefect{ThemeLabel: t.Label, NegativeShare: negShare}
			}
			continue
		}
		if !escalated && rule.Pattern == "*" {
			continue
		}

		recs = append(recs, domain.Recommendation{
			ThemeLabel: t.Label,
			Action:     rule.Action,
			Rationale:  rule.Rationale,
			Tactics:    rule.Tactics,
		})
	}
	return recs, nil
}

// negativeShare is the theme's negative mention count as a whole percentage
// of all counted mentions in the run.
func negativeShare(t domain.Theme, counted int) int {
	if counted == 0 {
		return 0
	}
	neg := 0
	for _, m := range t.Members {
		if m.Polarity == domain.PolarityNegative {
			neg++
		}
	}
	return neg * 100 / counted
}

func executiveSummary(r domain.Report) string {
	summary := fmt.Sprintf(
		"Monitoring of %s on %s covered %d classified mentions across %d themes. "+
			"Sentiment split: %d%% positive, %d%% negative, %d%% neutral.",
		r.Brand,
		r.Date.Format("2006-01-02"),
		r.MeasuredTotal,
		len(r.Themes),
		r.Distribution.PositivePct,
		r.Distribution.NegativePct,
		r.Distribution.NeutralPct,
	)
	if len(r.Themes) > 0 {
		summary += fmt.Sprintf(" Largest theme: %q (%d mentions).", r.Themes[0].Label, r.Themes[0].MentionCount)
	}
	if r.UnclassifiedN > 0 {
		summary += fmt.Sprintf(" %d mention(s) could not be classified and are excluded from the percentages.", r.UnclassifiedN)
	}
	return summary
}
