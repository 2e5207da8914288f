package report

import (
	"fmt"
	"strings"

	"BrandRadar/internal/domain"
)

// Render produces the markdown document with the required section structure:
// Executive Summary, Sentiment Analysis, Key Themes & Topics, Notable
// Mentions, Actionable Recommendations.
func Render(r domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Brand Monitoring Report: %s\n\n", r.Brand)
	fmt.Fprintf(&b, "Date: %s\n\n", r.Date.Format("2006-01-02"))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(r.ExecutiveSummary)
	b.WriteString("\n\n")

	b.WriteString("## Sentiment Analysis\n\n")
	fmt.Fprintf(&b, "- Positive: %d%%\n", r.Distribution.PositivePct)
	fmt.Fprintf(&b, "- Negative: %d%%\n", r.Distribution.NegativePct)
	fmt.Fprintf(&b, "- Neutral: %d%%\n\n", r.Distribution.NeutralPct)

	b.WriteString("## Key Themes & Topics\n\n")
	if len(r.Themes) == 0 {
		b.WriteString("No themes were identified in this period.\n\n")
	}
	for _, t := range r.Themes {
		fmt.Fprintf(&b, "### %s\n\n", t.Label)
		fmt.Fprintf(&b, "%d mentions (%d%% positive / %d%% negative / %d%% neutral)\n\n",
			t.MentionCount,
			t.Distribution.PositivePct,
			t.Distribution.NegativePct,
			t.Distribution.NeutralPct)
		if t.Representative != "" {
			fmt.Fprintf(&b, "> %s\n\n", t.Representative)
		}
	}

	b.WriteString("## Notable Mentions\n\n")
	if len(r.Notables) == 0 {
		b.WriteString("No notable mentions were selected.\n\n")
	}
	for _, n := range r.Notables {
		tag := string(n.Polarity)
		if n.Provenance == domain.ProvenanceIllustrative {
			tag += ", illustrative"
		}
		fmt.Fprintf(&b, "- [%s] \"%s\" — %s", tag, n.RawText, n.Source)
		if n.URL != "" {
			fmt.Fprintf(&b, " (%s)", n.URL)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Actionable Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString("No themes crossed the escalation threshold this period.\n")
	}
	for i, rec := range r.Recommendations {
		fmt.Fprintf(&b, "%d. **%s** (theme: %s)\n", i+1, rec.Action, rec.ThemeLabel)
		fmt.Fprintf(&b, "   - Rationale: %s\n", rec.Rationale)
		for _, tactic := range rec.Tactics {
			fmt.Fprintf(&b, "   - Tactic: %s\n", tactic)
		}
	}

	return b.String()
}
