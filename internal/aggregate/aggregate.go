// Package aggregate computes sentiment distributions and selects notable
// mentions. Both operations are pure transforms over fully materialized
// inputs: no I/O, no shared state.
package aggregate

import (
	"math"
	"sort"

	"BrandRadar/internal/domain"
)

// Distribution computes whole-percent sentiment shares over the given
// mentions, excluding unclassified ones. The rounding residual is assigned to
// the largest bucket so the three percentages sum to exactly 100.
func Distribution(mentions []domain.ClassifiedMention) domain.SentimentDistribution {
	var pos, neg, neu int
	for _, m := range mentions {
		switch m.Polarity {
		case domain.PolarityPositive:
			pos++
		case domain.PolarityNegative:
			neg++
		case domain.PolarityNeutral:
			neu++
		}
	}

	total := pos + neg + neu
	if total == 0 {
		return domain.SentimentDistribution{}
	}

	dist := domain.SentimentDistribution{
		PositivePct: roundPct(pos, total),
		NegativePct: roundPct(neg, total),
		NeutralPct:  roundPct(neu, total),
	}

	residual := 100 - dist.Total()
	if residual != 0 {
		switch largestBucket(pos, neg, neu) {
		case domain.PolarityPositive:
			dist.PositivePct += residual
		case domain.PolarityNegative:
			dist.NegativePct += residual
		default:
			dist.NeutralPct += residual
		}
	}

	return dist
}

func roundPct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}

// largestBucket breaks count ties in the fixed order positive, negative,
// neutral so residual assignment stays deterministic.
func largestBucket(pos, neg, neu int) domain.Polarity {
	switch {
	case pos >= neg && pos >= neu:
		return domain.PolarityPositive
	case neg >= neu:
		return domain.PolarityNegative
	default:
		return domain.PolarityNeutral
	}
}

// Summarize builds the per-theme report rows, each with its own distribution.
func Summarize(themes []domain.Theme) []domain.ThemeSummary {
	summaries := make([]domain.ThemeSummary, 0, len(themes))
	for _, t := range themes {
		summaries = append(summaries, domain.ThemeSummary{
			Label:          t.Label,
			MentionCount:   t.Size(),
			Distribution:   Distribution(t.Members),
			Representative: t.Representative,
		})
	}
	// Larger themes first; label tiebreak keeps report ordering stable.
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].MentionCount != summaries[j].MentionCount {
			return summaries[i].MentionCount > summaries[j].MentionCount
		}
		return summaries[i].Label < summaries[j].Label
	})
	return summaries
}

// Notables picks the top-K mentions per polarity bucket, ranked by
// confidence weighted with relative theme size. Only measured-provenance,
// classified mentions qualify for quotation as data.
func Notables(themes []domain.Theme, topK int) []domain.NotableMention {
	if topK <= 0 {
		topK = 3
	}

	total := 0
	for _, t := range themes {
		total += t.Size()
	}
	if total == 0 {
		return nil
	}

	buckets := map[domain.Polarity][]domain.NotableMention{}
	for _, t := range themes {
		sizeWeight := float64(t.Size()) / float64(total)
		for _, m := range t.Members {
			if !m.Counted() || m.Provenance != domain.ProvenanceMeasured {
				continue
			}
			buckets[m.Polarity] = append(buckets[m.Polarity], domain.NotableMention{
				ClassifiedMention: m,
				ThemeLabel:        t.Label,
				Weight:            m.Confidence * sizeWeight,
			})
		}
	}

	var notables []domain.NotableMention
	for _, polarity := range []domain.Polarity{
		domain.PolarityPositive,
		domain.PolarityNegative,
		domain.PolarityNeutral,
	} {
		bucket := buckets[polarity]
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].Weight != bucket[j].Weight {
				return bucket[i].Weight > bucket[j].Weight
			}
			return bucket[i].ID < bucket[j].ID
		})
		if len(bucket) > topK {
			bucket = bucket[:topK]
		}
		notables = append(notables, bucket...)
	}

	return notables
}
