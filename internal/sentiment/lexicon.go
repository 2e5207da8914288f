package sentiment

import (
	"context"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"BrandRadar/internal/domain"
)

// Lexicon scores text by matching positive and negative term lists with
// Aho-Corasick automatons, one scan per polarity. It is fully deterministic:
// the same text and term lists always produce the same score.
type Lexicon struct {
	positive *ahocorasick.Matcher
	negative *ahocorasick.Matcher
	version  string
}

var _ Backend = (*Lexicon)(nil)

// NewLexicon builds the automatons from the given term lists. Terms are
// matched case-insensitively.
func NewLexicon(positive, negative []string, version string) *Lexicon {
	return &Lexicon{
		positive: ahocorasick.NewStringMatcher(lowerAll(positive)),
		negative: ahocorasick.NewStringMatcher(lowerAll(negative)),
		version:  version,
	}
}

// NewDefaultLexicon builds a lexicon from the built-in English term lists.
func NewDefaultLexicon(version string) *Lexicon {
	return NewLexicon(defaultPositiveTerms, defaultNegativeTerms, version)
}

// Version identifies the term lists; it feeds ClassifiedMention.ModelVersion.
func (l *Lexicon) Version() string {
	return l.version
}

// Score counts unique positive and negative term hits. Confidence grows with
// the dominance of one polarity and with the total evidence: a single hit is
// never trusted enough to cross the default neutrality threshold.
func (l *Lexicon) Score(_ context.Context, text string) (Score, error) {
	lowered := []byte(strings.ToLower(text))

	p := len(l.positive.Match(lowered))
	n := len(l.negative.Match(lowered))

	total := p + n
	if total == 0 || p == n {
		return Score{Polarity: domain.PolarityNeutral, Confidence: 0}, nil
	}

	dominance := float64(abs(p-n)) / float64(total)
	evidence := float64(total) / float64(total+2)

	polarity := domain.PolarityPositive
	if n > p {
		polarity = domain.PolarityNegative
	}

	return Score{Polarity: polarity, Confidence: dominance * evidence}, nil
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
