package cluster

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopwords excluded from theme vectors; brand monitoring text is short, so
// the list only needs the highest-frequency English fillers.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"with": {}, "this": {}, "that": {}, "from": {}, "have": {}, "has": {},
	"was": {}, "were": {}, "will": {}, "their": {}, "they": {}, "its": {},
	"about": {}, "into": {}, "over": {}, "after": {}, "been": {}, "than": {},
	"more": {}, "very": {}, "just": {}, "also": {}, "your": {}, "our": {},
}

// Vector is a normalized term-frequency representation of a mention text.
type Vector map[string]float64

// Vectorize tokenizes text and returns its L2-normalized term-frequency
// vector. Tokens shorter than three runes and stopwords are dropped.
func Vectorize(text string) Vector {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	v := Vector{}
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < 3 {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		v[tok]++
	}

	norm := v.norm()
	if norm == 0 {
		return v
	}
	for term := range v {
		v[term] /= norm
	}
	return v
}

func (v Vector) norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of two vectors in [0,1].
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	for term, w := range small {
		dot += w * large[term]
	}

	na, nb := a.norm(), b.norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

// TopTerms returns the n heaviest terms of the vector, weight-descending with
// a lexicographic tiebreak for determinism.
func (v Vector) TopTerms(n int) []string {
	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if v[terms[i]] != v[terms[j]] {
			return v[terms[i]] > v[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
