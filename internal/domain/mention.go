package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Polarity is the sentiment label assigned to a mention.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
	// PolarityUnclassified marks mentions whose classification could not be
	// obtained; they are kept for audit but excluded from distribution math.
	PolarityUnclassified Polarity = "unclassified"
)

// Provenance distinguishes mentions taken from real feeds from illustrative
// samples injected for demonstration. Illustrative mentions never count as
// measured data in a report.
type Provenance string

const (
	ProvenanceMeasured     Provenance = "measured"
	ProvenanceIllustrative Provenance = "illustrative"
)

// RawRecord is what a source feed returns before normalization. Field naming
// differs per provider, so payload keys are kept as-is for the ingestor to
// resolve against its alias table.
type RawRecord struct {
	Source     string
	Fields     map[string]string
	FetchedAt  time.Time
	Provenance Provenance
}

// Mention is a single normalized piece of text referencing the monitored
// brand. Immutable once ingested.
type Mention struct {
	ID         string
	Source     string
	RawText    string
	Timestamp  time.Time
	URL        string
	Provenance Provenance
}

// DedupeKey identifies syndicated copies of the same content: the same text
// from the same source counts once.
func (m Mention) DedupeKey() string {
	return m.Source + ":" + HashText(m.RawText)
}

// HashText returns the hex SHA-256 of the mention text, used for dedup keys.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ClassifiedMention is a Mention plus the classifier verdict. It is created
// by the classifier and never mutated afterward.
type ClassifiedMention struct {
	Mention
	Polarity     Polarity
	Confidence   float64
	ModelVersion string
}

// Counted reports whether the mention participates in distribution math.
func (c ClassifiedMention) Counted() bool {
	return c.Polarity != PolarityUnclassified
}
