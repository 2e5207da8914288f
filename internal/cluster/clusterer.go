package cluster

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"BrandRadar/internal/domain"
)

// Mode selects how mentions are ordered before clustering. The greedy
// single-pass algorithm is order-sensitive, so batch mode imposes a fixed
// ordering by (timestamp, ID) for reproducible offline reports while online
// mode mirrors real-time arrival order.
type Mode string

const (
	ModeOnline Mode = "online"
	ModeBatch  Mode = "batch"
)

const labelTerms = 3

// simEpsilon bounds float noise when deciding whether two themes are
// "equally similar" for the stability tiebreak.
const simEpsilon = 1e-9

// Clusterer groups classified mentions into themes with incremental greedy
// similarity clustering: a mention joins the most similar theme whose
// centroid similarity reaches the threshold, otherwise it opens a new theme.
type Clusterer struct {
	threshold float64
	mode      Mode
}

// New builds a clusterer; threshold <= 0 falls back to 0.6.
func New(threshold float64, mode Mode) *Clusterer {
	if threshold <= 0 {
		threshold = 0.6
	}
	if mode != ModeOnline {
		mode = ModeBatch
	}
	return &Clusterer{threshold: threshold, mode: mode}
}

type themeState struct {
	centroid Vector
	members  []domain.ClassifiedMention
	vectors  []Vector
}

// Cluster assigns every mention to a theme. Ties on similarity go to the
// theme with the larger membership. Unclassified mentions still cluster:
// their text carries topical signal even without a polarity.
func (c *Clusterer) Cluster(mentions []domain.ClassifiedMention) []domain.Theme {
	ordered := mentions
	if c.mode == ModeBatch {
		ordered = make([]domain.ClassifiedMention, len(mentions))
		copy(ordered, mentions)
		sort.SliceStable(ordered, func(i, j int) bool {
			if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
				return ordered[i].Timestamp.Before(ordered[j].Timestamp)
			}
			return ordered[i].ID < ordered[j].ID
		})
	}

	var states []*themeState
	for _, m := range ordered {
		v := Vectorize(m.RawText)

		best := -1
		bestSim := 0.0
		for i, st := range states {
			sim := Cosine(v, st.centroid)
			if sim < c.threshold {
				continue
			}
			switch {
			case sim > bestSim+simEpsilon:
				best, bestSim = i, sim
			case sim > bestSim-simEpsilon && best >= 0:
				if len(st.members) > len(states[best].members) {
					best = i
				}
			}
		}

		if best < 0 {
			states = append(states, &themeState{
				centroid: cloneVector(v),
				members:  []domain.ClassifiedMention{m},
				vectors:  []Vector{v},
			})
			continue
		}

		st := states[best]
		st.centroid = updateCentroid(st.centroid, v, len(st.members))
		st.members = append(st.members, m)
		st.vectors = append(st.vectors, v)
	}

	themes := make([]domain.Theme, 0, len(states))
	for _, st := range states {
		themes = append(themes, st.finalize())
	}
	return themes
}

// updateCentroid folds a new member vector into the running average.
func updateCentroid(centroid, v Vector, n int) Vector {
	next := Vector{}
	scale := float64(n) / float64(n+1)
	for term, w := range centroid {
		next[term] = w * scale
	}
	for term, w := range v {
		next[term] += w / float64(n+1)
	}
	return next
}

func (st *themeState) finalize() domain.Theme {
	repIdx := 0
	bestSim := -1.0
	for i, v := range st.vectors {
		if sim := Cosine(v, st.centroid); sim > bestSim {
			bestSim = sim
			repIdx = i
		}
	}

	return domain.Theme{
		ID:             uuid.NewString(),
		Label:          strings.Join(st.centroid.TopTerms(labelTerms), " "),
		Members:        st.members,
		Centroid:       st.centroid,
		Representative: st.members[repIdx].RawText,
	}
}

func cloneVector(v Vector) Vector {
	out := make(Vector, len(v))
	for term, w := range v {
		out[term] = w
	}
	return out
}
