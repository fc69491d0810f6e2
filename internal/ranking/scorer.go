// Package ranking combines static entry priority with detected intent
// signals into one deterministic relevance ordering.
package ranking

import (
	"github.com/printworks/answer-engine/internal/catalog"
	"github.com/printworks/answer-engine/internal/intent"
)

// DefaultRelevanceFloor is the minimum relevance an upsell needs to be
// shown at all.
const DefaultRelevanceFloor = 0.3

// maxRelevance caps the combined score so stacked signals cannot run away.
const maxRelevance = 2.0

// ScoredCandidate pairs an entry with its computed relevance plus the
// bookkeeping needed to explain and test the ranking.
type ScoredCandidate struct {
	Entry *catalog.Entry

	// Relevance = clamp(BaseScore + Bonus, 0, 2.0).
	Relevance float64

	// BaseScore derives from priority on the inverted scale (11-p)/10:
	// priority 10 scores 0.1, priority 1 scores 1.0.
	BaseScore float64

	// Bonus is the maximum weight among the intent tags that intersect
	// the entry's triggers, or 0 when none match.
	Bonus float64

	// MatchedTag names the tag that supplied the bonus, if any.
	MatchedTag string

	// BelowFloor flags candidates the selector should drop. The scorer
	// never discards anything itself.
	BelowFloor bool

	// Similarity carries the retriever score when the candidate came
	// from a search hit; rule-based upsell lookups leave it at 1.0.
	Similarity float64
}

// Scorer computes relevance for catalog entries. It is a pure function of
// its inputs: no side effects, no I/O.
type Scorer struct {
	floor float64
}

// NewScorer creates a scorer with the given relevance floor. A
// non-positive floor selects the default.
func NewScorer(floor float64) *Scorer {
	if floor <= 0 {
		floor = DefaultRelevanceFloor
	}
	return &Scorer{floor: floor}
}

// Floor returns the configured relevance floor.
func (s *Scorer) Floor() float64 {
	return s.floor
}

// Score computes the entry's relevance against the active intent tags.
// The trigger bonus takes the maximum matching tag weight, not the sum,
// so stacking tags cannot inflate the score.
func (s *Scorer) Score(e *catalog.Entry, tags []intent.Tag) ScoredCandidate {
	base := BaseScore(e.Priority)

	var bonus float64
	var matched string
	for _, tag := range tags {
		if e.HasTrigger(tag.Name) && tag.Weight > bonus {
			bonus = tag.Weight
			matched = tag.Name
		}
	}

	relevance := base + bonus
	if relevance > maxRelevance {
		relevance = maxRelevance
	}
	if relevance < 0 {
		relevance = 0
	}

	return ScoredCandidate{
		Entry:      e,
		Relevance:  relevance,
		BaseScore:  base,
		Bonus:      bonus,
		MatchedTag: matched,
		BelowFloor: relevance < s.floor,
		Similarity: 1.0,
	}
}

// BaseScore maps a priority in [1,10] onto the inverted, normalized scale
// (11-p)/10. Lower priority numbers mark rarer, more premium entries and
// score higher.
func BaseScore(priority int) float64 {
	return float64(11-priority) / 10.0
}
