package ranking

import (
	"errors"
	"sort"

	"github.com/printworks/answer-engine/internal/catalog"
	"github.com/printworks/answer-engine/internal/intent"
	"github.com/printworks/answer-engine/internal/observability"
	"github.com/printworks/answer-engine/internal/retriever"
)

// ErrNoCandidates indicates the retriever produced no usable base
// candidate. A normal outcome, not a fault.
var ErrNoCandidates = errors.New("no base candidates")

// DefaultMaxUpsell bounds the upsell portion when the caller does not.
const DefaultMaxUpsell = 2

// Selection is the assembled result: the anchor answer first, then the
// chosen upsells in rank order.
type Selection struct {
	Anchor           *catalog.Entry
	AnchorSimilarity float64
	Upsells          []ScoredCandidate
	Stats            SelectionStats
}

// Ordered returns the entries in presentation order, anchor always first
// regardless of its own relevance.
func (s *Selection) Ordered() []*catalog.Entry {
	out := make([]*catalog.Entry, 0, 1+len(s.Upsells))
	out = append(out, s.Anchor)
	for _, u := range s.Upsells {
		out = append(out, u.Entry)
	}
	return out
}

// SelectionStats summarizes one selection pass for monitoring.
type SelectionStats struct {
	CandidatesScored      int
	DroppedBelowFloor     int
	DroppedDuplicateGroup int
	UpsellCount           int
	ActiveTags            []string
}

// SelectorConfig holds selection policy knobs.
type SelectorConfig struct {
	// MinSimilarity is the floor a retriever hit needs to anchor the
	// answer. Zero lets the retriever's own ranking stand.
	MinSimilarity float64

	// MaxUpsell bounds the upsell portion; non-positive selects the
	// default.
	MaxUpsell int
}

// Selector applies the selection policy: anchor first, relevance floor,
// stable deterministic ordering, group deduplication and the upsell cap.
type Selector struct {
	scorer *Scorer
	config SelectorConfig
	logger *observability.Logger
}

// NewSelector creates a selector.
func NewSelector(scorer *Scorer, cfg SelectorConfig, logger *observability.Logger) *Selector {
	if cfg.MaxUpsell <= 0 {
		cfg.MaxUpsell = DefaultMaxUpsell
	}
	return &Selector{
		scorer: scorer,
		config: cfg,
		logger: logger,
	}
}

// Select runs the single-pass selection over the retriever's base
// candidates and the catalog snapshot. maxUpsell overrides the configured
// cap when positive.
func (s *Selector) Select(baseCandidates []retriever.Candidate, snap *catalog.Snapshot, tags []intent.Tag, maxUpsell int) (*Selection, error) {
	if maxUpsell <= 0 {
		maxUpsell = s.config.MaxUpsell
	}

	anchor, similarity := s.pickAnchor(baseCandidates, snap)
	if anchor == nil {
		return nil, ErrNoCandidates
	}

	sel := &Selection{
		Anchor:           anchor,
		AnchorSimilarity: similarity,
	}
	for _, t := range tags {
		sel.Stats.ActiveTags = append(sel.Stats.ActiveTags, t.Name)
	}

	// Gather the anchor category's upsell entries, score, and drop the
	// below-floor ones. With no active tags this degrades to a pure
	// priority ranking, which is intended.
	scored := make([]ScoredCandidate, 0)
	for _, e := range snap.GetByCategory(anchor.Category) {
		if e.ID == anchor.ID || e.IsBase() {
			continue
		}
		if err := e.Validate(); err != nil {
			s.logger.Warn().Err(err).Str("entry_id", e.ID).Msg("Skipping malformed catalog entry")
			continue
		}

		cand := s.scorer.Score(e, tags)
		sel.Stats.CandidatesScored++
		if cand.BelowFloor {
			sel.Stats.DroppedBelowFloor++
			continue
		}
		scored = append(scored, cand)
	}

	// Relevance descending; ties prefer the numerically smaller (more
	// premium) priority, then catalog order. The sort must stay stable
	// so identical inputs always reproduce the same output.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Relevance != scored[j].Relevance {
			return scored[i].Relevance > scored[j].Relevance
		}
		if scored[i].Entry.Priority != scored[j].Entry.Priority {
			return scored[i].Entry.Priority < scored[j].Entry.Priority
		}
		if scored[i].Entry.SortOrder != scored[j].Entry.SortOrder {
			return scored[i].Entry.SortOrder < scored[j].Entry.SortOrder
		}
		return scored[i].Entry.ID < scored[j].Entry.ID
	})

	// Truncate and deduplicate: first of each group wins, at most
	// maxUpsell suggestions.
	seenGroups := make(map[string]struct{})
	for _, cand := range scored {
		if len(sel.Upsells) >= maxUpsell {
			break
		}
		if _, dup := seenGroups[cand.Entry.Group]; dup {
			sel.Stats.DroppedDuplicateGroup++
			continue
		}
		seenGroups[cand.Entry.Group] = struct{}{}
		sel.Upsells = append(sel.Upsells, cand)
	}
	sel.Stats.UpsellCount = len(sel.Upsells)

	return sel, nil
}

// pickAnchor resolves the highest-similarity usable base candidate.
// Unknown ids and malformed entries are skipped, not fatal.
func (s *Selector) pickAnchor(candidates []retriever.Candidate, snap *catalog.Snapshot) (*catalog.Entry, float64) {
	var best *catalog.Entry
	var bestSim float64

	for _, cand := range candidates {
		if cand.Similarity < s.config.MinSimilarity {
			continue
		}
		e := snap.GetByID(cand.EntryID)
		if e == nil {
			s.logger.Warn().Str("entry_id", cand.EntryID).Msg("Retriever returned unknown entry id")
			continue
		}
		if err := e.Validate(); err != nil {
			s.logger.Warn().Err(err).Str("entry_id", e.ID).Msg("Skipping malformed catalog entry")
			continue
		}
		if !e.IsBase() {
			s.logger.Warn().Str("entry_id", e.ID).Msg("Retriever returned non-base entry")
			continue
		}
		if best == nil || cand.Similarity > bestSim {
			best = e
			bestSim = cand.Similarity
		}
	}

	return best, bestSim
}
