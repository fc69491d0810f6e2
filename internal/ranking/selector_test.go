package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/answer-engine/internal/catalog"
	"github.com/printworks/answer-engine/internal/intent"
	"github.com/printworks/answer-engine/internal/observability"
	"github.com/printworks/answer-engine/internal/retriever"
)

func testSnapshot(t *testing.T, entries []catalog.Entry) *catalog.Snapshot {
	t.Helper()
	snap, malformed := catalog.NewSnapshot(1, entries)
	require.Empty(t, malformed)
	return snap
}

func businessCardsCatalog() []catalog.Entry {
	return []catalog.Entry{
		{
			ID: "визитки_base", Category: "визитки", Group: "base",
			Answers: map[string]string{"uk": "Візитки від 200 грн"}, Priority: 10, SortOrder: 1,
		},
		{
			ID: "визитки_premium", Category: "визитки", Group: "materials",
			Answers: map[string]string{"uk": "Преміум папір"}, Priority: 8,
			Triggers: []string{"premium", "materials"}, SortOrder: 2,
		},
		{
			ID: "визитки_tirage", Category: "визитки", Group: "quantity",
			Answers: map[string]string{"uk": "Великий тираж"}, Priority: 9,
			Triggers: []string{"quantity"}, SortOrder: 3,
		},
		{
			ID: "визитки_design", Category: "визитки", Group: "design",
			Answers: map[string]string{"uk": "Індивідуальний дизайн"}, Priority: 7,
			Triggers: []string{"design"}, SortOrder: 4,
		},
	}
}

func newTestSelector(cfg SelectorConfig) *Selector {
	return NewSelector(NewScorer(0), cfg, observability.Nop())
}

func TestSelector_RanksByRelevance(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{})

	// Both tags carry the neutral weight: premium entry wins on its
	// better priority (0.3+1.0 over 0.2+1.0).
	tags := []intent.Tag{
		{Name: "premium", Weight: 1.0},
		{Name: "quantity", Weight: 1.0},
	}
	base := []retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.9}}

	sel, err := selector.Select(base, snap, tags, 0)
	require.NoError(t, err)

	assert.Equal(t, "визитки_base", sel.Anchor.ID)
	assert.InDelta(t, 0.9, sel.AnchorSimilarity, 1e-9)

	require.Len(t, sel.Upsells, 2)
	assert.Equal(t, "визитки_premium", sel.Upsells[0].Entry.ID)
	assert.InDelta(t, 1.3, sel.Upsells[0].Relevance, 1e-9)
	assert.Equal(t, "визитки_tirage", sel.Upsells[1].Entry.ID)
	assert.InDelta(t, 1.2, sel.Upsells[1].Relevance, 1e-9)
}

func TestSelector_AnchorAlwaysFirst(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{})

	tags := []intent.Tag{{Name: "design", Weight: 1.5}}
	base := []retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.4}}

	sel, err := selector.Select(base, snap, tags, 0)
	require.NoError(t, err)

	// The design upsell outranks the anchor's own base score, yet the
	// anchor still leads the presentation order.
	ordered := sel.Ordered()
	require.NotEmpty(t, ordered)
	assert.Equal(t, "визитки_base", ordered[0].ID)
}

func TestSelector_EmptyTagsFallsBackToPriority(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{})

	base := []retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.9}}

	sel, err := selector.Select(base, snap, nil, 0)
	require.NoError(t, err)

	// Without tags only the base scores survive the 0.3 floor: design
	// (0.4) and premium (0.3). The quantity entry (0.2) drops.
	require.Len(t, sel.Upsells, 2)
	assert.Equal(t, "визитки_design", sel.Upsells[0].Entry.ID)
	assert.Equal(t, "визитки_premium", sel.Upsells[1].Entry.ID)
	assert.Equal(t, 1, sel.Stats.DroppedBelowFloor)
}

func TestSelector_NoCandidates(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{})

	_, err := selector.Select(nil, snap, nil, 0)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestSelector_SimilarityThreshold(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{MinSimilarity: 0.5})

	t.Run("below threshold yields no answer", func(t *testing.T) {
		base := []retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.4}}
		_, err := selector.Select(base, snap, nil, 0)
		assert.ErrorIs(t, err, ErrNoCandidates)
	})

	t.Run("at threshold anchors", func(t *testing.T) {
		base := []retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.5}}
		sel, err := selector.Select(base, snap, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, "визитки_base", sel.Anchor.ID)
	})
}

func TestSelector_PicksHighestSimilarityAnchor(t *testing.T) {
	entries := append(businessCardsCatalog(), catalog.Entry{
		ID: "флаеры_base", Category: "флаеры", Group: "base",
		Answers: map[string]string{"uk": "Флаєри від 300 грн"}, Priority: 10, SortOrder: 1,
	})
	snap := testSnapshot(t, entries)
	selector := newTestSelector(SelectorConfig{})

	base := []retriever.Candidate{
		{EntryID: "визитки_base", Similarity: 0.6},
		{EntryID: "флаеры_base", Similarity: 0.8},
	}

	sel, err := selector.Select(base, snap, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "флаеры_base", sel.Anchor.ID)
}

func TestSelector_SkipsUnknownAndNonBaseCandidates(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{})

	base := []retriever.Candidate{
		{EntryID: "нет_такого", Similarity: 0.95},
		{EntryID: "визитки_premium", Similarity: 0.9},
		{EntryID: "визитки_base", Similarity: 0.6},
	}

	sel, err := selector.Select(base, snap, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "визитки_base", sel.Anchor.ID)
}

func TestSelector_GroupDedupe(t *testing.T) {
	entries := append(businessCardsCatalog(), catalog.Entry{
		ID: "визитки_premium2", Category: "визитки", Group: "materials",
		Answers: map[string]string{"uk": "Дизайнерський картон"}, Priority: 6,
		Triggers: []string{"premium"}, SortOrder: 5,
	})
	snap := testSnapshot(t, entries)
	selector := newTestSelector(SelectorConfig{})

	tags := []intent.Tag{{Name: "premium", Weight: 1.5}}

	sel, err := selector.Select([]retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.9}}, snap, tags, 0)
	require.NoError(t, err)

	// Both materials entries match premium; the higher-ranked one wins
	// its group and the second materials entry is dropped.
	groups := make(map[string]int)
	for _, u := range sel.Upsells {
		groups[u.Entry.Group]++
	}
	for group, n := range groups {
		assert.Equal(t, 1, n, "group %s duplicated", group)
	}
	assert.Equal(t, "визитки_premium2", sel.Upsells[0].Entry.ID)
	assert.Equal(t, 1, sel.Stats.DroppedDuplicateGroup)
}

func TestSelector_MaxUpsellCap(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{})

	tags := []intent.Tag{
		{Name: "premium", Weight: 1.0},
		{Name: "quantity", Weight: 1.0},
		{Name: "design", Weight: 1.0},
	}
	base := []retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.9}}

	t.Run("default cap", func(t *testing.T) {
		sel, err := selector.Select(base, snap, tags, 0)
		require.NoError(t, err)
		assert.Len(t, sel.Upsells, DefaultMaxUpsell)
	})

	t.Run("explicit cap", func(t *testing.T) {
		sel, err := selector.Select(base, snap, tags, 1)
		require.NoError(t, err)
		assert.Len(t, sel.Upsells, 1)
	})
}

func TestSelector_AnchorOnlyWhenAllBelowFloor(t *testing.T) {
	entries := []catalog.Entry{
		{
			ID: "визитки_base", Category: "визитки", Group: "base",
			Answers: map[string]string{"uk": "Візитки від 200 грн"}, Priority: 10, SortOrder: 1,
		},
		{
			ID: "визитки_rare", Category: "визитки", Group: "extras",
			Answers: map[string]string{"uk": "Рідкісна опція"}, Priority: 10,
			Triggers: []string{"premium"}, SortOrder: 2,
		},
	}
	snap := testSnapshot(t, entries)
	selector := newTestSelector(SelectorConfig{})

	sel, err := selector.Select([]retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.9}}, snap, nil, 0)
	require.NoError(t, err)

	assert.Empty(t, sel.Upsells)
	assert.Equal(t, []*catalog.Entry{sel.Anchor}, sel.Ordered())
	assert.Equal(t, 1, sel.Stats.DroppedBelowFloor)
}

func TestSelector_Deterministic(t *testing.T) {
	snap := testSnapshot(t, businessCardsCatalog())
	selector := newTestSelector(SelectorConfig{})

	tags := []intent.Tag{{Name: "premium", Weight: 1.0}, {Name: "quantity", Weight: 1.0}}
	base := []retriever.Candidate{{EntryID: "визитки_base", Similarity: 0.9}}

	first, err := selector.Select(base, snap, tags, 0)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := selector.Select(base, snap, tags, 0)
		require.NoError(t, err)
		assert.Equal(t, first.Anchor.ID, again.Anchor.ID)
		require.Len(t, again.Upsells, len(first.Upsells))
		for j := range first.Upsells {
			assert.Equal(t, first.Upsells[j].Entry.ID, again.Upsells[j].Entry.ID)
		}
	}
}
