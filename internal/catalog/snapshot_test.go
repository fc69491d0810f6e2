package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotEntries() []Entry {
	return []Entry{
		{ID: "визитки_2", Category: "визитки", Group: "materials", Answers: map[string]string{"uk": "б"}, Priority: 8, SortOrder: 2},
		{ID: "визитки_1", Category: "визитки", Group: "base", Answers: map[string]string{"uk": "а"}, Priority: 10, SortOrder: 1},
		{ID: "флаеры_1", Category: "флаеры", Group: "base", Answers: map[string]string{"uk": "в"}, Priority: 10, SortOrder: 1},
	}
}

func TestNewSnapshot(t *testing.T) {
	snap, malformed := NewSnapshot(7, snapshotEntries())

	assert.Empty(t, malformed)
	assert.Equal(t, int64(7), snap.Version())
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"визитки", "флаеры"}, snap.Categories())
	assert.Equal(t, map[string]int{"визитки": 2, "флаеры": 1}, snap.CountByCategory())
}

func TestNewSnapshot_ExcludesMalformed(t *testing.T) {
	entries := append(snapshotEntries(), Entry{
		ID: "визитки_3", Category: "визитки", Group: "extras", Priority: 0,
	})

	snap, malformed := NewSnapshot(1, entries)

	require.Len(t, malformed, 1)
	assert.ErrorIs(t, malformed[0], ErrMalformedEntry)
	assert.Equal(t, 3, snap.Len())
	assert.Nil(t, snap.GetByID("визитки_3"))
}

func TestSnapshot_CategoryOrder(t *testing.T) {
	snap, _ := NewSnapshot(1, snapshotEntries())

	group := snap.GetByCategory("визитки")
	require.Len(t, group, 2)
	assert.Equal(t, "визитки_1", group[0].ID)
	assert.Equal(t, "визитки_2", group[1].ID)
}

func TestSnapshot_GetByID(t *testing.T) {
	snap, _ := NewSnapshot(1, snapshotEntries())

	e := snap.GetByID("флаеры_1")
	require.NotNil(t, e)
	assert.Equal(t, "флаеры", e.Category)

	assert.Nil(t, snap.GetByID("нет_такого"))
}

func TestHolder_Swap(t *testing.T) {
	first, _ := NewSnapshot(1, snapshotEntries())
	holder := NewHolder(first)

	// A reader that grabbed the snapshot before the swap keeps seeing it.
	held := holder.Current()

	second, _ := NewSnapshot(2, snapshotEntries()[:1])
	old := holder.Swap(second)

	assert.Same(t, first, old)
	assert.Same(t, second, holder.Current())
	assert.Equal(t, int64(1), held.Version())
	assert.Equal(t, 3, held.Len())
}
