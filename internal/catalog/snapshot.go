package catalog

import (
	"sort"
	"sync/atomic"
)

// Snapshot is an immutable view of the catalog. Rankers hold one snapshot
// for the lifetime of a request; reloads swap the whole snapshot and never
// mutate entries in place.
type Snapshot struct {
	version    int64
	byID       map[string]*Entry
	byCategory map[string][]*Entry
	count      int
}

// NewSnapshot builds a snapshot from entries. Malformed entries are
// excluded and returned so callers can log them as data-quality issues;
// they never abort the build.
func NewSnapshot(version int64, entries []Entry) (*Snapshot, []error) {
	s := &Snapshot{
		version:    version,
		byID:       make(map[string]*Entry, len(entries)),
		byCategory: make(map[string][]*Entry),
	}

	var malformed []error
	for i := range entries {
		e := entries[i]
		if err := e.Validate(); err != nil {
			malformed = append(malformed, err)
			continue
		}
		s.byID[e.ID] = &e
		s.byCategory[e.Category] = append(s.byCategory[e.Category], &e)
		s.count++
	}

	// Keep catalog-defined order stable within each category.
	for _, group := range s.byCategory {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].SortOrder != group[j].SortOrder {
				return group[i].SortOrder < group[j].SortOrder
			}
			return group[i].ID < group[j].ID
		})
	}

	return s, malformed
}

// Version returns the snapshot version.
func (s *Snapshot) Version() int64 {
	return s.version
}

// Len returns the number of entries in the snapshot.
func (s *Snapshot) Len() int {
	return s.count
}

// GetByID returns the entry with the given id, or nil.
func (s *Snapshot) GetByID(id string) *Entry {
	return s.byID[id]
}

// GetByCategory returns the category's entries in catalog order. The
// returned slice must not be modified.
func (s *Snapshot) GetByCategory(category string) []*Entry {
	return s.byCategory[category]
}

// Categories returns the category names present in the snapshot, sorted.
func (s *Snapshot) Categories() []string {
	names := make([]string, 0, len(s.byCategory))
	for name := range s.byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountByCategory returns per-category entry counts.
func (s *Snapshot) CountByCategory() map[string]int {
	counts := make(map[string]int, len(s.byCategory))
	for name, group := range s.byCategory {
		counts[name] = len(group)
	}
	return counts
}

// Holder publishes the current catalog snapshot. Swap replaces the whole
// snapshot atomically; readers obtained via Current are never affected by
// a concurrent reload.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder seeded with the given snapshot.
func NewHolder(initial *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(initial)
	return h
}

// Current returns the snapshot in effect.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Swap installs a new snapshot and returns the previous one.
func (h *Holder) Swap(next *Snapshot) *Snapshot {
	return h.current.Swap(next)
}
