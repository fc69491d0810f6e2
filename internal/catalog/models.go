// Package catalog provides the knowledge entry catalog: typed entries,
// immutable per-request snapshots and the loaders that build them.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// GroupBase marks an entry as a primary answer rather than an upsell.
const GroupBase = "base"

// ErrMalformedEntry indicates a catalog entry missing required fields.
var ErrMalformedEntry = errors.New("malformed catalog entry")

// Entry is one knowledge item: answer text plus ranking metadata.
type Entry struct {
	ID       string
	Category string
	Group    string
	Keywords []string

	// Answers maps a language code (e.g. "uk", "ru") to answer text.
	// Text may contain {base_price}, {upsell_price} and {total_price}
	// placeholders; substitution happens in the formatter.
	Answers map[string]string

	// Priority ranges 1-10. 10 marks always-relevant base information,
	// 1 the rarest, most exclusive offering.
	Priority int

	// Triggers lists the intent tags that make this entry relevant
	// as an upsell.
	Triggers []string

	BasePrice   *float64
	UpsellPrice *float64
	PriceSuffix string

	// SortOrder preserves the catalog listing order for deterministic
	// tie-breaking.
	SortOrder int
}

// IsBase reports whether the entry is a primary answer.
func (e *Entry) IsBase() bool {
	return e.Group == GroupBase
}

// HasTrigger reports whether the entry declares the given trigger tag.
func (e *Entry) HasTrigger(tag string) bool {
	for _, t := range e.Triggers {
		if t == tag {
			return true
		}
	}
	return false
}

// Answer returns the answer text for the given language and whether the
// language was present.
func (e *Entry) Answer(language string) (string, bool) {
	text, ok := e.Answers[language]
	return text, ok
}

// Validate checks the entry for required fields. A violation wraps
// ErrMalformedEntry so callers can skip the entry and keep ranking.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedEntry)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: entry %s has empty category", ErrMalformedEntry, e.ID)
	}
	if strings.TrimSpace(e.Group) == "" {
		return fmt.Errorf("%w: entry %s has empty group", ErrMalformedEntry, e.ID)
	}
	if e.Priority < 1 || e.Priority > 10 {
		return fmt.Errorf("%w: entry %s has priority %d outside [1,10]", ErrMalformedEntry, e.ID, e.Priority)
	}
	if len(e.Answers) == 0 {
		return fmt.Errorf("%w: entry %s has no answer text", ErrMalformedEntry, e.ID)
	}
	// An upsell without triggers can never be selected; valid but inert.
	return nil
}
