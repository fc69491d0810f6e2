// Package intent detects intent signals in free-text customer queries.
package intent

import (
	"sort"
	"strconv"
	"strings"
)

// Tag is one detected intent signal. Weight is a positive number; 1.0 is
// the neutral signal, above 1.0 an emphasized one.
type Tag struct {
	Name   string
	Weight float64
}

// Caller context keys understood by the analyzer.
const (
	ContextFirstTime      = "is_first_time"
	ContextPreviousOrders = "previous_orders"
)

// Analyzer matches query text and caller context against the tag keyword
// tables. It is a pure function of its inputs: no I/O, no randomness.
type Analyzer struct {
	keywords map[string][]string
	weights  map[string]float64
}

// NewAnalyzer creates an analyzer with the built-in keyword tables.
// overrides replaces the built-in weight for the named tags; pass nil to
// keep the defaults.
func NewAnalyzer(overrides map[string]float64) *Analyzer {
	weights := defaultWeights()
	for tag, w := range overrides {
		weights[tag] = w
	}
	return &Analyzer{
		keywords: defaultKeywords(),
		weights:  weights,
	}
}

// Analyze returns the active intent tags for the query text and caller
// context, sorted by tag name. Each tag appears at most once no matter how
// many of its keywords matched. Empty or whitespace-only text yields no
// text-derived tags.
func (a *Analyzer) Analyze(query string, callerContext map[string]string) []Tag {
	active := make(map[string]struct{})

	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower != "" {
		for tag, words := range a.keywords {
			for _, word := range words {
				if strings.Contains(queryLower, word) {
					active[tag] = struct{}{}
					break
				}
			}
		}

		// Derived focus tags: budget vocabulary first, then the
		// premium-segment check, mirroring how operators triage.
		if containsAny(queryLower, priceSensitiveWords) {
			active[TagPriceSensitive] = struct{}{}
		} else if containsAny(queryLower, qualityFocusedWords) {
			active[TagQualityFocused] = struct{}{}
		}
	}

	// Behavioral tags from caller context are independent of the text.
	if callerContext[ContextFirstTime] == "true" {
		active[TagFirstTime] = struct{}{}
	}
	if n, err := strconv.Atoi(callerContext[ContextPreviousOrders]); err == nil && n > 0 {
		active[TagReturning] = struct{}{}
	}

	tags := make([]Tag, 0, len(active))
	for name := range active {
		tags = append(tags, Tag{Name: name, Weight: a.weight(name)})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	return tags
}

// weight returns the configured weight for a tag, defaulting to the
// neutral 1.0 for tags without an explicit table row.
func (a *Analyzer) weight(tag string) float64 {
	if w, ok := a.weights[tag]; ok {
		return w
	}
	return 1.0
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
