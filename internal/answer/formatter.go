// Package answer orchestrates the query pipeline and renders the final
// customer-facing response.
package answer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/printworks/answer-engine/internal/catalog"
	"github.com/printworks/answer-engine/internal/ranking"
)

// pricePattern matches the placeholders stored catalog text may carry.
var pricePattern = regexp.MustCompile(`\{(base_price|upsell_price|total_price)\}`)

// upsellHeaders introduces the suggestion block, per language.
var upsellHeaders = map[string]string{
	"uk": "✨ Додаткові можливості:",
	"ru": "✨ Дополнительные возможности:",
	"en": "✨ You may also like:",
}

// Formatter renders a selection into one user-facing message.
type Formatter struct {
	defaultLanguage string
}

// NewFormatter creates a formatter falling back to defaultLanguage when an
// entry lacks text for the requested one.
func NewFormatter(defaultLanguage string) *Formatter {
	if defaultLanguage == "" {
		defaultLanguage = "uk"
	}
	return &Formatter{defaultLanguage: defaultLanguage}
}

// Format concatenates the anchor's localized answer with the upsell block.
// A missing localization falls back, never fails.
func (f *Formatter) Format(sel *ranking.Selection, lang string) string {
	var b strings.Builder

	b.WriteString(f.renderEntry(sel.Anchor, lang))

	if len(sel.Upsells) > 0 {
		b.WriteString("\n\n")
		b.WriteString(f.header(lang))
		for _, u := range sel.Upsells {
			b.WriteString("\n• ")
			b.WriteString(f.renderEntry(u.Entry, lang))
		}
	}

	return b.String()
}

// renderEntry resolves the entry's text for the language and substitutes
// price placeholders.
func (f *Formatter) renderEntry(e *catalog.Entry, lang string) string {
	text := f.resolveAnswer(e, lang)
	return substitutePrices(text, e)
}

// resolveAnswer picks the best available localization: exact language,
// then BCP 47 matching (uk-UA finds uk), then the default language, then
// any language in deterministic order.
func (f *Formatter) resolveAnswer(e *catalog.Entry, lang string) string {
	if text, ok := e.Answer(lang); ok {
		return text
	}

	if matched := matchLanguage(e, lang); matched != "" {
		return e.Answers[matched]
	}

	if text, ok := e.Answer(f.defaultLanguage); ok {
		return text
	}

	keys := make([]string, 0, len(e.Answers))
	for k := range e.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		return e.Answers[keys[0]]
	}
	return ""
}

// matchLanguage runs BCP 47 matching over the entry's available languages.
func matchLanguage(e *catalog.Entry, lang string) string {
	want, err := language.Parse(lang)
	if err != nil {
		return ""
	}

	keys := make([]string, 0, len(e.Answers))
	for k := range e.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]language.Tag, 0, len(keys))
	valid := keys[:0]
	for _, k := range keys {
		t, err := language.Parse(k)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		valid = append(valid, k)
	}
	if len(tags) == 0 {
		return ""
	}

	matcher := language.NewMatcher(tags)
	_, index, conf := matcher.Match(want)
	if conf == language.No {
		return ""
	}
	return valid[index]
}

// header returns the upsell block introduction for the language.
func (f *Formatter) header(lang string) string {
	if h, ok := upsellHeaders[baseLang(lang)]; ok {
		return h
	}
	if h, ok := upsellHeaders[f.defaultLanguage]; ok {
		return h
	}
	return upsellHeaders["uk"]
}

func baseLang(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return strings.ToLower(lang[:i])
	}
	return strings.ToLower(lang)
}

// substitutePrices fills {base_price}, {upsell_price} and {total_price}
// from the entry's price fields. Prices render as whole numbers with the
// entry's suffix appended; missing values render as 0 the way the stored
// templates expect.
func substitutePrices(text string, e *catalog.Entry) string {
	if !strings.Contains(text, "{") {
		return text
	}

	var base, upsell float64
	if e.BasePrice != nil {
		base = *e.BasePrice
	}
	if e.UpsellPrice != nil {
		upsell = *e.UpsellPrice
	}

	return pricePattern.ReplaceAllStringFunc(text, func(m string) string {
		var v float64
		switch m {
		case "{base_price}":
			v = base
		case "{upsell_price}":
			v = upsell
		case "{total_price}":
			v = base + upsell
		}
		s := strconv.Itoa(int(v))
		if e.PriceSuffix != "" {
			s += " " + e.PriceSuffix
		}
		return s
	})
}
