// Package slug turns free text into URL-safe identifiers.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases text, folds diacritics to their ASCII base letters and
// collapses every run of characters outside [a-z0-9] into a single '-'.
// Leading and trailing separators are dropped, so Make(Make(s)) == Make(s).
//
//	Make("Hand Tools") == "hand-tools"
//	Make("HM-100")     == "hm-100"
//	Make(" Café ")     == "cafe"
func Make(text string) string {
	folded, _, err := transform.String(folder(), text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))

	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	return b.String()
}

// folder is not safe for concurrent use, so each call gets its own chain.
func folder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
