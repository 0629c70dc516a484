// Package resolver maps arbitrary spreadsheet header names to canonical
// field names. Matching is substring-based over folded text (lowercase,
// diacritics stripped, optionally all whitespace removed), driven by ordered
// alias lists that live in data, not code.
package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options controls header folding. StripSpace removes all whitespace before
// comparison; the ledger pipeline uses it, the products/buyers pipeline does
// not.
type Options struct {
	StripSpace bool
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes a header or alias for comparison: lowercase, diacritics
// removed, and with opts.StripSpace every whitespace rune dropped.
func Fold(s string, opts Options) string {
	folded, _, err := transform.String(deaccent, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	if opts.StripSpace {
		folded = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, folded)
	}
	return folded
}

// Resolve returns the index of the first header (source column order) whose
// folded form contains any alias as a substring, checking aliases in priority
// order. Alias priority wins at the field level; among headers matching the
// same alias, the first-encountered header wins. Returns -1 on no match.
func Resolve(headers []string, aliases []string, opts Options) int {
	folded := FoldHeaders(headers, opts)
	return ResolveFolded(folded, aliases, opts)
}

// FoldHeaders pre-folds a header row so repeated resolutions over the same
// table don't refold every time.
func FoldHeaders(headers []string, opts Options) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Fold(h, opts)
	}
	return out
}

// ResolveFolded is Resolve over headers already passed through FoldHeaders.
func ResolveFolded(foldedHeaders []string, aliases []string, opts Options) int {
	for _, alias := range aliases {
		a := Fold(alias, opts)
		if a == "" {
			continue
		}
		for i, h := range foldedHeaders {
			if strings.Contains(h, a) {
				return i
			}
		}
	}
	return -1
}
