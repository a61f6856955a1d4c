// Package normalize folds free text into the canonical form every alias and
// dictionary lookup in the engine uses: lower-case ASCII letters, digits and
// single spaces, nothing else.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRunRe = regexp.MustCompile(`\s+`)
)

// Fold lower-cases, strips diacritics, replaces anything outside [a-z0-9\s]
// with a space and collapses whitespace. Empty input yields "".
//
// Fold is idempotent: Fold(Fold(x)) == Fold(x).
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Compact is Fold with all remaining spaces removed. Used to spot product
// codes users type with stray separators.
func Compact(s string) string {
	return strings.ReplaceAll(Fold(s), " ", "")
}
