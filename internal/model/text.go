package model

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

// ToASCII decomposes s into canonical decomposition form and drops every
// rune outside the ASCII range.
//
// The transform is lossy and deterministic: "Pádraig" becomes "Padraig",
// while characters without an ASCII base ("東京", "ß") disappear entirely.
//
// Example:
//
//	ToASCII("Déjà Vu") // "Deja Vu"
func ToASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify converts s to a lowercase, hyphenated ASCII string that is safe to
// use as a file name.
//
// The steps run in this order:
//  1. ASCII folding (see ToASCII)
//  2. Characters that are not alphanumerics, underscores, whitespace or
//     hyphens are removed
//  3. Leading and trailing whitespace is trimmed and the result lowercased
//  4. Runs of whitespace and hyphens collapse into a single hyphen
//
// Folding runs before stripping, so accented letters keep their base letter
// instead of being removed as punctuation.
//
// Example:
//
//	Slugify("Pádraig Ó")  // "padraig-o"
//	Slugify("Don't Stop") // "dont-stop"
func Slugify(s string) string {
	s = ToASCII(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.ToLower(strings.TrimSpace(s))
	return slugSeparators.ReplaceAllString(s, "-")
}
