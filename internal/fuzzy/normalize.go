// Package fuzzy implements the answer checker: string normalization,
// Levenshtein distance, similarity scoring, and the featuring/artist
// splitting rules used to fuzzily match a player's free-text answer
// against a track's title and artist.
package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// leadingArticles are stripped from the front of a normalized string when
// cfg.StripLeadingArticle is set.
var leadingArticles = map[string]bool{
	"le": true, "la": true, "les": true, "l": true,
	"un": true, "une": true, "des": true,
	"the": true, "a": true, "an": true,
}

// Config controls optional normalization behavior.
type Config struct {
	StripLeadingArticle bool
}

// Normalize lowercases, strips accents via NFD decomposition + combining
// mark removal, replaces punctuation with spaces, optionally drops a
// leading article, collapses whitespace, and trims.
func Normalize(s string, cfg Config) string {
	s = strings.ToLower(s)
	s = stripAccents(s)
	s = punctuationToSpace(s)

	fields := strings.Fields(s)
	if cfg.StripLeadingArticle && len(fields) > 1 {
		if leadingArticles[fields[0]] {
			fields = fields[1:]
		}
	}
	return strings.Join(fields, " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func punctuationToSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
