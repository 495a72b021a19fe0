// Package matching holds the text primitives shared by every lookup stage:
// normalization, stop-word cleaning and the approximate string comparison.
package matching

import (
	"strings"
	"unicode/utf8"
)

var punctuation = strings.NewReplacer("?", "", "!", "", ".", "", ",", "")

// Normalize lowercases s, drops the characters ? ! . , and trims surrounding
// whitespace. Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	return strings.TrimSpace(punctuation.Replace(strings.ToLower(s)))
}

// StopWords are removed from a query before it is split into search terms.
var StopWords = map[string]struct{}{
	"where": {}, "which": {}, "is": {}, "are": {}, "the": {}, "a": {}, "an": {},
	"in": {}, "at": {}, "on": {}, "located": {}, "location": {}, "find": {},
	"floor": {}, "aisle": {}, "shelf": {},
}

// MinTermLength is the number of characters a term must exceed to be searched.
const MinTermLength = 2

// Clean removes whole-word stop words from an already normalized query.
func Clean(normalized string) string {
	words := strings.Fields(normalized)
	var kept []string
	for _, w := range words {
		if _, stop := StopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Terms splits a cleaned query into the words longer than MinTermLength.
func Terms(cleaned string) []string {
	var terms []string
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) > MinTermLength {
			terms = append(terms, w)
		}
	}
	return terms
}

// Words splits a field value into lowercase words with hyphens removed,
// so "T-Shirt" yields "tshirt".
func Words(s string) []string {
	fields := strings.Fields(Normalize(s))
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, "-", "")
	}
	return fields
}
