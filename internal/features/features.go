// Package features turns free text into lexical features for matching and
// learning. The extraction rules here are a shared contract: the similarity
// scorer and the learned-pattern store both key off exactly this output, so
// any change to tokenization invalidates previously learned patterns.
package features

import (
	"strings"
	"unicode"
)

// Tokens splits text into lowercased words longer than two characters.
// Punctuation is stripped in place, so "don't" becomes "dont". No stemming,
// no stop-word removal.
func Tokens(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, w := range strings.Fields(b.String()) {
		if len(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Extract returns the full feature sequence for text: every token, then every
// contiguous 2-token window, then every contiguous 3-token window, n-grams
// joined by a single space. Output order is deterministic for a given input.
func Extract(text string) []string {
	tokens := Tokens(text)

	feats := make([]string, 0, len(tokens)*3)
	feats = append(feats, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		feats = append(feats, tokens[i]+" "+tokens[i+1])
	}
	for i := 0; i+2 < len(tokens); i++ {
		feats = append(feats, tokens[i]+" "+tokens[i+1]+" "+tokens[i+2])
	}
	return feats
}

// Set converts a feature sequence into a membership set.
func Set(feats []string) map[string]struct{} {
	set := make(map[string]struct{}, len(feats))
	for _, f := range feats {
		set[f] = struct{}{}
	}
	return set
}

// Similarity computes the Jaccard index of the feature sets of a and b.
// Returns 0 when both sets are empty.
func Similarity(a, b string) float64 {
	sa := Set(Extract(a))
	sb := Set(Extract(b))

	if len(sa) == 0 && len(sb) == 0 {
		return 0.0
	}

	intersection := 0
	for f := range sa {
		if _, ok := sb[f]; ok {
			intersection++
		}
	}

	union := len(sa) + len(sb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
