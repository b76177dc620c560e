// Package wordfreq counts recurring words across translated titles.
package wordfreq

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// MinWordLength is the shortest token that is counted.
const MinWordLength = 3

var punctuation = regexp.MustCompile("[.,;:!?¡¿\"'“”‘’«»()\\[\\]{}…—–\\-_/\\\\|*&^%$#@+=<>~`]")

// WordCount is one word and how often it appeared.
type WordCount struct {
	Word  string
	Count int
}

// Tokenize lower-cases the joined titles, strips punctuation and drops
// tokens shorter than MinWordLength runes.
func Tokenize(titles []string) []string {
	text := strings.ToLower(strings.Join(titles, " "))
	text = punctuation.ReplaceAllString(text, "")

	fields := strings.Fields(text)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= MinWordLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Count returns how many times each token occurs.
func Count(titles []string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range Tokenize(titles) {
		counts[tok]++
	}
	return counts
}

// Analyze returns the words occurring more than threshold times, most
// frequent first. Equal counts are ordered by word, byte-wise ascending.
func Analyze(titles []string, threshold int) []WordCount {
	var out []WordCount
	for word, n := range Count(titles) {
		if n > threshold {
			out = append(out, WordCount{Word: word, Count: n})
		}
	}

	slices.SortFunc(out, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	return out
}
