package generation

import (
	"strings"
	"unicode"
)

// similarityThreshold is the word-overlap ratio above which a candidate is
// rejected as a near-duplicate. Tuned in production; keep as-is.
const similarityThreshold = 0.4

// IsSimilar reports whether the candidate text is a near-duplicate of any of
// the recent texts. Both sides are tokenized into lower-cased word sets and
// compared by |intersection| / max(|candidateWords|, 1); any recent text over
// the threshold flags the candidate. This is a cheap bag-of-words heuristic,
// not semantic similarity.
func IsSimilar(candidate string, recent []string) bool {
	candidateWords := wordSet(candidate)
	if len(candidateWords) == 0 {
		return false
	}

	for _, text := range recent {
		overlap := 0
		for word := range wordSet(text) {
			if _, ok := candidateWords[word]; ok {
				overlap++
			}
		}
		if float64(overlap)/float64(len(candidateWords)) > similarityThreshold {
			return true
		}
	}
	return false
}

// wordSet splits text into lower-cased letter/digit runs.
func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
