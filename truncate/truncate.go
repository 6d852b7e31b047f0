// Package truncate bounds free text to an approximate token budget.
//
// Tokens are approximated as 1.3 per whitespace delimited word. The ratio is
// a fixed heuristic rather than a tokenizer, and digests depend on it for
// byte-stable output.
package truncate

import (
	"math"
	"strings"
)

// TokensPerWord is the approximation ratio.
const TokensPerWord = 1.3

// WordLimit returns floor(maxTokens/1.3), or 0 for a non-positive budget.
func WordLimit(maxTokens int) int {
	if maxTokens <= 0 {
		return 0
	}
	return int(float64(maxTokens) / TokensPerWord)
}

// Truncate keeps the first WordLimit(maxTokens) words joined by single spaces.
func Truncate(text string, maxTokens int) string {
	limit := WordLimit(maxTokens)
	if limit == 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " ")
}

// Estimate approximates the token count of text.
func Estimate(text string) int {
	return int(math.Floor(float64(len(strings.Fields(text))) * TokensPerWord))
}
