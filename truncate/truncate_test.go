package truncate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordLimit(t *testing.T) {
	tests := []struct {
		maxTokens int
		expect    int
	}{
		{maxTokens: 128, expect: 98},
		{maxTokens: 256, expect: 196},
		{maxTokens: 512, expect: 393},
		{maxTokens: 32, expect: 24},
		{maxTokens: 64, expect: 49},
		{maxTokens: 128 / 4 * 4, expect: 98},
		{maxTokens: 1, expect: 0},
		{maxTokens: 0, expect: 0},
		{maxTokens: -10, expect: 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expect, WordLimit(tc.maxTokens), "max=%d", tc.maxTokens)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("word ", 200)
	tests := []struct {
		name      string
		text      string
		maxTokens int
		expect    string
	}{
		{name: "short text unchanged", text: "Hello world example text.", maxTokens: 128, expect: "Hello world example text."},
		{name: "whitespace normalized", text: "Hello\n  world\texample", maxTokens: 128, expect: "Hello world example"},
		{name: "cut to limit", text: "a b c d e f", maxTokens: 4, expect: "a b c"},
		{name: "zero budget", text: "a b c", maxTokens: 0, expect: ""},
		{name: "negative budget", text: "a b c", maxTokens: -5, expect: ""},
		{name: "empty text", text: "", maxTokens: 128, expect: ""},
		{name: "long text", text: long, maxTokens: 32, expect: strings.TrimSpace(strings.Repeat("word ", 24))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Truncate(tc.text, tc.maxTokens))
		})
	}
}

func TestTruncate_WordBound(t *testing.T) {
	text := strings.Repeat("lorem ipsum ", 300)
	for _, budget := range []int{1, 2, 13, 32, 64, 128, 256, 512, 1000} {
		got := Truncate(text, budget)
		assert.LessOrEqual(t, len(strings.Fields(got)), WordLimit(budget))
	}
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 5, Estimate("one two three four"))
	assert.Equal(t, 13, Estimate("a b c d e f g h i j"))
}
