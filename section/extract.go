// Package section locates level-two markdown sections in a proposal body.
package section

import (
	"strings"

	"github.com/viant/digestius/proposal"
)

const marker = "## "

// Found is one queried section.
type Found struct {
	Section proposal.Section
	Text    string
	Present bool
}

// Empty reports whether the section should be left out of a digest.
func (f Found) Empty() bool {
	return !f.Present || f.Text == ""
}

// Extract returns the trimmed body between the "## heading" line and the next
// "## " line (or end of content). ok is false when no such heading exists.
func Extract(content, heading string) (text string, ok bool) {
	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSuffix(line, "\r") == marker+heading {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return "", false
	}
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], marker) {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n")), true
}

// ExtractAll queries every digest section in order.
func ExtractAll(content string) []Found {
	var ret []Found
	for _, s := range proposal.Sections() {
		text, ok := Extract(content, s.Heading())
		ret = append(ret, Found{Section: s, Text: text, Present: ok})
	}
	return ret
}
