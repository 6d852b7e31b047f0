package summary

import (
	"fmt"
	"strings"

	"github.com/viant/digestius/document"
	"github.com/viant/digestius/metadata"
	"github.com/viant/digestius/proposal"
	"github.com/viant/digestius/section"
	"github.com/viant/digestius/truncate"
)

const unknown = "Unknown"

// sectionShares is the fixed number of budget shares, one per digest section.
const sectionShares = 4

// extractSections is replaced in tests to exercise panic recovery.
var extractSections = section.ExtractAll

// Summarizer builds digest records for one proposal kind.
type Summarizer struct {
	kind proposal.Kind
}

// New creates a summarizer
func New(kind proposal.Kind) *Summarizer {
	return &Summarizer{kind: kind}
}

// Identifier resolves the record identifier for kind, or Unknown.
func Identifier(kind proposal.Kind, meta *metadata.Metadata) string {
	return meta.Text(kind.IDField(), unknown)
}

// SectionBudget returns the per-section token budget for a tier budget.
func SectionBudget(maxTokens int) int {
	return maxTokens / sectionShares
}

// SummarizeEntry summarizes a cached entry, turning a read failure into an error record.
func (s *Summarizer) SummarizeEntry(entry *document.Entry, maxTokens int) *Record {
	if entry.Failed() {
		err := entry.Err
		if err == nil {
			err = fmt.Errorf("document %v was not read", entry.ID)
		}
		return ErrorRecord(entry.ID, unknown, err)
	}
	return s.Summarize(entry.Document, maxTokens)
}

// Summarize builds the digest record of doc within maxTokens.
func (s *Summarizer) Summarize(doc *document.Document, maxTokens int) (record *Record) {
	identifier := unknown
	defer func() {
		if r := recover(); r != nil {
			record = ErrorRecord(doc.Path, identifier, fmt.Errorf("%v", r))
		}
	}()
	meta := metadata.ParseFor(doc.Content, s.kind)
	identifier = Identifier(s.kind, meta)

	parts := []string{
		fmt.Sprintf("=== %s-%s ===", s.kind.Prefix(), identifier),
		"TITLE: " + meta.Text("title", unknown),
		"TYPE: " + meta.Text("type", unknown) + " " + meta.Text("category", ""),
		"STATUS: " + meta.Text("status", unknown),
		"CREATED: " + meta.Text("created", unknown),
		"REQUIRES: " + metadata.Join(meta.Requires()) + "\n",
	}
	budget := SectionBudget(maxTokens)
	var tokens int
	for _, found := range extractSections(doc.Content) {
		if found.Empty() {
			continue
		}
		truncated := truncate.Truncate(found.Text, budget)
		tokens += truncate.Estimate(truncated)
		parts = append(parts, found.Section.Label()+":\n"+truncated+"\n")
	}
	return &Record{
		Path:       doc.Path,
		Identifier: identifier,
		Title:      meta.Text("title", unknown),
		Status:     meta.Text("status", unknown),
		Text:       strings.Join(parts, "\n"),
		Tokens:     tokens,
	}
}
