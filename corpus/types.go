package corpus

import (
	"github.com/viant/digestius/proposal"
)

// Request defines inputs for processing a corpus
type Request struct {
	Root     string
	Kind     proposal.Kind
	Tiers    []proposal.Tier // Empty means all tiers
	Logf     func(format string, args ...any)
	Progress func(tier string, current, total int, path string)
}

// Stats summarizes the processing of one tier
type Stats struct {
	Candidates int
	Summarized int
	Skipped    int
	Failed     int
	Tokens     int
}

// Result holds one artifact per processed tier
type Result struct {
	Kind      proposal.Kind
	Artifacts []*Artifact
	Documents int // Candidates discovered
	Changed   int // Candidates new or changed since the previous run on the same cache
	Removed   int // Cached documents no longer present
}
