package corpus

import (
	"fmt"
	"strings"

	"github.com/viant/digestius/proposal"
	"github.com/viant/digestius/summary"
)

// Artifact is the aggregated output of one tier
type Artifact struct {
	Kind    proposal.Kind
	Tier    proposal.Tier
	Records []*summary.Record
	Stats   Stats
}

// ArtifactName returns {kind}_summaries_{tier}.txt
func ArtifactName(kind proposal.Kind, tier string) string {
	return fmt.Sprintf("%s_summaries_%s.txt", kind, tier)
}

// Name returns the artifact file name
func (a *Artifact) Name() string {
	return ArtifactName(a.Kind, a.Tier.Name)
}

// Content joins records in discovery order, separated by a blank line
func (a *Artifact) Content() string {
	texts := make([]string, 0, len(a.Records))
	for _, record := range a.Records {
		texts = append(texts, record.Text)
	}
	return strings.Join(texts, "\n\n")
}
