package service

import (
	"time"

	"github.com/viant/digestius/corpus"
	"github.com/viant/digestius/proposal"
)

// CorpusSpec defines a proposal corpus with its output location and filters.
type CorpusSpec struct {
	Name         string
	Path         string
	Kind         proposal.Kind
	Output       string
	Tiers        []proposal.Tier
	Include      []string
	Exclude      []string
	MaxSizeBytes int64
	Extensions   []string // Accepted text extensions, .md .markdown .txt when empty
	// DefaultExclusions skips VCS metadata, dependency trees and editor backups.
	DefaultExclusions bool
}

// ResolveCorporaRequest specifies how corpora should be resolved.
type ResolveCorporaRequest struct {
	Corpus       string
	Path         string
	Type         string
	Output       string
	Tiers        []string
	ConfigPath   string
	All          bool
	Include      []string
	Exclude      []string
	MaxSizeBytes int64
	Extensions   []string
	// DefaultExclusions is or-ed with the config corpus setting.
	DefaultExclusions bool
}

// SummarizeRequest defines inputs for summarizing corpora.
type SummarizeRequest struct {
	Corpora []CorpusSpec
	// OnlyChanged skips writing when no document changed since the previous run of this service.
	OnlyChanged bool
	Logf        func(format string, args ...any)
	Progress    func(corpus, tier string, current, total int, path string)
}

// WatchRequest defines inputs for watching corpora.
type WatchRequest struct {
	Corpora  []CorpusSpec
	Debounce time.Duration
	Logf     func(format string, args ...any)
	Progress func(corpus, tier string, current, total int, path string)
	// OnRun is called after every summarize pass triggered by the watcher.
	OnRun func(reports []*Report, err error)
}

// Report describes the outcome of summarizing one corpus.
type Report struct {
	RunID     string
	Corpus    string
	Kind      proposal.Kind
	Result    *corpus.Result
	Written   []string
	Unchanged bool
	Elapsed   time.Duration
}
