package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viant/digestius/corpus"
	"github.com/viant/digestius/store"
)

// Summarize processes every corpus, writes artifacts, persists digests and records metrics.
// Runs are serialized so a watch pass and a direct call never interleave.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) ([]*Report, error) {
	if len(req.Corpora) == 0 {
		return nil, fmt.Errorf("at least one corpus is required")
	}
	s.runMu.Lock()
	defer s.runMu.Unlock()
	logf := req.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	var reports []*Report
	for _, spec := range req.Corpora {
		report, err := s.summarizeCorpus(ctx, spec, req, logf)
		if err != nil {
			return reports, fmt.Errorf("corpus %s: %w", spec.Name, err)
		}
		reports = append(reports, report)
	}
	if s.metricsFile != "" && s.metrics != nil {
		if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
			return reports, fmt.Errorf("write metrics: %w", err)
		}
	}
	return reports, nil
}

func (s *Service) summarizeCorpus(ctx context.Context, spec CorpusSpec, req SummarizeRequest, logf func(string, ...any)) (*Report, error) {
	started := time.Now()
	p := s.processor(spec)
	request := corpus.Request{Root: spec.Path, Kind: spec.Kind, Tiers: spec.Tiers, Logf: logf}
	if req.Progress != nil {
		request.Progress = func(tier string, current, total int, path string) {
			req.Progress(spec.Name, tier, current, total, path)
		}
	}
	result, err := p.Process(ctx, request)
	if err != nil {
		return nil, err
	}
	report := &Report{RunID: uuid.NewString(), Corpus: spec.Name, Kind: spec.Kind, Result: result}
	if req.OnlyChanged && result.Changed == 0 && result.Removed == 0 {
		report.Unchanged = true
		report.Elapsed = time.Since(started)
		logf("summarize corpus=%s (no changes)", spec.Name)
		return report, nil
	}
	if spec.Output != "" {
		if report.Written, err = p.Write(ctx, spec.Output, result.Artifacts, logf); err != nil {
			return nil, err
		}
	}
	report.Elapsed = time.Since(started)
	if s.store != nil {
		run, digests := s.runDigests(p, spec, report, started)
		if err := s.store.SaveRun(ctx, run, digests); err != nil {
			return nil, err
		}
	}
	if s.metrics != nil {
		for _, artifact := range result.Artifacts {
			st := artifact.Stats
			s.metrics.ObserveTier(spec.Kind.String(), artifact.Tier.Name, st.Summarized, st.Skipped, st.Failed, st.Tokens)
		}
		s.metrics.ObserveRun(spec.Kind.String(), report.Elapsed)
	}
	logf("summarize corpus=%s kind=%s run=%s documents=%d changed=%d removed=%d written=%d elapsed=%s",
		spec.Name, spec.Kind, report.RunID, result.Documents, result.Changed, result.Removed, len(report.Written), report.Elapsed.Round(time.Millisecond))
	return report, nil
}

func (s *Service) runDigests(p *corpus.Processor, spec CorpusSpec, report *Report, started time.Time) (store.Run, []store.Digest) {
	result := report.Result
	run := store.Run{
		ID:         report.RunID,
		Corpus:     spec.Name,
		Kind:       spec.Kind.String(),
		Root:       spec.Path,
		Documents:  result.Documents,
		Changed:    result.Changed,
		StartedAt:  started,
		FinishedAt: started.Add(report.Elapsed),
	}
	var digests []store.Digest
	for _, artifact := range result.Artifacts {
		run.Tiers = append(run.Tiers, artifact.Tier.Name)
		run.Failed += artifact.Stats.Failed
		for _, record := range artifact.Records {
			digest := store.Digest{
				Tier:       artifact.Tier.Name,
				Path:       record.Path,
				Identifier: record.Identifier,
				Title:      record.Title,
				Status:     record.Status,
				Tokens:     record.Tokens,
				Failed:     record.Failed(),
				Body:       record.Text,
			}
			if entry, ok := p.Entry(record.Path); ok && !entry.Failed() {
				digest.ContentHash = fmt.Sprintf("%016x", entry.Hash)
			}
			digests = append(digests, digest)
		}
	}
	return run, digests
}
