package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/digestius/corpus/cache"
	"github.com/viant/digestius/document"
	"github.com/viant/digestius/matching"
	"github.com/viant/digestius/matching/option"
	"github.com/viant/digestius/metadata"
	"github.com/viant/digestius/proposal"
	"github.com/viant/digestius/summary"
	"golang.org/x/sync/errgroup"
)

const movedStatus = "moved"

// Processor turns a proposal corpus into per tier digest artifacts
type Processor struct {
	fs           Service
	matchOptions []option.Option
	workers      int
	cache        *cache.Entries
}

// New creates a processor
func New(opts ...Option) *Processor {
	p := &Processor{fs: NewAFS(), workers: 1}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = cache.NewEntries()
	}
	return p
}

type candidate struct {
	rel    string
	object storage.Object
}

// Process discovers and reads the corpus once, then builds one artifact per tier.
// Per document failures are reported as error records and never abort a run.
func (p *Processor) Process(ctx context.Context, req Request) (*Result, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %v", proposal.ErrUnsupportedKind, req.Kind)
	}
	tiers := req.Tiers
	if len(tiers) == 0 {
		tiers = proposal.Tiers()
	}
	logf := req.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	root, err := NormalizeLocation(req.Root)
	if err != nil {
		return nil, err
	}
	matchOptions := append([]option.Option{}, p.matchOptions...)
	matcher := matching.New(append(matchOptions, option.WithMarker(req.Kind.Marker()))...)
	candidates, err := p.discover(ctx, root, matcher)
	if err != nil {
		return nil, err
	}

	result := &Result{Kind: req.Kind, Documents: len(candidates)}
	entries := make([]*document.Entry, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := p.read(ctx, c)
		if p.cache.Changed(entry.ID, entry.Hash) {
			result.Changed++
		}
		p.cache.Put(entry)
		seen[entry.ID] = true
		entries = append(entries, entry)
	}
	result.Removed = p.cache.Retain(seen)
	logf("read kind=%s root=%s documents=%d changed=%d removed=%d cached=%d", req.Kind, root, result.Documents, result.Changed, result.Removed, p.cache.Len())

	summarizer := summary.New(req.Kind)
	for _, tier := range tiers {
		artifact, err := p.processTier(ctx, summarizer, tier, entries, req, logf)
		if err != nil {
			return nil, err
		}
		logf("tier done kind=%s tier=%s candidates=%d summarized=%d skipped=%d failed=%d tokens=%d",
			req.Kind, tier.Name, artifact.Stats.Candidates, artifact.Stats.Summarized, artifact.Stats.Skipped, artifact.Stats.Failed, artifact.Stats.Tokens)
		result.Artifacts = append(result.Artifacts, artifact)
	}
	return result, nil
}

func (p *Processor) processTier(ctx context.Context, summarizer *summary.Summarizer, tier proposal.Tier, entries []*document.Entry, req Request, logf func(string, ...any)) (*Artifact, error) {
	artifact := &Artifact{Kind: req.Kind, Tier: tier}
	artifact.Stats.Candidates = len(entries)

	var selected []*document.Entry
	for _, entry := range entries {
		if isMoved(entry) {
			logf("skip moved kind=%s tier=%s path=%s", req.Kind, tier.Name, entry.ID)
			artifact.Stats.Skipped++
			continue
		}
		selected = append(selected, entry)
	}

	records := make([]*summary.Record, len(selected))
	if p.workers <= 1 {
		for i, entry := range selected {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records[i] = summarizer.SummarizeEntry(entry, tier.MaxTokens)
			if req.Progress != nil {
				req.Progress(tier.Name, i+1, len(selected), entry.ID)
			}
		}
	} else {
		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(p.workers)
		for i, entry := range selected {
			i, entry := i, entry
			group.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				records[i] = summarizer.SummarizeEntry(entry, tier.MaxTokens)
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
		if req.Progress != nil {
			req.Progress(tier.Name, len(selected), len(selected), "")
		}
	}

	for _, record := range records {
		if record.Failed() {
			logf("error processing kind=%s tier=%s path=%s err=%v", req.Kind, tier.Name, record.Path, record.Err)
			artifact.Stats.Failed++
		} else {
			artifact.Stats.Summarized++
			artifact.Stats.Tokens += record.Tokens
		}
	}
	artifact.Records = records
	return artifact, nil
}

func isMoved(entry *document.Entry) bool {
	if entry.Failed() {
		return false
	}
	meta := metadata.Parse(entry.Document.Content)
	return strings.EqualFold(meta.Text("status", ""), movedStatus)
}

func (p *Processor) read(ctx context.Context, c candidate) *document.Entry {
	entry := &document.Entry{ID: c.rel}
	data, err := p.fs.Download(ctx, c.object)
	if err != nil {
		entry.Err = fmt.Errorf("failed to read %s: %w", c.rel, err)
		return entry
	}
	if entry.Hash, err = cache.Hash(data); err != nil {
		entry.Err = fmt.Errorf("failed to hash %s: %w", c.rel, err)
		return entry
	}
	entry.Document = &document.Document{Path: c.rel, Content: string(data)}
	return entry
}

// discover lists candidate documents recursively, sorted by relative path
func (p *Processor) discover(ctx context.Context, root string, matcher *matching.Manager) ([]candidate, error) {
	var candidates []candidate
	if err := p.walk(ctx, root, root, matcher, &candidates); err != nil {
		return nil, err
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].rel < candidates[j].rel })
	return candidates, nil
}

func (p *Processor) walk(ctx context.Context, root, location string, matcher *matching.Manager, out *[]candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	objects, err := p.fs.List(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", location, err)
	}
	locationPath := trimSlash(url.Path(location))
	for _, object := range objects {
		rel := relativePath(root, object.URL())
		if object.IsDir() {
			if trimSlash(url.Path(object.URL())) == locationPath || rel == "" {
				continue
			}
			if matcher.IsExcludedDir(rel) {
				continue
			}
			if err := p.walk(ctx, root, url.Join(location, object.Name()), matcher, out); err != nil {
				return err
			}
			continue
		}
		if !matcher.IsCandidate(rel, int(object.Size())) {
			continue
		}
		*out = append(*out, candidate{rel: rel, object: object})
	}
	return nil
}

// NormalizeLocation converts OS paths into file URLs, leaving other URLs intact.
func NormalizeLocation(location string) (string, error) {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		var err error
		if norm, err = filepath.Abs(norm); err != nil {
			return "", fmt.Errorf("failed to get absolute path for %s: %w", location, err)
		}
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm, nil
}

func relativePath(root, objectURL string) string {
	base := trimSlash(url.Path(root))
	rel := strings.TrimPrefix(url.Path(objectURL), base)
	return strings.TrimPrefix(rel, "/")
}

func trimSlash(p string) string {
	if len(p) > 1 {
		return strings.TrimSuffix(p, "/")
	}
	return p
}

// Entry returns the cached entry of a corpus relative path
func (p *Processor) Entry(id string) (*document.Entry, bool) {
	return p.cache.Get(id)
}
