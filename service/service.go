package service

import (
	"sync"

	"github.com/viant/digestius/corpus"
	"github.com/viant/digestius/corpus/cache"
	"github.com/viant/digestius/matching/option"
	"github.com/viant/digestius/metrics"
	"github.com/viant/digestius/store"
)

// Option configures the Service.
type Option func(*Service)

// WithStore persists digests of every run.
func WithStore(s *store.Store) Option {
	return func(svc *Service) { svc.store = s }
}

// WithMetrics records run metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithMetricsFile writes metrics as a textfile after every summarize call.
func WithMetricsFile(path string) Option {
	return func(svc *Service) { svc.metricsFile = path }
}

// WithFS sets the storage service used to read corpora and write artifacts.
func WithFS(fs corpus.Service) Option {
	return func(svc *Service) { svc.fs = fs }
}

// WithWorkers sets how many documents of a tier are summarized concurrently.
func WithWorkers(workers int) Option {
	return func(svc *Service) { svc.workers = workers }
}

// Service exposes reusable summarize and watch operations.
type Service struct {
	store       *store.Store
	metrics     *metrics.Metrics
	metricsFile string
	fs          corpus.Service
	workers     int

	mu         sync.Mutex
	processors map[string]*corpus.Processor
	runMu      sync.Mutex
}

// NewService creates a new Service.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{processors: map[string]*corpus.Processor{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = corpus.NewAFS()
	}
	if s.metricsFile != "" && s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s, nil
}

// Close releases the owned store (if any).
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// processor returns the processor of a corpus; its document cache lives as long as the service.
func (s *Service) processor(spec CorpusSpec) *corpus.Processor {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := spec.Name + "|" + spec.Kind.String() + "|" + spec.Path
	if p, ok := s.processors[key]; ok {
		return p
	}
	p := corpus.New(
		corpus.WithFS(s.fs),
		corpus.WithWorkers(s.workers),
		corpus.WithCache(cache.NewEntries()),
		corpus.WithMatchOptions(matchOptions(spec)...),
	)
	s.processors[key] = p
	return p
}

func matchOptions(spec CorpusSpec) []option.Option {
	var opts []option.Option
	if spec.DefaultExclusions {
		opts = append(opts, option.WithDefaultExclusionPatterns())
	}
	if len(spec.Extensions) > 0 {
		opts = append(opts, option.WithExtensions(spec.Extensions...))
	}
	if len(spec.Include) > 0 {
		opts = append(opts, option.WithInclusionPatterns(spec.Include...))
	}
	if len(spec.Exclude) > 0 {
		opts = append(opts, option.WithExclusionPatterns(spec.Exclude...))
	}
	if spec.MaxSizeBytes > 0 {
		if spec.MaxSizeBytes > int64(int(^uint(0)>>1)) {
			spec.MaxSizeBytes = int64(int(^uint(0) >> 1))
		}
		opts = append(opts, option.WithMaxFileSize(int(spec.MaxSizeBytes)))
	}
	return opts
}
