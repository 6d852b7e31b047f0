package corpus

import (
	"github.com/viant/digestius/corpus/cache"
	"github.com/viant/digestius/matching/option"
)

// Option configures a Processor
type Option func(*Processor)

// WithFS sets the storage service
func WithFS(fs Service) Option {
	return func(p *Processor) {
		if fs != nil {
			p.fs = fs
		}
	}
}

// WithMatchOptions adds candidate matching options; the kind marker is always applied
func WithMatchOptions(opts ...option.Option) Option {
	return func(p *Processor) {
		p.matchOptions = append(p.matchOptions, opts...)
	}
}

// WithWorkers sets how many documents of a tier are summarized concurrently
func WithWorkers(workers int) Option {
	return func(p *Processor) {
		p.workers = workers
	}
}

// WithCache sets a document cache shared across runs
func WithCache(entries *cache.Entries) Option {
	return func(p *Processor) {
		if entries != nil {
			p.cache = entries
		}
	}
}
