package option

import (
	"strings"
)

// Options controls which corpus files are summarization candidates
type Options struct {

	// Marker is a lower-case substring a candidate file name must contain
	Marker string

	// Extensions lists accepted text document extensions (with dot)
	Extensions []string

	// Exclusions contains patterns of files/directories to exclude
	Exclusions []string

	// Inclusions contains patterns of files/directories to include
	Inclusions []string

	// MaxFileSize is the maximum size of files to summarize in bytes
	MaxFileSize int
}

// NewOptions creates a new Options instance with default values
func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if len(options.Extensions) == 0 {
		options.Extensions = []string{".md", ".markdown", ".txt"}
	}
	return options
}

// Option is a function that modifies Options
type Option func(*Options)

// WithMarker sets the file name marker, matched case-insensitively
func WithMarker(marker string) Option {
	return func(o *Options) {
		o.Marker = strings.ToLower(marker)
	}
}

// WithExtensions sets accepted extensions
func WithExtensions(extensions ...string) Option {
	return func(o *Options) {
		for _, ext := range extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			o.Extensions = append(o.Extensions, ext)
		}
	}
}

// WithExclusionPatterns sets exclusion patterns
func WithExclusionPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.Exclusions = append(o.Exclusions, patterns...)
	}
}

// WithMaxFileSize sets the maximum file size
func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

// WithInclusionPatterns adds patterns to include
func WithInclusionPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.Inclusions = append(o.Inclusions, patterns...)
	}
}

// WithDefaultExclusionPatterns excludes VCS metadata, dependency trees and editor backups
func WithDefaultExclusionPatterns() Option {
	return func(m *Options) {
		m.Exclusions = append(m.Exclusions, getDefaultPatterns()...)
	}
}

// getDefaultPatterns returns commonly excluded paths and file patterns
func getDefaultPatterns() []string {
	return []string{
		".git/",
		".github/",
		"node_modules/",
		"vendor/",
		".DS_Store",
		"*.swp",
		"*.bak",
		"*.tmp",
	}
}
