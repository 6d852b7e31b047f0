package matching

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs/url"
	"github.com/viant/digestius/matching/option"
)

// Manager decides which corpus files are summarization candidates
type Manager struct {
	options *option.Options
}

// New creates a new candidate manager with the given options
func New(opts ...option.Option) *Manager {
	return &Manager{options: option.NewOptions(opts...)}
}

// IsCandidate checks whether a corpus relative file path should be summarized
func (m *Manager) IsCandidate(location string, size int) bool {
	p := normalize(location)
	name := strings.ToLower(path.Base(p))
	if m.options.Marker != "" && !strings.Contains(name, m.options.Marker) {
		return false
	}
	if !m.hasExtension(name) {
		return false
	}
	return !m.IsExcluded(p, size)
}

// IsExcluded checks if a path should be excluded based on the patterns
func (m *Manager) IsExcluded(location string, size int) bool {
	if m.options.MaxFileSize > 0 && size > m.options.MaxFileSize {
		return true
	}
	p := normalize(location)
	if len(m.options.Inclusions) > 0 && !m.matchAny(p, m.options.Inclusions) {
		return true
	}
	return m.matchAny(p, m.options.Exclusions)
}

// IsExcludedDir checks whether a whole directory can be skipped
func (m *Manager) IsExcludedDir(location string) bool {
	p := strings.TrimSuffix(normalize(location), "/") + "/"
	for _, pattern := range m.options.Exclusions {
		pattern = strings.TrimSpace(pattern)
		if !strings.HasSuffix(pattern, "/") || strings.HasPrefix(pattern, "#") {
			continue
		}
		if matchPattern(p, pattern) {
			return true
		}
	}
	return false
}

func (m *Manager) hasExtension(name string) bool {
	ext := path.Ext(name)
	for _, candidate := range m.options.Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func (m *Manager) matchAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		if matchPattern(p, pattern) {
			return true
		}
	}
	return false
}

// matchPattern applies gitignore like semantics: a leading slash anchors to
// the corpus root, a trailing slash matches a directory anywhere in the
// path, and a pattern without a slash matches the base name.
func matchPattern(p, pattern string) bool {
	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimSuffix(pattern, "/")
		if strings.HasPrefix(dir, "/") {
			return strings.HasPrefix(p, strings.TrimPrefix(dir, "/")+"/")
		}
		return strings.HasPrefix(p, dir+"/") || strings.Contains(p, "/"+dir+"/")
	}
	if strings.HasPrefix(pattern, "/") {
		ok, _ := doublestar.Match(strings.TrimPrefix(pattern, "/"), p)
		return ok
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, path.Base(p))
		return ok
	}
	if ok, _ := doublestar.Match(pattern, p); ok {
		return true
	}
	ok, _ := doublestar.Match("**/"+pattern, p)
	return ok
}

func normalize(location string) string {
	p := location
	if strings.Contains(p, "://") {
		p = url.Path(p)
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "/")
}
