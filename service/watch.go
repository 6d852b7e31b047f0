package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/digestius/corpus"
	"github.com/viant/digestius/matching"
)

// DefaultDebounce is how long the watcher waits for more changes before summarizing.
const DefaultDebounce = 500 * time.Millisecond

type watchedCorpus struct {
	spec    CorpusSpec
	root    string
	matcher *matching.Manager
}

// Watch summarizes corpora once, then again whenever their documents change.
// Only local corpora can be watched; it returns when ctx is done.
func (s *Service) Watch(ctx context.Context, req WatchRequest) error {
	if len(req.Corpora) == 0 {
		return fmt.Errorf("at least one corpus is required")
	}
	debounce := req.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logf := req.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	var watched []*watchedCorpus
	for _, spec := range req.Corpora {
		w, err := newWatchedCorpus(spec)
		if err != nil {
			return err
		}
		if err := w.addWatches(watcher, w.root, logf); err != nil {
			return err
		}
		watched = append(watched, w)
	}

	run := func(specs []CorpusSpec, onlyChanged bool) {
		reports, err := s.Summarize(ctx, SummarizeRequest{Corpora: specs, OnlyChanged: onlyChanged, Logf: logf, Progress: req.Progress})
		if err != nil && ctx.Err() == nil {
			logf("watch summarize failed err=%v", err)
		}
		if req.OnRun != nil {
			req.OnRun(reports, err)
		}
	}
	run(req.Corpora, false)
	logf("watching corpora=%d debounce=%s", len(watched), debounce)

	pending := map[string]*watchedCorpus{}
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w := owner(watched, event.Name)
			if w == nil {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addWatches(watcher, event.Name, logf); err != nil {
						logf("watch add failed path=%s err=%v", event.Name, err)
					}
				}
			}
			pending[w.spec.Name] = w
			fire = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf("watch error err=%v", err)
		case <-fire:
			fire = nil
			var specs []CorpusSpec
			for _, w := range watched {
				if pending[w.spec.Name] != nil {
					specs = append(specs, w.spec)
				}
			}
			pending = map[string]*watchedCorpus{}
			run(specs, true)
		}
	}
}

func newWatchedCorpus(spec CorpusSpec) (*watchedCorpus, error) {
	location, err := corpus.NormalizeLocation(spec.Path)
	if err != nil {
		return nil, err
	}
	if url.Scheme(location, file.Scheme) != file.Scheme {
		return nil, fmt.Errorf("corpus %s: watch supports local corpora only: %s", spec.Name, spec.Path)
	}
	root := filepath.Clean(filepath.FromSlash(url.Path(location)))
	return &watchedCorpus{spec: spec, root: root, matcher: matching.New(matchOptions(spec)...)}, nil
}

// addWatches watches dir and its subdirectories, skipping excluded ones.
func (w *watchedCorpus) addWatches(watcher *fsnotify.Watcher, dir string, logf func(string, ...any)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel := w.relative(path); rel != "" && w.matcher.IsExcludedDir(rel) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			logf("watch add failed path=%s err=%v", path, err)
		}
		return nil
	})
}

func (w *watchedCorpus) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func owner(watched []*watchedCorpus, path string) *watchedCorpus {
	var best *watchedCorpus
	for _, w := range watched {
		if path != w.root && !strings.HasPrefix(path, w.root+string(filepath.Separator)) {
			continue
		}
		if best == nil || len(w.root) > len(best.root) {
			best = w
		}
	}
	return best
}
