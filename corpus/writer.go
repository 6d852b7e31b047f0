package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

const lockName = ".digestius.lock"

// Write stores every artifact under output, creating the location when missing.
// Local outputs are guarded by a lock file so concurrent runs never interleave.
func (p *Processor) Write(ctx context.Context, output string, artifacts []*Artifact, logf ...func(string, ...any)) ([]string, error) {
	logger := func(string, ...any) {}
	if len(logf) > 0 && logf[0] != nil {
		logger = logf[0]
	}
	dest, err := NormalizeLocation(output)
	if err != nil {
		return nil, err
	}
	if exists, _ := p.fs.Exists(ctx, dest); !exists {
		if err := p.fs.Create(ctx, dest, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create output %s: %w", dest, err)
		}
	}
	if url.Scheme(dest, file.Scheme) == file.Scheme {
		lock, err := acquireLock(filepath.Join(url.Path(dest), lockName), logger)
		if err != nil {
			return nil, err
		}
		defer lock.release()
	}
	var written []string
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		final := url.Join(dest, artifact.Name())
		if err := p.upload(ctx, final, artifact.Content()); err != nil {
			return written, err
		}
		written = append(written, final)
	}
	return written, nil
}

// upload writes to a temp object first, then moves it over the final one.
func (p *Processor) upload(ctx context.Context, final, content string) error {
	tmp := final + ".tmp"
	if err := p.fs.Upload(ctx, tmp, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", tmp, err)
	}
	if err := p.fs.Move(ctx, tmp, final); err != nil {
		if err2 := p.fs.Upload(ctx, final, file.DefaultFileOsMode, strings.NewReader(content)); err2 != nil {
			_ = p.fs.Delete(ctx, tmp)
			return fmt.Errorf("failed to move artifact and upload fallback: %v / %v", err, err2)
		}
		_ = p.fs.Delete(ctx, tmp)
	}
	return nil
}

var errWouldBlock = errors.New("output is locked")

type outputLock struct {
	f *os.File
}

// acquireLock locks path, waiting for a concurrent writer when one holds it.
func acquireLock(path string, logf func(string, ...any)) (*outputLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock %s: %w", path, err)
	}
	err = lockOutput(f, false)
	if errors.Is(err, errWouldBlock) {
		logf("waiting for output lock path=%s", path)
		err = lockOutput(f, true)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return &outputLock{f: f}, nil
}

func (l *outputLock) release() {
	_ = unlockOutput(l.f)
	_ = l.f.Close()
}
