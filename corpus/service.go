package corpus

import (
	"context"
	"io"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Service abstracts corpus storage so documents can be read from and
// digests written to local or remote file systems.
type Service interface {
	// List returns objects available at the given location/URI.
	List(ctx context.Context, location string) ([]storage.Object, error)
	// Download returns the content of the given object.
	Download(ctx context.Context, object storage.Object) ([]byte, error)
	// Upload writes content to URL.
	Upload(ctx context.Context, URL string, mode os.FileMode, reader io.Reader) error
	// Create creates a file or directory.
	Create(ctx context.Context, URL string, mode os.FileMode, isDir bool) error
	// Exists checks whether URL exists.
	Exists(ctx context.Context, URL string) (bool, error)
	// Move renames source to dest.
	Move(ctx context.Context, source, dest string) error
	// Delete removes URL.
	Delete(ctx context.Context, URL string) error
}

// afsService is a Service implemented using github.com/viant/afs
type afsService struct {
	svc afs.Service
}

// NewAFS constructs a Service backed by the default AFS service.
func NewAFS() Service {
	return &afsService{svc: afs.New()}
}

func (a *afsService) List(ctx context.Context, location string) ([]storage.Object, error) {
	return a.svc.List(ctx, location)
}

func (a *afsService) Download(ctx context.Context, object storage.Object) ([]byte, error) {
	return a.svc.Download(ctx, object)
}

func (a *afsService) Upload(ctx context.Context, URL string, mode os.FileMode, reader io.Reader) error {
	return a.svc.Upload(ctx, URL, mode, reader)
}

func (a *afsService) Create(ctx context.Context, URL string, mode os.FileMode, isDir bool) error {
	return a.svc.Create(ctx, URL, mode, isDir)
}

func (a *afsService) Exists(ctx context.Context, URL string) (bool, error) {
	return a.svc.Exists(ctx, URL)
}

func (a *afsService) Move(ctx context.Context, source, dest string) error {
	return a.svc.Move(ctx, source, dest)
}

func (a *afsService) Delete(ctx context.Context, URL string) error {
	return a.svc.Delete(ctx, URL)
}
