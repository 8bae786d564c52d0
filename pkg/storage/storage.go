package storage

import (
	"context"
	"io"
)

// Storage saves uploaded binaries under a category, reads them back by the
// returned path, and deletes by path. Nothing else is promised.
type Storage interface {
	Save(ctx context.Context, category, filename string, body io.Reader) (path string, err error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
