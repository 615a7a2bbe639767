package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore reads and writes objects addressed by key.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
