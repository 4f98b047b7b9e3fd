package infra

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned when a key does not exist in the store.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists attachment contents under generated keys.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, content []byte) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
