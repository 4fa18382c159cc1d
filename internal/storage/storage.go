// Package storage abstracts the object store holding raw catalog and activity
// files. The core pipeline only ever lists a prefix and fetches individual
// objects; everything else about the store is a collaborator concern.
package storage

import (
	"context"
	"errors"
)

// ErrSourceUnavailable marks listing or fetch failures. It is fatal to the
// batch: the pipeline surfaces it to the caller and claims no partial success.
var ErrSourceUnavailable = errors.New("storage: source unavailable")

// Store yields raw file contents given a path prefix.
//
// List returns object keys in lexicographic order. Extractors rely on that
// ordering to merge per-file results deterministically, so implementations
// must not return keys in arbitrary order.
type Store interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
}
