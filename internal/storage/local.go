package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local serves objects from the local filesystem. A prefix is a directory
// path; keys are the JSON files found beneath it.
type Local struct{}

// NewLocal returns a filesystem-backed Store.
func NewLocal() *Local {
	return &Local{}
}

// List walks the directory tree under prefix and returns every .json file,
// sorted lexicographically.
func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(prefix, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			keys = append(keys, path)
		}
		return nil
	})
	if err != nil {
		// A caller-initiated abort is not a storage outage.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: list %s: %v", ErrSourceUnavailable, prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Fetch reads one object.
func (l *Local) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, key, err)
	}
	return data, nil
}
