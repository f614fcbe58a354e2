// Package storage abstracts the blob-storage collaborator that holds
// uploaded files. The service only hands out opaque keys and URLs.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// BlobStore stores and removes uploaded blobs by opaque key.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Delete(ctx context.Context, key string) error
}

// DiskStore keeps blobs in a local directory, one file per key.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures the directory exists and returns a DiskStore.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the blob and returns the byte count.
func (s *DiskStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return 0, err
	}
	return n, f.Close()
}

// Delete removes the blob. A missing blob is not an error; the metadata
// row is authoritative.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
