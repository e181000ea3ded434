// Package storage persists generated image binaries in an S3-compatible
// object store.
package storage

import "context"

// UploadResult describes a stored blob, including the decoded dimensions of
// the image it holds.
type UploadResult struct {
	URL    string
	Key    string
	Width  int
	Height int
	Format string
}

type BlobStore interface {
	Upload(ctx context.Context, data []byte) (*UploadResult, error)
	// Delete is best effort; callers log failures and proceed.
	Delete(ctx context.Context, key string) error
}
