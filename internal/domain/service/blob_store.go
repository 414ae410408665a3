package service

import (
	"context"
)

// BlobStore stores listing files by path.
type BlobStore interface {
	// Upload writes data under path and returns its public URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Remove deletes the given paths. Missing objects are not an error.
	Remove(ctx context.Context, paths []string) error

	// PublicURL returns the public URL of path without touching the store.
	PublicURL(path string) string
}

// Downloader fetches remote files, e.g. third-party amenity photos.
type Downloader interface {
	// Download returns the body and content type of url.
	Download(ctx context.Context, url string) ([]byte, string, error)
}
