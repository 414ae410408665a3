package storage

import (
	"context"

	"estate/internal/errors"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// BucketStore stores listing files in any bucket gocloud.dev can open by URL.
type BucketStore struct {
	bucket     *blob.Bucket
	publicBase string
}

// OpenBucketStore opens the bucket behind bucketURL (file://, mem://, s3://, gs://, azblob://).
func OpenBucketStore(ctx context.Context, bucketURL, publicBase string) (*BucketStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", redactURL(bucketURL))
	}

	return NewBucketStore(bucket, publicBase), nil
}

// NewBucketStore wraps an already opened bucket.
func NewBucketStore(bucket *blob.Bucket, publicBase string) *BucketStore {
	return &BucketStore{bucket: bucket, publicBase: publicBase}
}

// Upload writes data under path and returns its public URL.
func (s *BucketStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, path, data, opts); err != nil {
		return "", errors.Wrapf(err, "write blob %s", path)
	}

	return s.PublicURL(path), nil
}

// Remove deletes every path, skipping objects that are already gone.
func (s *BucketStore) Remove(ctx context.Context, paths []string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.bucket.Delete(ctx, p); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			errs = append(errs, errors.Wrapf(err, "delete blob %s", p))
		}
	}

	return errors.Join(errs...)
}

// PublicURL returns the public URL of path.
func (s *BucketStore) PublicURL(path string) string {
	return publicURL(s.publicBase, path)
}

// Exists reports whether path is stored.
func (s *BucketStore) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, path)

	return ok, errors.WithStack(err)
}

// Close releases the bucket.
func (s *BucketStore) Close() error {
	return errors.WithStack(s.bucket.Close())
}
