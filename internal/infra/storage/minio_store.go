package storage

import (
	"bytes"
	"context"
	"net/url"

	"estate/config"
	"estate/internal/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore stores listing files in a MinIO or S3-compatible bucket.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStore connects to the configured endpoint and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.MinioConfig, publicBase string) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("minio bucket is required")
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid minio endpoint")
	}
	endpoint := u.Host
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}
	useSSL := cfg.UseSSL || u.Scheme == "https"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check minio bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, errors.Wrap(err, "create minio bucket")
		}
	}

	if publicBase == "" {
		publicBase = u.Scheme + "://" + endpoint + "/" + cfg.Bucket
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, publicBase: publicBase}, nil
}

// Upload writes data under path and returns its public URL.
func (s *MinioStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "put object %s", path)
	}

	return s.PublicURL(path), nil
}

// Remove deletes every path, skipping objects that are already gone.
func (s *MinioStore) Remove(ctx context.Context, paths []string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := s.client.RemoveObject(ctx, s.bucket, p, minio.RemoveObjectOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
			errs = append(errs, errors.Wrapf(err, "remove object %s", p))
		}
	}

	return errors.Join(errs...)
}

// PublicURL returns the public URL of path.
func (s *MinioStore) PublicURL(path string) string {
	return publicURL(s.publicBase, path)
}

// Close is a no-op; the minio client holds no resources that need releasing.
func (s *MinioStore) Close() error {
	return nil
}
