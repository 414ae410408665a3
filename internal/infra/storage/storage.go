// Package storage provides the blob store used for listing files.
package storage

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"estate/config"
	"estate/internal/domain/constants"
	"estate/internal/domain/service"
	"estate/internal/errors"

	"go.uber.org/fx"
)

// BlobStoreParams holds dependencies for the BlobStore, injected by Fx
type BlobStoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

type closableStore interface {
	service.BlobStore
	Close() error
}

// NewBlobStore creates a BlobStore based on configuration
func NewBlobStore(params BlobStoreParams) (service.BlobStore, error) {
	cfg := params.Config.Storage
	if cfg == nil {
		return nil, errors.New("storage is not configured")
	}

	var store closableStore
	var err error

	switch cfg.Provider {
	case constants.StorageProviderGoCloud, "":
		if cfg.BucketURL == "" {
			return nil, errors.New("bucket URL is required for gocloud provider")
		}
		params.Logger.Info("Using gocloud blob store", slog.String("bucket_url", redactURL(cfg.BucketURL)))

		store, err = OpenBucketStore(params.Ctx, cfg.BucketURL, cfg.PublicBaseURL)
	case constants.StorageProviderMinio:
		if cfg.Minio == nil {
			return nil, errors.New("minio settings are required for minio provider")
		}
		params.Logger.Info("Using MinIO blob store",
			slog.String("endpoint", cfg.Minio.Endpoint),
			slog.String("bucket", cfg.Minio.Bucket),
		)

		store, err = NewMinioStore(params.Ctx, cfg.Minio, cfg.PublicBaseURL)
	default:
		return nil, errors.Errorf("unknown storage provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing blob store")

			return store.Close()
		},
	})

	return store, nil
}

// publicURL joins the configured public base with an object path.
func publicURL(base, path string) string {
	if base == "" {
		return path
	}
	joined, err := url.JoinPath(base, strings.Split(path, "/")...)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + path
	}

	return joined
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	return u.Redacted()
}
