package storage

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"estate/config"
	"estate/internal/domain/service"
	"estate/internal/errors"

	"golang.org/x/time/rate"
)

const (
	defaultDownloadTimeout  = 15 * time.Second
	defaultDownloadMaxBytes = 10 << 20
	defaultUserAgent        = "estate-ingest/1.0"
)

// ErrDownloadTooLarge is returned when a remote body exceeds the configured limit.
var ErrDownloadTooLarge = errors.New("remote file exceeds size limit")

// HTTPDownloader fetches remote files with a shared rate limit.
type HTTPDownloader struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBytes  int64
}

// NewHTTPDownloader creates the downloader used for caching amenity photos.
func NewHTTPDownloader(cfg *config.Config) service.Downloader {
	return newHTTPDownloader(cfg.Downloader, http.DefaultTransport)
}

func newHTTPDownloader(cfg *config.DownloaderConfig, transport http.RoundTripper) *HTTPDownloader {
	if cfg == nil {
		cfg = &config.DownloaderConfig{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultDownloadMaxBytes
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPDownloader{
		client:    &http.Client{Timeout: timeout, Transport: transport},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Download returns the body and content type of url.
func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, string, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, "", errors.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "build download request")
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", errors.Wrapf(err, "download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", errors.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, "", errors.Wrap(err, "read download body")
	}
	if int64(len(body)) > d.maxBytes {
		return nil, "", errors.WithStack(ErrDownloadTooLarge)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}

	return body, contentType, nil
}
