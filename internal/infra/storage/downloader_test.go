package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"estate/config"
	"estate/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDownloader_Download(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/typed":
			w.Header().Set("Content-Type", "image/jpeg; charset=binary")
			_, _ = w.Write([]byte("jpeg"))
		case "/sniff":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(png)
		case "/big":
			_, _ = w.Write(make([]byte, 64))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	d := newHTTPDownloader(&config.DownloaderConfig{UserAgent: "test-agent", MaxBytes: 32}, http.DefaultTransport)
	ctx := context.Background()

	body, ct, err := d.Download(ctx, srv.URL+"/typed")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), body)
	assert.Equal(t, "image/jpeg", ct)

	_, ct, err = d.Download(ctx, srv.URL+"/sniff")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, _, err = d.Download(ctx, srv.URL+"/big")
	assert.True(t, errors.Is(err, ErrDownloadTooLarge))

	_, _, err = d.Download(ctx, srv.URL+"/missing")
	assert.Error(t, err)
}

func TestHTTPDownloader_RespectsCancelledContext(t *testing.T) {
	d := newHTTPDownloader(&config.DownloaderConfig{RateLimit: 0.001, RateBurst: 1}, http.DefaultTransport)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := d.Download(ctx, "http://127.0.0.1:1/never")
	assert.Error(t, err)
}
