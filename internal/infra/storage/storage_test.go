package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestBucketStore_UploadAndRemove(t *testing.T) {
	ctx := context.Background()
	store := NewBucketStore(memblob.OpenBucket(nil), "https://cdn.example.com/files")
	t.Cleanup(func() { _ = store.Close() })

	url, err := store.Upload(ctx, "listings/u/l/media/abc-1.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/files/listings/u/l/media/abc-1.jpg", url)

	ok, err := store.Exists(ctx, "listings/u/l/media/abc-1.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	attrs, err := store.bucket.Attributes(ctx, "listings/u/l/media/abc-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", attrs.ContentType)

	require.NoError(t, store.Remove(ctx, []string{"listings/u/l/media/abc-1.jpg", "missing", ""}))

	ok, err = store.Exists(ctx, "listings/u/l/media/abc-1.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenBucketStore_MemURL(t *testing.T) {
	store, err := OpenBucketStore(context.Background(), "mem://", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	url, err := store.Upload(context.Background(), "a/b.txt", []byte("x"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "a/b.txt", url)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{name: "no base", base: "", path: "a/b.png", want: "a/b.png"},
		{name: "trailing slash", base: "https://x.test/", path: "a/b.png", want: "https://x.test/a/b.png"},
		{name: "base with prefix", base: "https://x.test/bucket", path: "a/b.png", want: "https://x.test/bucket/a/b.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicURL(tt.base, tt.path))
		})
	}
}
