package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithIngestionDefaults_NilConfig(t *testing.T) {
	cfg := WithIngestionDefaults(nil)

	assert.Equal(t, 30*time.Second, cfg.StepTimeout)
	assert.Equal(t, 4, cfg.UploadConcurrency)
	assert.Equal(t, 20, cfg.MaxMediaFiles)
	assert.Equal(t, 20, cfg.MaxAlbums)
	assert.Equal(t, 50, cfg.MaxAlbumImages)
	assert.Equal(t, 10, cfg.MaxAdditionalFiles)
	assert.Equal(t, "50MB", cfg.MaxFileSize)
}

func TestWithIngestionDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := WithIngestionDefaults(&IngestionConfig{
		StepTimeout:       5 * time.Second,
		UploadConcurrency: 1,
		MaxMediaFiles:     3,
		MaxFileSize:       "2MB",
	})

	assert.Equal(t, 5*time.Second, cfg.StepTimeout)
	assert.Equal(t, 1, cfg.UploadConcurrency)
	assert.Equal(t, 3, cfg.MaxMediaFiles)
	assert.Equal(t, 20, cfg.MaxAlbums)
	assert.Equal(t, "2MB", cfg.MaxFileSize)
}
