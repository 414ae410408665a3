// Package constants holds configuration values shared across layers.
package constants

const (
	// EnvDevelop is the local development environment name.
	EnvDevelop = "develop"

	// PubSubProviderLocal pushes events to a local HTTP endpoint.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle publishes events to Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"

	// StorageProviderGoCloud stores files in a gocloud.dev bucket.
	StorageProviderGoCloud = "gocloud"
	// StorageProviderMinio stores files in a MinIO / S3-compatible bucket.
	StorageProviderMinio = "minio"
)
