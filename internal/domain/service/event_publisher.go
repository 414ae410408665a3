package service

import (
	"context"
	"time"
)

// Listing lifecycle event names.
const (
	EventListingCreated       = "listing.created"
	EventListingDeleted       = "listing.deleted"
	EventListingStatusChanged = "listing.status_changed"
)

// ListingEvent is published after a listing lifecycle edge and consumed by the stats worker.
type ListingEvent struct {
	RequestID     string    `json:"request_id,omitempty"` // For distributed tracing
	Event         string    `json:"event"`
	ListingID     string    `json:"listing_id"`
	UserID        string    `json:"user_id"`
	DevelopmentID string    `json:"development_id,omitempty"`
	AccountType   string    `json:"account_type"`
	ListingStatus string    `json:"listing_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishListingEvent publishes a listing lifecycle event for async processing
	PublishListingEvent(ctx context.Context, event *ListingEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
