package pubsub

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/service"

	"github.com/pkg/errors"
)

// publishTimeout bounds one publish so analytics never stalls an ingestion response.
const publishTimeout = 10 * time.Second

// eventAttributes builds the message attributes used for subscription filters and tracing.
func eventAttributes(event *service.ListingEvent) map[string]string {
	attributes := map[string]string{
		"event":      event.Event,
		"listing_id": event.ListingID,
	}
	if event.DevelopmentID != "" {
		attributes["development_id"] = event.DevelopmentID
	}
	if event.AccountType != "" {
		attributes["account_type"] = event.AccountType
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}

// orderingKey keeps every event of one listing in publish order.
func orderingKey(event *service.ListingEvent) string {
	return event.ListingID
}

// stampedPublisher rejects incomplete events and fills occurred_at and request_id
// before handing the event to the transport.
type stampedPublisher struct {
	next   service.EventPublisher
	now    func() time.Time
	logger *slog.Logger
}

func newStampedPublisher(next service.EventPublisher, logger *slog.Logger) *stampedPublisher {
	return &stampedPublisher{next: next, now: time.Now, logger: logger}
}

func (p *stampedPublisher) PublishListingEvent(ctx context.Context, event *service.ListingEvent) error {
	if event == nil || event.Event == "" || event.ListingID == "" {
		return errors.New("listing event requires event and listing_id")
	}

	stamped := *event
	if stamped.OccurredAt.IsZero() {
		stamped.OccurredAt = p.now().UTC()
	}
	if stamped.RequestID == "" {
		stamped.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.next.PublishListingEvent(ctx, &stamped); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, p.logger).Warn("Listing event publish failed",
			slog.String("event", stamped.Event),
			slog.String("listing_id", stamped.ListingID),
			slog.Any("error", err),
		)

		return err
	}

	return nil
}

func (p *stampedPublisher) Close() error {
	return p.next.Close()
}
