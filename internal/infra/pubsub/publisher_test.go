package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_PublishListingEvent(t *testing.T) {
	var got PubSubPushMessage
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	event := &service.ListingEvent{
		RequestID:     "req-1",
		Event:         service.EventListingCreated,
		ListingID:     "listing-1",
		UserID:        "user-1",
		DevelopmentID: "dev-1",
		AccountType:   "developer",
		ListingStatus: "active",
		OccurredAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishListingEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, map[string]string{
		"event":          service.EventListingCreated,
		"listing_id":     "listing-1",
		"development_id": "dev-1",
		"account_type":   "developer",
		"request_id":     "req-1",
	}, got.Message.Attributes)
	assert.NotEmpty(t, got.Message.MessageID)
	assert.Equal(t, "listing-1", got.Message.OrderingKey)

	raw, err := base64.StdEncoding.DecodeString(got.Message.Data)
	require.NoError(t, err)
	var decoded service.ListingEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable\n"))
	}))
	t.Cleanup(srv.Close)

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	err := publisher.PublishListingEvent(context.Background(), &service.ListingEvent{Event: service.EventListingCreated})

	assert.ErrorContains(t, err, "status 503: database unavailable")
}

func TestEventAttributes_OmitsEmptyOptionalFields(t *testing.T) {
	attrs := eventAttributes(&service.ListingEvent{Event: service.EventListingDeleted, ListingID: "l"})

	assert.Equal(t, map[string]string{"event": service.EventListingDeleted, "listing_id": "l"}, attrs)
}

func TestNoopPublisher(t *testing.T) {
	p := &noopPublisher{logger: discardLogger()}

	assert.NoError(t, p.PublishListingEvent(context.Background(), &service.ListingEvent{}))
	assert.NoError(t, p.Close())
}

type recordingPublisher struct {
	got      *service.ListingEvent
	deadline bool
	err      error
}

func (p *recordingPublisher) PublishListingEvent(ctx context.Context, event *service.ListingEvent) error {
	p.got = event
	_, p.deadline = ctx.Deadline()

	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestStampedPublisher(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	t.Run("fills occurred_at and request id", func(t *testing.T) {
		next := &recordingPublisher{}
		p := newStampedPublisher(next, discardLogger())
		p.now = func() time.Time { return now }
		ctx := deliverycontext.WithRequestID(context.Background(), "req-ctx")
		event := &service.ListingEvent{Event: service.EventListingCreated, ListingID: "l-1"}

		require.NoError(t, p.PublishListingEvent(ctx, event))

		assert.Equal(t, now, next.got.OccurredAt)
		assert.Equal(t, "req-ctx", next.got.RequestID)
		assert.True(t, next.deadline)
		assert.True(t, event.OccurredAt.IsZero(), "caller's event is not mutated")
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		next := &recordingPublisher{}
		p := newStampedPublisher(next, discardLogger())
		occurred := now.Add(-time.Hour)

		require.NoError(t, p.PublishListingEvent(context.Background(), &service.ListingEvent{
			Event: service.EventListingDeleted, ListingID: "l-1", RequestID: "req-event", OccurredAt: occurred,
		}))

		assert.Equal(t, occurred, next.got.OccurredAt)
		assert.Equal(t, "req-event", next.got.RequestID)
	})

	t.Run("rejects incomplete events", func(t *testing.T) {
		next := &recordingPublisher{}
		p := newStampedPublisher(next, discardLogger())

		assert.Error(t, p.PublishListingEvent(context.Background(), &service.ListingEvent{Event: service.EventListingCreated}))
		assert.Nil(t, next.got)
	})

	t.Run("propagates transport errors", func(t *testing.T) {
		p := newStampedPublisher(&recordingPublisher{err: errors.New("unavailable")}, discardLogger())

		assert.Error(t, p.PublishListingEvent(context.Background(), &service.ListingEvent{Event: service.EventListingCreated, ListingID: "l"}))
	})
}
