package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/service"
	"estate/internal/errors"
	mockUsecase "estate/internal/mocks/usecase"
	"estate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestPushHandler(t *testing.T) (*PushHandler, *mockUsecase.MockStatsUsecase) {
	statsUC := mockUsecase.NewMockStatsUsecase(t)

	return &PushHandler{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		statsUC: statsUC,
	}, statsUC
}

func pushBody(t *testing.T, event any, attributes map[string]string) string {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "m-1"
	msg.Subscription = "projects/p/subscriptions/listing-stats"
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func servePush(h *PushHandler, body string, header http.Header) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func TestPushHandler_HandlePush(t *testing.T) {
	event := &service.ListingEvent{
		Event:         service.EventListingCreated,
		ListingID:     "11111111-1111-1111-1111-111111111111",
		UserID:        "22222222-2222-2222-2222-222222222222",
		DevelopmentID: "33333333-3333-3333-3333-333333333333",
		AccountType:   "developer",
		ListingStatus: "active",
	}

	t.Run("processed event is acknowledged", func(t *testing.T) {
		h, statsUC := newTestPushHandler(t)
		statsUC.On("HandleListingEvent", mock.MatchedBy(func(ctx context.Context) bool {
			return deliverycontext.GetRequestIDFromContext(ctx) == "req-attr"
		}), mock.MatchedBy(func(e *service.ListingEvent) bool {
			return e.ListingID == event.ListingID && e.DevelopmentID == event.DevelopmentID
		})).Return(nil)

		rec := servePush(h, pushBody(t, event, map[string]string{"request_id": "req-attr"}), nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("request id falls back to the event", func(t *testing.T) {
		h, statsUC := newTestPushHandler(t)
		withID := *event
		withID.RequestID = "req-event"
		statsUC.On("HandleListingEvent", mock.MatchedBy(func(ctx context.Context) bool {
			return deliverycontext.GetRequestIDFromContext(ctx) == "req-event"
		}), mock.Anything).Return(nil)

		rec := servePush(h, pushBody(t, &withID, nil), nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("transient failure asks for redelivery", func(t *testing.T) {
		h, statsUC := newTestPushHandler(t)
		statsUC.On("HandleListingEvent", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		rec := servePush(h, pushBody(t, event, nil), nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("malformed event is dropped", func(t *testing.T) {
		h, statsUC := newTestPushHandler(t)
		statsUC.On("HandleListingEvent", mock.Anything, mock.Anything).
			Return(errors.Wrap(usecase.ErrMalformedEvent, "user_id"))

		rec := servePush(h, pushBody(t, event, nil), nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("undecodable payloads are rejected", func(t *testing.T) {
		h, _ := newTestPushHandler(t)

		assert.Equal(t, http.StatusBadRequest, servePush(h, `{"message":{"data":"%%%"}}`, nil).Code)

		notJSON := base64.StdEncoding.EncodeToString([]byte("not json"))
		assert.Equal(t, http.StatusBadRequest, servePush(h, `{"message":{"data":"`+notJSON+`"}}`, nil).Code)
	})
}

func TestPushHandler_VerifiesPushToken(t *testing.T) {
	event := &service.ListingEvent{Event: service.EventListingDeleted, ListingID: "l"}

	newVerifying := func(t *testing.T, issuer string, gotAudience *string) (*PushHandler, *mockUsecase.MockStatsUsecase) {
		h, statsUC := newTestPushHandler(t)
		h.verifyPushAuth = true
		h.validateToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
			if gotAudience != nil {
				*gotAudience = audience
			}
			if token != "oidc" {
				return nil, errors.New("invalid signature")
			}

			return &idtoken.Payload{Issuer: issuer, Claims: map[string]any{"email_verified": true}}, nil
		}

		return h, statsUC
	}

	t.Run("missing header", func(t *testing.T) {
		h, _ := newVerifying(t, "accounts.google.com", nil)

		assert.Equal(t, http.StatusUnauthorized, servePush(h, pushBody(t, event, nil), nil).Code)
	})

	t.Run("bad token", func(t *testing.T) {
		h, _ := newVerifying(t, "accounts.google.com", nil)

		rec := servePush(h, pushBody(t, event, nil), http.Header{"Authorization": {"Bearer forged"}})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		h, _ := newVerifying(t, "https://evil.example", nil)

		rec := servePush(h, pushBody(t, event, nil), http.Header{"Authorization": {"Bearer oidc"}})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		var audience string
		h, statsUC := newVerifying(t, "https://accounts.google.com", &audience)
		statsUC.On("HandleListingEvent", mock.Anything, mock.Anything).Return(nil)

		rec := servePush(h, pushBody(t, event, nil), http.Header{"Authorization": {"Bearer oidc"}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://example.com/push", audience)
	})
}
