package context

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWithRequest(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx, reqLogger := WithRequest(context.Background(), base, "req-7")

	assert.Equal(t, "req-7", GetRequestIDFromContext(ctx))
	assert.Same(t, reqLogger, GetLoggerOrDefault(ctx, base))

	reqLogger.Info("hello")
	assert.Contains(t, buf.String(), "request_id=req-7")
}

func TestGetRequestID(t *testing.T) {
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, GetRequestID(c))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c = e.NewContext(req.WithContext(WithRequestID(req.Context(), "from-ctx")), httptest.NewRecorder())
	assert.Equal(t, "from-ctx", GetRequestID(c))

	SetRequestID(c, "from-echo")
	assert.Equal(t, "from-echo", GetRequestID(c))
}

func TestGetLoggerOrDefault_Fallback(t *testing.T) {
	fallback := slog.Default()

	assert.Nil(t, GetLogger(context.Background()))
	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
}
