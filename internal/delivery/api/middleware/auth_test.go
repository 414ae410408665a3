package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"estate/internal/domain/entity"
	"estate/internal/domain/service"
	"estate/internal/errors"
	mockService "estate/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{name: "canonical", header: "Bearer abc", want: "abc", wantOK: true},
		{name: "case insensitive scheme", header: "bearer abc", want: "abc", wantOK: true},
		{name: "surrounding spaces", header: "  Bearer   abc  ", want: "abc", wantOK: true},
		{name: "empty", header: "", wantOK: false},
		{name: "scheme only", header: "Bearer", wantOK: false},
		{name: "scheme and blank", header: "Bearer   ", wantOK: false},
		{name: "other scheme", header: "Basic abc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	userID := uuid.New()
	tokens := mockService.NewMockTokenVerifier(t)
	tokens.On("VerifyAccessToken", "good").
		Return(&service.Claims{UserID: userID, AccountType: entity.AccountTypeDeveloper, Roles: []string{"owner"}}, nil)
	tokens.On("VerifyAccessToken", "bad").Return(nil, errors.New("expired"))

	m := NewAuthMiddleware(tokens)
	e := echo.New()

	run := func(header string) (*httptest.ResponseRecorder, echo.Context, bool) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		called := false
		err := m.Authenticate(func(c echo.Context) error {
			called = true

			return c.NoContent(http.StatusNoContent)
		})(c)
		require.NoError(t, err)

		return rec, c, called
	}

	rec, c, called := run("Bearer good")
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	gotID, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, entity.AccountTypeDeveloper, GetAccountType(c))
	roles, ok := GetRoles(c)
	assert.True(t, ok)
	assert.Equal(t, []string{"owner"}, roles)

	rec, _, called = run("Bearer bad")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _, called = run("")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
