package middleware

import (
	"strings"

	"estate/internal/delivery/api/response"
	"estate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextKeyUserID      = "userID"
	contextKeyRoles       = "roles"
	contextKeyAccountType = "accountType"

	bearerScheme = "Bearer"
)

// AuthMiddleware authenticates owner-facing routes with the access token.
type AuthMiddleware struct {
	tokens service.TokenVerifier
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokens service.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate validates the bearer token and stores the principal on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authorization header is missing or malformed")
		}

		claims, err := m.tokens.VerifyAccessToken(token)
		if err != nil || claims.UserID == uuid.Nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid or expired token")
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyRoles, claims.Roles)
		c.Set(contextKeyAccountType, claims.AccountType)

		return next(c)
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)

	return token, token != ""
}

// GetUserID returns the authenticated user id.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(contextKeyUserID).(uuid.UUID)

	return id, ok && id != uuid.Nil
}

// GetRoles returns the roles carried by the token.
func GetRoles(c echo.Context) ([]string, bool) {
	roles, ok := c.Get(contextKeyRoles).([]string)

	return roles, ok
}

// GetAccountType returns the account type carried by the token.
func GetAccountType(c echo.Context) string {
	accountType, _ := c.Get(contextKeyAccountType).(string)

	return accountType
}
