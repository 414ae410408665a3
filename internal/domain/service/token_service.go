package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by access tokens.
type Claims struct {
	UserID      uuid.UUID
	Roles       []string
	AccountType string
	Type        string
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer credentials. Token issuance lives in another service.
type TokenVerifier interface {
	// VerifyAccessToken checks signature, expiry and token type and returns the principal.
	VerifyAccessToken(tokenString string) (*Claims, error)
}
