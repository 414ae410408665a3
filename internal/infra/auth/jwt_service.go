// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"estate/config"
	"estate/internal/domain/entity"
	"estate/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const accessTokenType = "access"

var (
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid access token")
)

// jwtService verifies HS256 access tokens issued by the account service.
type jwtService struct {
	accessSecret []byte
	leeway       time.Duration
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenVerifier, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}

	return &jwtService{
		accessSecret: []byte(cfg.SecretKey.Access),
		leeway:       30 * time.Second,
	}, nil
}

// VerifyAccessToken checks the token signature, expiry and type, then extracts the principal.
func (s *jwtService) VerifyAccessToken(tokenString string) (*service.Claims, error) {
	mapClaims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, mapClaims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.accessSecret, nil
	}, jwt.WithLeeway(s.leeway), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if tokenType, ok := mapClaims["type"].(string); ok && tokenType != accessTokenType {
		return nil, errors.Wrapf(ErrInvalidToken, "unexpected token type %q", tokenType)
	}

	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.Wrap(ErrInvalidToken, "subject missing")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, "subject is not a uuid")
	}

	claims := &service.Claims{
		UserID:      userID,
		AccountType: entity.AccountTypeIndividual,
		Type:        accessTokenType,
	}
	if accountType, ok := mapClaims["account_type"].(string); ok && accountType != "" {
		claims.AccountType = accountType
	}
	if roles, ok := mapClaims["roles"].([]any); ok {
		for _, r := range roles {
			if role, ok := r.(string); ok {
				claims.Roles = append(claims.Roles, role)
			}
		}
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp
	}
	claims.Subject = subject

	return claims, nil
}
