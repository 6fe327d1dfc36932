// Package server provides the HTTP REST API for the ATS optimizer.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims scoped to one optimization session.
type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates per-session bearer tokens. A token
// created for one session never grants access to another.
type TokenService struct {
	secret          []byte
	expirationHours int
}

// NewTokenService creates a token service with the given HMAC secret.
func NewTokenService(secret string, expirationHours int) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if expirationHours <= 0 {
		expirationHours = 24
	}
	return &TokenService{secret: []byte(secret), expirationHours: expirationHours}, nil
}

// Issue generates a signed token for the given session ID.
func (s *TokenService) Issue(sessionID uuid.UUID) (string, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expirationHours) * time.Hour)

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify validates a token and returns its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, &ErrTokenInvalid{Reason: "token string is empty"}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, &ErrTokenInvalid{Reason: "invalid signature"}
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, &ErrTokenInvalid{Reason: "token expired"}
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, &ErrTokenInvalid{Reason: "malformed token"}
		default:
			return nil, &ErrTokenInvalid{Reason: err.Error()}
		}
	}

	if !token.Valid {
		return nil, &ErrTokenInvalid{Reason: "token is not valid"}
	}

	return claims, nil
}
