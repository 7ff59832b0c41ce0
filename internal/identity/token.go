package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the claims carried by the auth provider's access token.
type SessionClaims struct {
	jwt.RegisteredClaims

	Email        string       `json:"email,omitempty"`
	Role         string       `json:"role,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata,omitempty"`
}

type UserMetadata struct {
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

type VerifiedSession struct {
	UserID    string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// VerifySessionToken verifies an access token (JWT, HS256) using the project JWT secret.
func VerifySessionToken(tokenString, audience, secret string, now time.Time) (*VerifiedSession, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing jwt secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	parser := jwt.NewParser(opts...)
	claims := &SessionClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}


	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("invalid subject")
	}

	name := strings.TrimSpace(claims.UserMetadata.Name)
	if name == "" {
		name = strings.TrimSpace(claims.UserMetadata.FullName)
	}

	return &VerifiedSession{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Name:      name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignSessionToken issues a token shaped like the provider's. Used by dev tooling and tests.
func SignSessionToken(userID, email, name, audience, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:        email,
		Role:         "authenticated",
		UserMetadata: UserMetadata{Name: name},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
