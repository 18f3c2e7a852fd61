// Package jwtverifier validates RS256 bearer tokens against a JWKS endpoint.
package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token fields the application consumes.
type Claims struct {
	Subject string
	Name    string
}

type Config struct {
	Issuer   string
	Audience string
	JWKSURL  string

	ClockSkew time.Duration
}

// Verifier validates bearer tokens. The JWKS is fetched lazily and refreshed
// in the background to pick up key rotation.
type Verifier struct {
	keys     keyfunc.Keyfunc
	issuer   string
	audience string
	leeway   time.Duration
}

func New(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || cfg.JWKSURL == "" {
		return nil, errors.New("jwtverifier: issuer, audience and JWKS URL are required")
	}
	keys, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	return &Verifier{
		keys:     keys,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		leeway:   cfg.ClockSkew,
	}, nil
}

// Verify parses and validates tokenString and returns its claims.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("verify token: %w", err)
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, errors.New("token has no subject")
	}
	out := Claims{Subject: sub}
	if name, ok := claims["name"].(string); ok {
		out.Name = name
	}
	return out, nil
}
