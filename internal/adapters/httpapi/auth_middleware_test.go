package httpapi

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wayfarer-travel/wayfarer-api/internal/platform/auth/jwtverifier"
)

const (
	testIssuer   = "test-iss"
	testAudience = "test-aud"
	testKid      = "kid-1"
)

// newJWKSServer serves a single-key RS256 JWKS for priv's public key.
func newJWKSServer(t *testing.T, priv *rsa.PrivateKey) *httptest.Server {
	t.Helper()

	enc := base64.RawURLEncoding
	set := map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": testKid,
			"n":   enc.EncodeToString(priv.PublicKey.N.Bytes()),
			"e":   enc.EncodeToString(big.NewInt(int64(priv.PublicKey.E)).Bytes()),
		}},
	}
	body, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mintToken(t *testing.T, priv *rsa.PrivateKey, audience, sub, name string) string {
	t.Helper()

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss": testIssuer,
		"aud": audience,
		"sub": sub,
		"exp": now.Add(5 * time.Minute).Unix(),
		"nbf": now.Add(-5 * time.Second).Unix(),
	}
	if name != "" {
		claims["name"] = name
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKid
	signed, err := token.SignedString(priv)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newJWTTestRouter(t *testing.T) (http.Handler, *rsa.PrivateKey) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	jwksSrv := newJWKSServer(t, priv)

	v, err := jwtverifier.New(context.Background(), jwtverifier.Config{
		Issuer:    testIssuer,
		Audience:  testAudience,
		JWKSURL:   jwksSrv.URL,
		ClockSkew: time.Minute,
	})
	if err != nil {
		t.Fatalf("jwtverifier.New: %v", err)
	}

	return newTestRouterWithAuth(t, NewAuthMiddleware(v)), priv
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newJWTTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	er := decodeErrorResponse(t, rec)
	if er.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
	if er.Error.RequestID == "" {
		t.Fatalf("expected requestId to be set")
	}
}

func TestAuthMiddleware_MalformedHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newJWTTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_ProvisionsUser(t *testing.T) {
	t.Parallel()

	h, priv := newJWTTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, priv, testAudience, "auth0|alice", "Alice"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var u userDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.Subject != "auth0|alice" {
		t.Fatalf("subject: got %q", u.Subject)
	}
	if u.DisplayName != "Alice" {
		t.Fatalf("displayName: got %q", u.DisplayName)
	}
	if u.ID == "" {
		t.Fatalf("expected a provisioned user id")
	}
}

func TestAuthMiddleware_WrongAudience_401(t *testing.T) {
	t.Parallel()

	h, priv := newJWTTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, priv, "other-aud", "auth0|alice", ""))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusUnauthorized, rec.Body.String())
	}
}

func TestDevAuthMiddleware_UsesDebugSubject(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	// No subject anywhere: rejected before reaching handlers.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/users/me", "dev|carol", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var u userDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.Subject != "dev|carol" {
		t.Fatalf("subject: got %q", u.Subject)
	}
}
