package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/storefeed-backend/pkg/auth"
	"github.com/angelmondragon/storefeed-backend/pkg/config"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "storefeed", ExpirationMinutes: 60}

func captureUser(t *testing.T, header string) (int64, bool) {
	t.Helper()
	var (
		userID int64
		ok     bool
	)
	handler := OptionalAuth(testJWT, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected request to pass through, got %d", resp.Code)
	}
	return userID, ok
}

func TestOptionalAuthAnonymousWithoutToken(t *testing.T) {
	if _, ok := captureUser(t, ""); ok {
		t.Fatal("expected no user in context")
	}
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	if _, ok := captureUser(t, "Bearer invalid"); ok {
		t.Fatal("expected invalid token to be treated as anonymous")
	}
}

func TestOptionalAuthResolvesUser(t *testing.T) {
	token, err := auth.MintAccessToken(testJWT, time.Now(), auth.AccessTokenPayload{UserID: 42})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	userID, ok := captureUser(t, "Bearer "+token)
	if !ok || userID != 42 {
		t.Fatalf("expected user 42, got %d (%v)", userID, ok)
	}
}
