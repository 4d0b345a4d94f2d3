package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pollboard/pollboard/backend/go-services/internal/config"
	"github.com/pollboard/pollboard/backend/go-services/internal/models"
)

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-32-bytes-should-be-long-enough"

	u := &models.User{Sub: "user-123", Name: "Test User", Email: "test@example.com"}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	// parse and validate
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatalf("token should be valid")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type assertion failed")
	}
	if claims["sub"] != u.Sub {
		t.Fatalf("unexpected sub claim: got=%v want=%v", claims["sub"], u.Sub)
	}
}

func TestHMACVerifier_RoundTrip(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "another-secret-32-bytes-longgggg"
	u := &models.User{Sub: "u2", Name: "X", Email: "x@x"}
	tokenStr, err := GenerateAccessToken(cfg, u, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	ver := NewHMACVerifier(cfg.JWT.Secret)
	tok, err := ver.Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		t.Fatalf("Claims error: %v", err)
	}
	if claims["sub"] != "u2" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
}

func TestHMACVerifier_WrongSecretFails(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "secret-one-32-bytes-xxxxxxxxxxxxxxxx"
	u := &models.User{Sub: "u3"}
	tokenStr, err := GenerateAccessToken(cfg, u, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	ver := NewHMACVerifier("a-completely-different-secret-yyyy")
	if _, err := ver.Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verification to fail with the wrong secret")
	}
}

func TestHMACVerifier_ExpiredTokenFails(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "expiry-secret-32-bytes-zzzzzzzzzzzz"
	u := &models.User{Sub: "u4"}
	tokenStr, err := GenerateAccessToken(cfg, u, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	ver := NewHMACVerifier(cfg.JWT.Secret)
	if _, err := ver.Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verification to fail for an expired token")
	}
}
