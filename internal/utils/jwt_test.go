package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("secret-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestParseTokenExpiry_Success(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signTestToken(t, &jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := ParseTokenExpiry(raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expected exp %v, got %v", exp, got)
	}
}

func TestParseTokenExpiry_NoExp(t *testing.T) {
	raw := signTestToken(t, &jwt.RegisteredClaims{Subject: "device"})

	_, err := ParseTokenExpiry(raw)
	if !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("expected ErrNoExpiry, got %v", err)
	}
}

func TestParseTokenExpiry_Malformed(t *testing.T) {
	if _, err := ParseTokenExpiry("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	valid := signTestToken(t, &jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))})
	soon := signTestToken(t, &jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Second))})

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid for an hour", valid, false},
		{"expires inside leeway", soon, true},
		{"opaque token", "opaque-token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenExpired(tt.token, now, time.Minute); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
