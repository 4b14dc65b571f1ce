package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 42, "ada@example.com", "EMPLOYEE", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if at.Token == "" {
		t.Fatal("empty token")
	}
	if remaining := time.Until(at.Exp); remaining < 14*time.Minute || remaining > 16*time.Minute {
		t.Errorf("expiry %v not ~15m out", at.Exp)
	}

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tk.Method)
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v (valid=%v)", err, tok.Valid)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if got := claims["sub"].(float64); uint64(got) != 42 {
		t.Errorf("sub = %v, want 42", got)
	}
	if claims["email"] != "ada@example.com" {
		t.Errorf("email = %v", claims["email"])
	}
	if claims["role"] != "EMPLOYEE" {
		t.Errorf("role = %v", claims["role"])
	}
}

func TestAccessTokenWrongSecretRejected(t *testing.T) {
	at, err := NewAccessToken("right", 1, "a@b.c", "ADMIN", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	if err == nil && tok.Valid {
		t.Error("token verified with the wrong secret")
	}
}

func TestRefreshTokenGeneration(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(a.Raw) != 96 {
		t.Errorf("raw length = %d, want 96 hex chars", len(a.Raw))
	}
	if a.Raw == b.Raw {
		t.Error("two refresh tokens are identical")
	}
	if remaining := time.Until(a.Exp); remaining < 6*24*time.Hour {
		t.Errorf("expiry %v not ~7d out", a.Exp)
	}
}

func TestHashRefreshRawIsStable(t *testing.T) {
	h1 := HashRefreshRaw("tok")
	h2 := HashRefreshRaw("tok")
	if h1 != h2 {
		t.Error("same input hashed differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
	if h1 == HashRefreshRaw("tok2") {
		t.Error("different inputs collided")
	}
}
