package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer(time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	username, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if username != "alice" {
		t.Fatalf("username = %q", username)
	}
}

func TestTokenExpires(t *testing.T) {
	issuer, err := NewTokenIssuer(time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token error = %v", err)
	}
}

func TestTokenFromDifferentKeyRejected(t *testing.T) {
	issuerA, err := NewTokenIssuer(time.Hour)
	if err != nil {
		t.Fatalf("new issuer A: %v", err)
	}
	issuerB, err := NewTokenIssuer(time.Hour)
	if err != nil {
		t.Fatalf("new issuer B: %v", err)
	}

	token, err := issuerA.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuerB.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token error = %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	issuer, err := NewTokenIssuer(time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	if _, err := issuer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token error = %v", err)
	}
}
