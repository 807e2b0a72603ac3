package auth

import (
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	m := NewAccountManager()
	if err := m.Register("alice", "sekrit1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	username, err := m.Authenticate("alice", "sekrit1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if username != "alice" {
		t.Fatalf("resolved username = %q", username)
	}

	if _, err := m.Authenticate("alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v", err)
	}
	if _, err := m.Authenticate("nobody", "sekrit1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user error = %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	m := NewAccountManager()
	if err := m.Register("alice", "sekrit1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := m.Register("alice", "different"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate error = %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	m := NewAccountManager()
	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"empty username", "", "sekrit1", ErrInvalidUsername},
		{"username with space", "bad name", "sekrit1", ErrInvalidUsername},
		{"username too long", "abcdefghijklmnopqrstuvwxy", "sekrit1", ErrInvalidUsername},
		{"short password", "alice", "12345", ErrWeakPassword},
	}
	for _, tc := range cases {
		if err := m.Register(tc.username, tc.password); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestUsernameNormalizationCollapsesEquivalentForms(t *testing.T) {
	m := NewAccountManager()
	// "café" composed vs decomposed normalizes to the same account.
	composed := "café"
	decomposed := "café"

	if err := m.Register(composed, "sekrit1"); err != nil {
		t.Fatalf("register composed: %v", err)
	}
	if err := m.Register(decomposed, "sekrit1"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("decomposed form registered separately: %v", err)
	}
	if _, err := m.Authenticate(decomposed, "sekrit1"); err != nil {
		t.Fatalf("authenticate via decomposed form: %v", err)
	}
	if !m.Exists("  " + composed + "  ") {
		t.Fatalf("exists should trim surrounding whitespace")
	}
}
