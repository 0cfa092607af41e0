package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPortalTokens_RoundTrip(t *testing.T) {
	tokens := NewPortalTokens([]byte("test-secret"), 15*time.Minute)
	now := time.Now()

	tok, err := tokens.Mint("pat-1", "clinic-a", now)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	p, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.PatientID != "pat-1" || p.TenantID != "clinic-a" {
		t.Fatalf("principal = %+v", p)
	}
	if p.ExpiresAt.Before(now.Add(14 * time.Minute)) {
		t.Fatalf("exp = %v, demasiado corto", p.ExpiresAt)
	}
}

func TestPortalTokens_Expired(t *testing.T) {
	tokens := NewPortalTokens([]byte("test-secret"), time.Minute)

	tok, err := tokens.Mint("pat-1", "clinic-a", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := tokens.Verify(tok); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestPortalTokens_WrongSecret(t *testing.T) {
	minter := NewPortalTokens([]byte("secret-a"), time.Minute)
	verifier := NewPortalTokens([]byte("secret-b"), time.Minute)

	tok, _ := minter.Mint("pat-1", "clinic-a", time.Now())
	if _, err := verifier.Verify(tok); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

// Un ID token de staff (otro scope) no sirve como token de portal.
func TestPortalTokens_Garbage(t *testing.T) {
	tokens := NewPortalTokens([]byte("test-secret"), time.Minute)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := tokens.Verify(tok); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("token %q: err = %v, want ErrUnauthenticated", tok, err)
		}
	}
}
