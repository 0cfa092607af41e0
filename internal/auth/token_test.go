package auth

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"
)

// fakeJWT arma un token con forma de JWT cuyo payload tiene el exp dado.
// La firma es basura: el fast-path no la mira.
func fakeJWT(exp time.Time) string {
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf(`{"sub":"x","exp":%d}`, exp.Unix())))
	return "eyJhbGciOiJSUzI1NiJ9." + payload + ".sig"
}

func TestTokenFresh_RoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"future exp", now.Add(time.Hour), true},
		{"just expired within skew", now.Add(-10 * time.Second), true},
		{"expired at skew boundary", now.Add(-FreshnessSkew), false},
		{"long expired", now.Add(-time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenFresh(fakeJWT(tc.exp), now); got != tc.want {
				t.Fatalf("TokenFresh = %v, want %v", got, tc.want)
			}
		})
	}
}

// Malformado = expirado (fail closed).
func TestTokenFresh_Malformed(t *testing.T) {
	now := time.Now()
	bad := []string{
		"",
		"not-a-jwt",
		"one.two",
		"a.b.c.d",
		"header.!!!notbase64!!!.sig",
		"header." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig",
		"header." + base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x"}`)) + ".sig", // sin exp
	}
	for _, token := range bad {
		if TokenFresh(token, now) {
			t.Fatalf("token malformado tratado como fresco: %q", token)
		}
	}
}

func TestPeekExpiry_StdPadding(t *testing.T) {
	// Emisores que usan base64 estándar con padding
	payload := base64.StdEncoding.EncodeToString([]byte(`{"exp":1750000000}`))
	exp, ok := PeekExpiry("h." + payload + ".s")
	if !ok {
		t.Fatal("PeekExpiry rechazó padding estándar")
	}
	if exp.Unix() != 1750000000 {
		t.Fatalf("exp = %d", exp.Unix())
	}
}
