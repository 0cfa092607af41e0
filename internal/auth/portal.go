package auth

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
)

// =================================================================================
// PORTAL TOKENS
// =================================================================================

// PortalTokens emite y verifica los tokens de corta vida del portal de
// pacientes. Un paciente es una variante de principal totalmente distinta al
// staff: lleva patient_id + tenant_id y nunca pasa por el Tenant Guard.
type PortalTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewPortalTokens crea el emisor HS256 del portal.
func NewPortalTokens(secret []byte, ttl time.Duration) *PortalTokens {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PortalTokens{secret: secret, ttl: ttl}
}

// Mint emite un token para el paciente dado.
func (p *PortalTokens) Mint(patientID, tenantID string, now time.Time) (string, error) {
	exp := now.Add(p.ttl)
	claims := jwtv5.MapClaims{
		"sub":       patientID,
		"tenant_id": tenantID,
		"scope":     "portal",
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return tok.SignedString(p.secret)
}

// Verify valida firma y vigencia y devuelve el PatientPrincipal.
// Toda falla colapsa en ErrUnauthenticated.
func (p *PortalTokens) Verify(token string) (types.PatientPrincipal, error) {
	tok, err := jwtv5.Parse(token, func(t *jwtv5.Token) (any, error) {
		return p.secret, nil
	}, jwtv5.WithValidMethods([]string{"HS256"}), jwtv5.WithLeeway(30*time.Second))
	if err != nil || !tok.Valid {
		return types.PatientPrincipal{}, ErrUnauthenticated
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return types.PatientPrincipal{}, ErrUnauthenticated
	}
	if scope, _ := claims["scope"].(string); scope != "portal" {
		return types.PatientPrincipal{}, ErrUnauthenticated
	}
	sub, _ := claims["sub"].(string)
	tenant, _ := claims["tenant_id"].(string)
	if sub == "" || tenant == "" {
		return types.PatientPrincipal{}, ErrUnauthenticated
	}

	var exp time.Time
	if expf, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(expf), 0)
	}

	return types.PatientPrincipal{PatientID: sub, TenantID: tenant, ExpiresAt: exp}, nil
}
