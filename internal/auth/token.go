package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// FreshnessSkew es la tolerancia de reloj del fast-path del edge middleware.
const FreshnessSkew = 30 * time.Second

// TokenFresh decide si un token de sesión sigue vigente inspeccionando SOLO
// el claim exp del payload, sin verificar la firma. Esto NO es un límite de
// seguridad: es una optimización de latencia para redirects del edge
// middleware. La decisión de confianza real la toman Verifier + Resolver en
// cada handler protegido.
//
// Un token malformado se trata igual que uno expirado (fail closed).
func TokenFresh(token string, now time.Time) bool {
	exp, ok := PeekExpiry(token)
	if !ok {
		return false
	}
	return exp.After(now.Add(-FreshnessSkew))
}

// PeekExpiry decodifica el segmento central de un JWT y extrae exp.
// ok=false si el token no tiene forma de JWT, el payload no es JSON o
// falta el claim exp.
func PeekExpiry(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		// Algunos emisores usan padding estándar
		payload, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return time.Time{}, false
		}
	}
	var claims struct {
		Exp float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return time.Time{}, false
	}
	return time.Unix(int64(claims.Exp), 0), true
}
