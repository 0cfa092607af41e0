package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
)

// Verifier valida una credencial del identity provider y devuelve el
// Principal decodificado. Cualquier falla (ausente, malformada, expirada,
// firma inválida) colapsa en ErrUnauthenticated.
type Verifier interface {
	Verify(ctx context.Context, credential string) (types.Principal, error)
}

// =================================================================================
// JWKS VERIFIER
// =================================================================================

// JWKSVerifier verifica ID tokens RS256 contra el JWKS publicado por el
// identity provider. Las claves públicas se cachean por kid con un TTL corto
// para no golpear el endpoint JWKS en cada request.
type JWKSVerifier struct {
	jwksURL  string
	issuer   string
	audience string
	client   *http.Client
	keys     *gocache.Cache // kid -> *rsa.PublicKey
}

// JWKSVerifierConfig configura el verifier.
type JWKSVerifierConfig struct {
	JWKSURL  string
	Issuer   string
	Audience string
	KeyTTL   time.Duration
	Client   *http.Client
}

// NewJWKSVerifier crea un verifier con cache de claves.
func NewJWKSVerifier(cfg JWKSVerifierConfig) *JWKSVerifier {
	ttl := cfg.KeyTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &JWKSVerifier{
		jwksURL:  cfg.JWKSURL,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		client:   client,
		keys:     gocache.New(ttl, time.Minute),
	}
}

// Verify valida firma, iss, aud y exp/nbf (30s de tolerancia de reloj).
func (v *JWKSVerifier) Verify(ctx context.Context, credential string) (types.Principal, error) {
	if credential == "" {
		return types.Principal{}, ErrUnauthenticated
	}

	keyfunc := func(t *jwtv5.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		return v.publicKey(ctx, kid)
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{"RS256"}),
		jwtv5.WithLeeway(30 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwtv5.WithAudience(v.audience))
	}

	tok, err := jwtv5.Parse(credential, keyfunc, opts...)
	if err != nil || !tok.Valid {
		return types.Principal{}, ErrUnauthenticated
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return types.Principal{}, ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return types.Principal{}, ErrUnauthenticated
	}
	email, _ := claims["email"].(string)

	var exp time.Time
	if expf, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(expf), 0)
	}

	return types.Principal{SubjectID: sub, Email: email, ExpiresAt: exp}, nil
}

// publicKey resuelve la clave pública por kid, refrescando el JWKS en un miss.
func (v *JWKSVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if k, ok := v.keys.Get(kid); ok {
		return k.(*rsa.PublicKey), nil
	}
	if err := v.refresh(ctx); err != nil {
		return nil, err
	}
	if k, ok := v.keys.Get(kid); ok {
		return k.(*rsa.PublicKey), nil
	}
	return nil, fmt.Errorf("unknown kid %q", kid)
}

type jwksDoc struct {
	Keys []struct {
		KID string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (v *JWKSVerifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks fetch: status %d", resp.StatusCode)
	}

	var doc jwksDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return err
	}

	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.KID == "" {
			continue
		}
		pub, err := parseRSAKey(k.N, k.E)
		if err != nil {
			continue
		}
		v.keys.SetDefault(k.KID, pub)
	}
	return nil
}

func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}
