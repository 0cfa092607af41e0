package auth

import (
	"context"
	"errors"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// UserLookup es el subconjunto del repositorio que el resolver necesita:
// un único read por subject id del identity provider.
type UserLookup interface {
	GetUserBySubjectID(ctx context.Context, subjectID string) (*core.User, error)
}

// SessionResolver construye la AuthSession de un request a partir de un
// Principal verificado. Un solo round-trip al store, sin side effects y sin
// reintentos: una falla de infraestructura se reporta como
// ErrStoreUnavailable, nunca como ErrUnauthenticated.
type SessionResolver struct {
	users UserLookup
}

// NewSessionResolver crea un resolver sobre el lookup dado.
func NewSessionResolver(users UserLookup) *SessionResolver {
	return &SessionResolver{users: users}
}

// Resolve busca el usuario vinculado al subject id y arma la sesión.
// El email del Principal se prefiere sobre el almacenado (es más fresco);
// si el provider no lo trae, se usa el del usuario.
func (r *SessionResolver) Resolve(ctx context.Context, p types.Principal) (types.AuthSession, error) {
	u, err := r.users.GetUserBySubjectID(ctx, p.SubjectID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return types.AuthSession{}, ErrUserNotProvisioned
		}
		return types.AuthSession{}, errors.Join(ErrStoreUnavailable, err)
	}

	email := p.Email
	if email == "" {
		email = u.Email
	}

	return types.AuthSession{
		SubjectID: p.SubjectID,
		Email:     email,
		TenantID:  u.TenantID,
		UserID:    u.ID,
		Role:      u.Role,
	}, nil
}
