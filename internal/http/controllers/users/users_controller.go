package users

import (
	"errors"
	"net/http"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/users"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	mw "github.com/clinicia-hq/clinicia-server/internal/http/middlewares"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/users"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// Controller handles /api/users.
type Controller struct {
	service    svc.Service
	verifier   auth.Verifier
	cookieName string
}

// NewController creates a new users controller. The verifier is needed
// by Onboard, which runs before the caller has a resolvable session.
func NewController(service svc.Service, verifier auth.Verifier, cookieName string) *Controller {
	return &Controller{service: service, verifier: verifier, cookieName: cookieName}
}

// Onboard handles POST /api/users/onboard.
// The caller presents a valid identity-provider credential that does
// not yet resolve to a user row; this creates and links it.
func (c *Controller) Onboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Users.Onboard"))

	cred := mw.ExtractCredential(r, c.cookieName)
	if cred == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}
	principal, err := c.verifier.Verify(ctx, cred)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	var req dto.OnboardRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	u, err := c.service.Onboard(ctx, principal, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingClinic), errors.Is(err, svc.ErrMissingName), errors.Is(err, svc.ErrBadRole):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		case errors.Is(err, core.ErrNotFound):
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("clinic not found"))
		case errors.Is(err, core.ErrConflict):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("account already linked"))
		default:
			log.Error("onboard failed", logger.Err(err))
			httperrors.WriteError(w, err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, toResponse(u))
}

// Me handles GET /api/users/me: the resolved session of the caller.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	session := mw.MustGetSession(r.Context())
	helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{
		ID:       session.UserID,
		ClinicID: session.TenantID,
		Email:    session.Email,
		Role:     string(session.Role),
	})
}

// ListDoctors handles GET /api/users/doctors.
func (c *Controller) ListDoctors(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := helpers.AuthorizeTenant(w, r)
	if !ok {
		return
	}
	list, err := c.service.ListDoctors(r.Context(), tenantID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp := dto.ListResponse{Users: make([]dto.UserResponse, 0, len(list))}
	for _, u := range list {
		resp.Users = append(resp.Users, toResponse(&u))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func toResponse(u *core.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		ClinicID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
