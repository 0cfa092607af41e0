package session

import (
	"net/http"

	"github.com/clinicia-hq/clinicia-server/internal/audit"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/session"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/session"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
)

// Controller handles POST/DELETE /api/auth/session.
type Controller struct {
	service svc.EstablishService
}

// NewController creates a new session controller.
func NewController(service svc.EstablishService) *Controller {
	return &Controller{service: service}
}

// Establish handles POST /api/auth/session.
// Verifies the identity-provider token and sets the session cookie.
func (c *Controller) Establish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Session.Establish"))

	var req dto.EstablishRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	result, err := c.service.Establish(ctx, req)
	if err != nil {
		log.Debug("session establish rejected", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	http.SetCookie(w, c.service.BuildSessionCookie(result.Token))
	w.Header().Set("Cache-Control", "no-store")
	audit.Record(ctx, audit.SessionEstablished,
		logger.UserID(result.Session.UserID),
		logger.TenantID(result.Session.TenantID),
		logger.Role(string(result.Session.Role)),
	)

	helpers.WriteJSON(w, http.StatusOK, dto.EstablishResponse{
		UserID:   result.Session.UserID,
		TenantID: result.Session.TenantID,
		Email:    result.Session.Email,
		Role:     string(result.Session.Role),
	})
}

// Clear handles DELETE /api/auth/session.
// Always succeeds: clearing an absent session is a no-op.
func (c *Controller) Clear(w http.ResponseWriter, r *http.Request) {
	audit.Record(r.Context(), audit.SessionCleared)
	http.SetCookie(w, c.service.BuildDeletionCookie())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
