package portal

import (
	"errors"
	"net/http"

	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/portal"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	mw "github.com/clinicia-hq/clinicia-server/internal/http/middlewares"
	svc "github.com/clinicia-hq/clinicia-server/internal/http/services/portal"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
)

// Controller handles /api/portal: the patient-facing surface.
type Controller struct {
	service svc.Service
}

// NewController creates a new portal controller.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Login handles POST /api/portal/login. Rate-limited at the router.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Portal.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	resp, err := c.service.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingClinic), errors.Is(err, svc.ErrMissingPhone),
			errors.Is(err, svc.ErrMissingAccessCode):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		case errors.Is(err, svc.ErrInvalidCredentials):
			httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		default:
			log.Error("portal login failed", logger.Err(err))
			httperrors.WriteError(w, err)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Profile handles GET /api/portal/me.
func (c *Controller) Profile(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPatient(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	patient, err := c.service.Profile(r.Context(), p)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProfileResponse{
		ID:        patient.ID,
		FirstName: patient.FirstName,
		LastName:  patient.LastName,
		Phone:     patient.Phone,
		Email:     patient.Email,
		BirthDate: patient.BirthDate,
	})
}

// Appointments handles GET /api/portal/appointments.
func (c *Controller) Appointments(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPatient(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	list, err := c.service.Appointments(r.Context(), p)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, dto.AppointmentResponse{
			ID:          a.ID,
			At:          a.At,
			Type:        a.Type,
			Status:      a.Status,
			TokenNumber: a.TokenNumber,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"appointments": resp})
}

// Visits handles GET /api/portal/visits.
func (c *Controller) Visits(w http.ResponseWriter, r *http.Request) {
	p, ok := mw.GetPatient(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	visits, err := c.service.Visits(r.Context(), p)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"visits": visits})
}
